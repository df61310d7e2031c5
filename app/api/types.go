package api

import (
	"context"
	"time"

	"github.com/lysyi3m/fin-comb/app/feed"
	"github.com/lysyi3m/fin-comb/app/tasks"
)

type RunnerInterface interface {
	Run(ctx context.Context, req tasks.RunRequest) (*feed.RunOutput, string, error)
}

var _ RunnerInterface = (*tasks.Aggregator)(nil)

type CatalogInterface interface {
	GetProfiles() []*feed.Profile
	GetProfileCount() int
}

var _ CatalogInterface = (*feed.Catalog)(nil)

// RunDefaults apply when a run request omits max_items or window_hours.
type RunDefaults struct {
	MaxItems int
	Window   time.Duration
}

type Handler struct {
	catalog  CatalogInterface
	runner   RunnerInterface
	defaults RunDefaults
	version  string
}

type RunResponse struct {
	Path   string          `json:"path"`
	Output *feed.RunOutput `json:"output"`
}
