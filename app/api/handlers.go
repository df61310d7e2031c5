package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/fin-comb/app/feed"
	"github.com/lysyi3m/fin-comb/app/tasks"
)

func NewHandler(catalog CatalogInterface, runner RunnerInterface, defaults RunDefaults, version string) *Handler {
	return &Handler{
		catalog:  catalog,
		runner:   runner,
		defaults: defaults,
		version:  version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp":        time.Now().In(time.Local).Format(time.RFC3339),
		"loaded_providers": h.catalog.GetProfileCount(),
		"version":          h.version,
	})
}

func (h *Handler) ListProviders(c *gin.Context) {
	profiles := h.catalog.GetProfiles()

	providers := make([]gin.H, 0, len(profiles))
	for _, p := range profiles {
		providers = append(providers, gin.H{
			"id":     p.ID,
			"name":   p.Name,
			"format": p.Format,
			"topics": p.TopicNames(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": providers,
		"total":     len(providers),
	})
}

func (h *Handler) RunAggregation(c *gin.Context) {
	req := tasks.RunRequest{
		Provider: c.Param("provider"),
		Topic:    c.Param("topic"),
		MaxItems: h.defaults.MaxItems,
		Window:   h.defaults.Window,
	}

	if v := c.Query("max_items"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_items must be an integer"})
			return
		}
		req.MaxItems = n
	}

	if v := c.Query("window_hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window_hours must be a positive integer"})
			return
		}
		req.Window = time.Duration(n) * time.Hour
	}

	out, path, err := h.runner.Run(c.Request.Context(), req)
	if err != nil {
		status := errorStatus(err)
		slog.Error("Aggregation run failed", "provider", req.Provider, "topic", req.Topic, "status", status, "error", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Run-ID", out.RunID)
	c.JSON(http.StatusOK, RunResponse{Path: path, Output: out})
}

func errorStatus(err error) int {
	var (
		lookupErr    *feed.CatalogLookupError
		transportErr *feed.TransportError
		parseErr     *feed.ParseError
		enrichErr    *feed.EnrichmentFailure
	)

	switch {
	case errors.As(err, &lookupErr):
		return http.StatusNotFound
	case errors.As(err, &transportErr), errors.As(err, &enrichErr):
		return http.StatusBadGateway
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
