package tasks

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/fin-comb/app/feed"
)

type EnrichItemTask struct {
	Task
	Index    int
	Item     feed.FilteredItem
	Topic    string
	Profile  *feed.Profile
	enricher *Enricher

	Article  feed.Article
	Warnings []feed.Warning
}

func NewEnrichItemTask(index int, item feed.FilteredItem, topic string, profile *feed.Profile, enricher *Enricher) *EnrichItemTask {
	return &EnrichItemTask{
		Task:     NewTask(TaskTypeEnrichItem, profile.SourceID(topic)),
		Index:    index,
		Item:     item,
		Topic:    topic,
		Profile:  profile,
		enricher: enricher,
	}
}

// Execute always leaves a draft Article behind, even when it returns an error.
func (t *EnrichItemTask) Execute(ctx context.Context) error {
	article, warnings, err := t.enricher.Run(ctx, t.Item, t.Topic, t.Profile)
	t.Article = article
	t.Warnings = warnings

	slog.Debug("Item enriched", "source", t.SourceID, "index", t.Index, "link", t.Item.Link, "degraded", article.Degraded, "duration", t.GetDuration())

	return err
}
