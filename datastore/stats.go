package datastore

import (
	"context"
	"fmt"

	"github.com/insighthub/insighthub/metrics"
	"github.com/insighthub/insighthub/models"
)

type StatsRepository struct {
	store *Store
}

func NewStatsRepository(store *Store) *StatsRepository {
	return &StatsRepository{store: store}
}

func (r *StatsRepository) GetStats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := r.store.View(ctx, "get_stats", func(doc *models.Document) error {
		stats = doc.Stats
		return nil
	})
	if err != nil {
		return models.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

// RecordEvent increments the counter for kind and returns every counter.
// Unrecognized kinds leave the counters untouched and are not an error; the
// dashboard has always relied on that.
func (r *StatsRepository) RecordEvent(ctx context.Context, kind models.StatKind) (models.Stats, error) {
	var stats models.Stats
	err := r.store.Update(ctx, "record_event", func(doc *models.Document) error {
		recognized := doc.Stats.Increment(kind)
		label := string(kind)
		if !recognized {
			label = "other"
		}
		metrics.RecordStatEvent(label, recognized)
		stats = doc.Stats
		return nil
	})
	if err != nil {
		return models.Stats{}, fmt.Errorf("failed to record %q event: %w", kind, err)
	}
	return stats, nil
}

// ResetAll clears tasks and counters; see Store.ResetAll.
func (r *StatsRepository) ResetAll(ctx context.Context) error {
	return r.store.ResetAll(ctx)
}
