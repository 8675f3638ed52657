package analytics

import (
	"context"
	"fmt"
	"log/slog"
)

// Aggregator computes Stats on demand; nothing is cached between calls.
type Aggregator struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewAggregator(repo RepositoryAPI, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		repo:   repo,
		logger: logger,
	}
}

// Aggregate always returns usable Stats; on a read failure they are empty and err is set.
func (a *Aggregator) Aggregate(ctx context.Context) (Stats, error) {
	rows, err := a.repo.ReadAll(ctx)
	if err != nil {
		return EmptyStats(), fmt.Errorf("read feedback: %w", err)
	}

	stats := Summarize(rows)
	a.logger.Debug("analytics aggregated", "count", stats.Count, "average_rating", stats.AverageRating)
	return stats, nil
}
