package event

import (
	"context"

	"github.com/fms-tools/calendly-insights/internal/synclog"
)

// Stats combines the store counters with the most recent sync outcome.
// LastSync is nil when the store has never been synced.
type Stats struct {
	TotalEvents    int64          `json:"total_events"`
	ActiveEvents   int64          `json:"active_events"`
	CanceledEvents int64          `json:"canceled_events"`
	LastSync       *synclog.Entry `json:"last_sync"`
}

// Service defines the interface for event business logic
type Service interface {
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo     Repository
	syncLogs synclog.Repository
}

// NewService creates a new event service
func NewService(repo Repository, syncLogs synclog.Repository) Service {
	return &service{repo: repo, syncLogs: syncLogs}
}

func (s *service) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return s.repo.Query(ctx, filter)
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	last, err := s.syncLogs.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalEvents:    counts.Total,
		ActiveEvents:   counts.Active,
		CanceledEvents: counts.Canceled,
		LastSync:       last,
	}, nil
}
