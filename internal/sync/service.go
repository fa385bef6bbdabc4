package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/fms-tools/calendly-insights/internal/calendly"
	"github.com/fms-tools/calendly-insights/internal/event"
	"github.com/fms-tools/calendly-insights/internal/synclog"
	"github.com/fms-tools/calendly-insights/utils"
)

// Fetcher pulls the organization's events for a window.
type Fetcher interface {
	FetchAll(ctx context.Context, start, end time.Time) ([]calendly.ScheduledEvent, error)
}

// Service runs a full fetch-and-merge cycle and records its outcome.
type Service struct {
	fetcher Fetcher
	events  event.Repository
	logs    synclog.Repository
	cache   *utils.Cache
	logger  *slog.Logger
}

// NewService creates a new sync service
func NewService(fetcher Fetcher, events event.Repository, logs synclog.Repository, cache *utils.Cache, logger *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		events:  events,
		logs:    logs,
		cache:   cache,
		logger:  logger,
	}
}

// Run fetches the window, merges the batch into the store and appends a sync
// log entry. Every run leaves exactly one entry behind, failed runs included.
// The return value reports overall success and never carries an error; the
// details live in the log entry.
func (s *Service) Run(ctx context.Context, start, end time.Time) bool {
	s.logger.Info("starting sync",
		"start", start.Format(time.RFC3339),
		"end", end.Format(time.RFC3339))

	events, err := s.fetcher.FetchAll(ctx, start, end)
	if err != nil {
		s.logger.Error("sync failed during fetch", "error", err)
		s.recordFailure(ctx, err)
		return false
	}

	newCount, updated, err := s.events.UpsertBatch(ctx, event.FromAPIBatch(events))
	if err != nil {
		s.logger.Error("sync failed during store merge", "error", err)
		s.recordFailure(ctx, err)
		return false
	}

	entry := &synclog.Entry{
		SyncDate:      time.Now().UTC(),
		EventsFetched: len(events),
		EventsNew:     newCount,
		EventsUpdated: updated,
		Success:       true,
	}
	if err := s.logs.Record(ctx, entry); err != nil {
		s.logger.Error("failed to record sync outcome", "error", err)
		return false
	}

	s.cache.FlushReports(ctx)
	s.logger.Info("sync complete",
		"fetched", entry.EventsFetched,
		"new", entry.EventsNew,
		"updated", entry.EventsUpdated)
	return true
}

func (s *Service) recordFailure(ctx context.Context, cause error) {
	entry := &synclog.Entry{
		SyncDate:     time.Now().UTC(),
		Success:      false,
		ErrorMessage: cause.Error(),
	}
	if err := s.logs.Record(ctx, entry); err != nil {
		s.logger.Error("failed to record sync failure", "error", err)
	}
}
