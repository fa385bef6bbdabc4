package event

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryFilter narrows an event query. Nil/empty fields match everything.
type QueryFilter struct {
	Start     *time.Time
	End       *time.Time
	Status    string
	HostEmail string
}

// StatusCounts holds the aggregate counters over the stored events.
type StatusCounts struct {
	Total    int64 `json:"total_events"`
	Active   int64 `json:"active_events"`
	Canceled int64 `json:"canceled_events"`
}

// Repository defines the interface for event data operations
type Repository interface {
	UpsertEvent(ctx context.Context, ev *Event) error
	UpsertBatch(ctx context.Context, events []Event) (newCount, updatedCount int, err error)
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)
	Counts(ctx context.Context) (*StatusCounts, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new event repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// UpsertEvent writes one event and its invitees, replacing any stored
// versions unconditionally. Invitees are written under the parent URI
// regardless of what the rows carried.
func (r *gormRepository) UpsertEvent(ctx context.Context, ev *Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(ev).Error; err != nil {
			return err
		}
		for i := range ev.Invitees {
			ev.Invitees[i].EventURI = ev.EventURI
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				Create(&ev.Invitees[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertBatch merges a fetched batch into the store. Unknown events are
// inserted, known events are rewritten only when the incoming updated_at is
// strictly newer than the stored one. Equal or older records are left
// untouched, so replaying the same batch is a no-op.
func (r *gormRepository) UpsertBatch(ctx context.Context, events []Event) (int, int, error) {
	var newCount, updatedCount int
	for i := range events {
		var stored Event
		err := r.db.WithContext(ctx).
			Select("event_uri", "updated_at").
			Where("event_uri = ?", events[i].EventURI).
			Take(&stored).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := r.UpsertEvent(ctx, &events[i]); err != nil {
				return newCount, updatedCount, err
			}
			newCount++
		case err != nil:
			return newCount, updatedCount, err
		case events[i].UpdatedAt.After(stored.UpdatedAt):
			if err := r.UpsertEvent(ctx, &events[i]); err != nil {
				return newCount, updatedCount, err
			}
			updatedCount++
		}
	}
	return newCount, updatedCount, nil
}

// Query returns matching events newest first, with their invitees attached.
func (r *gormRepository) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	q := r.db.WithContext(ctx).Model(&Event{})
	if filter.Start != nil {
		q = q.Where("start_time >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("start_time <= ?", *filter.End)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.HostEmail != "" {
		q = q.Where("host_email = ?", filter.HostEmail)
	}

	var events []Event
	if err := q.Order("start_time DESC").Find(&events).Error; err != nil {
		return nil, err
	}

	for i := range events {
		var invitees []Invitee
		if err := r.db.WithContext(ctx).
			Where("event_uri = ?", events[i].EventURI).
			Find(&invitees).Error; err != nil {
			return nil, err
		}
		events[i].Invitees = invitees
	}
	return events, nil
}

// Counts aggregates the per-status totals across the whole store.
func (r *gormRepository) Counts(ctx context.Context) (*StatusCounts, error) {
	var counts StatusCounts
	if err := r.db.WithContext(ctx).Model(&Event{}).
		Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&Event{}).
		Where("status = ?", "active").Count(&counts.Active).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&Event{}).
		Where("status = ?", "canceled").Count(&counts.Canceled).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}
