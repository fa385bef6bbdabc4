package calendly

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// inviteeWorkers bounds the invitee fan-out. Member event lists stay
// sequential; an organization has few members but many events.
const inviteeWorkers = 4

// Fetcher assembles the complete set of events visible to an organization
// within a time window, each stamped with its host and carrying its
// invitee list. It is purely read-only against the API.
type Fetcher struct {
	client *Client
	logger *slog.Logger
}

func NewFetcher(client *Client, logger *slog.Logger) *Fetcher {
	return &Fetcher{client: client, logger: logger}
}

// FetchAll lists the organization's members, collects each member's events
// in [start, end] stamped with that member's name and email, then attaches
// every event's invitee list. Failures scoped to one member or one event
// are logged and skipped so a partial result is returned instead of none;
// auth failures abort the whole fetch.
func (f *Fetcher) FetchAll(ctx context.Context, start, end time.Time) ([]ScheduledEvent, error) {
	members, err := f.client.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	f.logger.Info("fetched organization members", "count", len(members))

	var all []ScheduledEvent
	for _, member := range members {
		events, err := f.client.ListEvents(ctx, start, end, member.User.URI)
		if err != nil {
			if errors.Is(err, ErrAuth) || ctx.Err() != nil {
				return nil, err
			}
			f.logger.Warn("skipping member, event fetch failed",
				"member", member.User.Email, "error", err)
			continue
		}
		for i := range events {
			events[i].HostName = member.User.Name
			events[i].HostEmail = member.User.Email
		}
		all = append(all, events...)
		f.logger.Debug("fetched member events", "member", member.User.Email, "count", len(events))
	}
	f.logger.Info("fetched scheduled events", "count", len(all))

	// Invitee fan-out. A failed lookup keeps the event with an empty
	// invitee list; the goroutines never return an error so one bad
	// event cannot cancel the rest.
	var g errgroup.Group
	g.SetLimit(inviteeWorkers)
	for i := range all {
		i := i
		g.Go(func() error {
			invitees, err := f.client.ListInvitees(ctx, all[i].URI)
			if err != nil {
				f.logger.Warn("skipping invitees, fetch failed",
					"event", all[i].URI, "error", err)
				all[i].Invitees = []Invitee{}
				return nil
			}
			all[i].Invitees = invitees
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return all, nil
}
