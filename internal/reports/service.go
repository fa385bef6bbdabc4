package reports

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fms-tools/calendly-insights/internal/event"
	"github.com/fms-tools/calendly-insights/utils"
)

const summaryTTL = time.Hour

// Service builds report rows and summaries from the stored events.
type Service struct {
	events event.Repository
	cache  *utils.Cache
	logger *slog.Logger
}

// NewService creates a new reports service
func NewService(events event.Repository, cache *utils.Cache, logger *slog.Logger) *Service {
	return &Service{events: events, cache: cache, logger: logger}
}

// Events returns the filtered events for export.
func (s *Service) Events(ctx context.Context, filter event.QueryFilter) ([]event.Event, error) {
	return s.events.Query(ctx, filter)
}

// GetSummary computes the dashboard summary for a filter window, serving
// from cache when a recent result exists.
func (s *Service) GetSummary(ctx context.Context, filter event.QueryFilter) (*Summary, error) {
	key := summaryCacheKey(filter)

	var cached Summary
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	events, err := s.events.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	summary := BuildSummary(events)
	s.cache.SetJSON(ctx, key, summary, summaryTTL)
	return summary, nil
}

func summaryCacheKey(filter event.QueryFilter) string {
	start, end := "", ""
	if filter.Start != nil {
		start = filter.Start.Format("2006-01-02")
	}
	if filter.End != nil {
		end = filter.End.Format("2006-01-02")
	}
	return fmt.Sprintf("reports:summary:%s:%s:%s:%s", start, end, filter.Status, filter.HostEmail)
}

// BuildRows flattens events into report rows, one per event, newest first
// in whatever order the input carries.
func BuildRows(events []event.Event) []Row {
	rows := make([]Row, 0, len(events))
	for _, ev := range events {
		names := make([]string, 0, len(ev.Invitees))
		for _, inv := range ev.Invitees {
			names = append(names, inv.Name)
		}
		rows = append(rows, Row{
			Date:      ev.StartTime.Format("02.01.2006"),
			Time:      ev.StartTime.Format("15:04"),
			EventName: ev.EventName,
			HostName:  ev.HostName,
			Invitees:  strings.Join(names, ", "),
			Status:    ev.Status,
			Duration:  ev.DurationMinutes,
			Location:  ev.LocationType,
		})
	}
	return rows
}

// BuildSummary computes KPIs and breakdowns over a slice of events.
func BuildSummary(events []event.Event) *Summary {
	summary := &Summary{GeneratedAt: time.Now().UTC()}

	perDay := map[string]int{}
	perWeekday := map[string]int{}
	perHour := map[int]int{}
	hosts := map[string]*HostStats{}
	hostInvitees := map[string]map[string]struct{}{}
	hostDuration := map[string]int{}
	types := map[string]*TypeStats{}
	uniqueInvitees := map[string]struct{}{}
	totalDuration := 0

	for _, ev := range events {
		summary.TotalEvents++
		switch ev.Status {
		case "active":
			summary.ActiveEvents++
		case "canceled":
			summary.CanceledEvents++
		}
		totalDuration += ev.DurationMinutes

		perDay[ev.StartTime.Format("2006-01-02")]++
		perWeekday[weekdayLabel(ev.StartTime.Weekday())]++
		perHour[ev.StartTime.Hour()]++

		h, ok := hosts[ev.HostName]
		if !ok {
			h = &HostStats{HostName: ev.HostName}
			hosts[ev.HostName] = h
			hostInvitees[ev.HostName] = map[string]struct{}{}
		}
		h.TotalEvents++
		if ev.Status == "canceled" {
			h.CanceledEvents++
		}
		hostDuration[ev.HostName] += ev.DurationMinutes

		ty, ok := types[ev.EventName]
		if !ok {
			ty = &TypeStats{EventName: ev.EventName}
			types[ev.EventName] = ty
		}
		ty.TotalEvents++
		switch ev.Status {
		case "active":
			ty.ActiveEvents++
		case "canceled":
			ty.CanceledEvents++
		}

		for _, inv := range ev.Invitees {
			uniqueInvitees[inv.Email] = struct{}{}
			hostInvitees[ev.HostName][inv.Email] = struct{}{}
		}
	}

	summary.UniqueInvitees = len(uniqueInvitees)
	if summary.TotalEvents > 0 {
		summary.CancelRate = round1(float64(summary.CanceledEvents) / float64(summary.TotalEvents) * 100)
		summary.AvgDurationMinutes = round1(float64(totalDuration) / float64(summary.TotalEvents))
	}

	for day, count := range perDay {
		summary.EventsPerDay = append(summary.EventsPerDay, DateCount{Date: day, Count: count})
	}
	sort.Slice(summary.EventsPerDay, func(i, j int) bool {
		return summary.EventsPerDay[i].Date < summary.EventsPerDay[j].Date
	})

	for _, label := range weekdayLabels {
		summary.EventsPerWeekday = append(summary.EventsPerWeekday, LabelCount{Label: label, Count: perWeekday[label]})
	}

	for hour := 0; hour < 24; hour++ {
		if count := perHour[hour]; count > 0 {
			summary.EventsPerHour = append(summary.EventsPerHour, HourCount{Hour: hour, Count: count})
		}
	}

	for name, h := range hosts {
		if h.TotalEvents > 0 {
			h.CancelRate = round1(float64(h.CanceledEvents) / float64(h.TotalEvents) * 100)
			h.AvgDurationMinutes = round1(float64(hostDuration[name]) / float64(h.TotalEvents))
		}
		h.UniqueInvitees = len(hostInvitees[name])
		summary.HostBreakdown = append(summary.HostBreakdown, *h)
	}
	sort.Slice(summary.HostBreakdown, func(i, j int) bool {
		a, b := summary.HostBreakdown[i], summary.HostBreakdown[j]
		if a.TotalEvents != b.TotalEvents {
			return a.TotalEvents > b.TotalEvents
		}
		return a.HostName < b.HostName
	})

	for _, ty := range types {
		summary.TypeBreakdown = append(summary.TypeBreakdown, *ty)
	}
	sort.Slice(summary.TypeBreakdown, func(i, j int) bool {
		a, b := summary.TypeBreakdown[i], summary.TypeBreakdown[j]
		if a.TotalEvents != b.TotalEvents {
			return a.TotalEvents > b.TotalEvents
		}
		return a.EventName < b.EventName
	})

	return summary
}

func weekdayLabel(d time.Weekday) string {
	// time.Weekday starts on Sunday, the dashboard week starts on Monday.
	return weekdayLabels[(int(d)+6)%7]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
