package calendar

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/rpggio/calmmind/internal/domain/task"
)

// PriorityProperty is the private extended property an event can carry to
// set the imported task's priority.
const PriorityProperty = "calmmind_priority"

// EventSource lists calendar events in a time window.
type EventSource interface {
	Events(ctx context.Context, from, to time.Time) ([]*gcal.Event, error)
}

// GoogleSource reads events from one Google calendar.
type GoogleSource struct {
	srv        *gcal.Service
	calendarID string
}

// NewGoogleSource creates a source for calendarID using an authorized client.
func NewGoogleSource(ctx context.Context, client *http.Client, calendarID string) (*GoogleSource, error) {
	srv, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleSource{srv: srv, calendarID: calendarID}, nil
}

// Events implements EventSource, expanding recurring events and following
// pagination.
func (s *GoogleSource) Events(ctx context.Context, from, to time.Time) ([]*gcal.Event, error) {
	var out []*gcal.Event
	pageToken := ""
	for {
		call := s.srv.Events.List(s.calendarID).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
		}
		out = append(out, events.Items...)
		if events.NextPageToken == "" {
			return out, nil
		}
		pageToken = events.NextPageToken
	}
}

// EventToTask converts an event into a task creation request for owner.
// Cancelled and untitled events are skipped. The task is due when the event
// ends; all-day events are due on their last day.
func EventToTask(ev *gcal.Event, owner string, loc *time.Location) (task.CreateRequest, bool) {
	if ev == nil || ev.Status == "cancelled" || strings.TrimSpace(ev.Summary) == "" {
		return task.CreateRequest{}, false
	}
	if loc == nil {
		loc = time.UTC
	}

	start := eventTime(ev.Start, loc)
	due := eventTime(ev.End, loc)
	if ev.End != nil && ev.End.DateTime == "" && due != nil {
		last := due.AddDate(0, 0, -1)
		due = &last
		if start != nil && due.Before(*start) {
			due = start
		}
	}
	if due == nil {
		due = start
	}

	priority := task.PriorityMedium
	if ev.ExtendedProperties != nil {
		if p, ok := ev.ExtendedProperties.Private[PriorityProperty]; ok {
			priority = task.NormalizePriority(task.Priority(p))
		}
	}

	return task.CreateRequest{
		OwnerID:   owner,
		Title:     strings.TrimSpace(ev.Summary),
		Priority:  priority,
		StartDate: start,
		DueDate:   due,
		Tags:      []string{"calendar"},
	}, true
}

func eventTime(dt *gcal.EventDateTime, loc *time.Location) *time.Time {
	if dt == nil {
		return nil
	}
	if dt.DateTime != "" {
		return task.ParseDate(dt.DateTime, loc)
	}
	return task.ParseDate(dt.Date, loc)
}
