package calendar

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/rpggio/calmmind/internal/domain/task"
)

func TestEventToTask_Timed(t *testing.T) {
	ev := &gcal.Event{
		Id:      "e1",
		Summary: " Physics exam ",
		Start:   &gcal.EventDateTime{DateTime: "2026-03-12T09:00:00Z"},
		End:     &gcal.EventDateTime{DateTime: "2026-03-12T11:00:00Z"},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{PriorityProperty: "high"},
		},
	}

	req, ok := EventToTask(ev, "u1", time.UTC)
	require.True(t, ok)
	require.Equal(t, "u1", req.OwnerID)
	require.Equal(t, "Physics exam", req.Title)
	require.Equal(t, task.PriorityHigh, req.Priority)
	require.Equal(t, time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC), *req.StartDate)
	require.Equal(t, time.Date(2026, 3, 12, 11, 0, 0, 0, time.UTC), *req.DueDate)
	require.Equal(t, []string{"calendar"}, req.Tags)
}

func TestEventToTask_AllDay(t *testing.T) {
	single := &gcal.Event{
		Summary: "Field trip",
		Start:   &gcal.EventDateTime{Date: "2026-03-12"},
		End:     &gcal.EventDateTime{Date: "2026-03-13"},
	}
	req, ok := EventToTask(single, "u1", time.UTC)
	require.True(t, ok)
	require.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), *req.DueDate)
	require.Equal(t, task.PriorityMedium, req.Priority)

	multi := &gcal.Event{
		Summary: "Project week",
		Start:   &gcal.EventDateTime{Date: "2026-03-09"},
		End:     &gcal.EventDateTime{Date: "2026-03-14"},
	}
	req, ok = EventToTask(multi, "u1", time.UTC)
	require.True(t, ok)
	require.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), *req.StartDate)
	require.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), *req.DueDate)
}

func TestEventToTask_Skips(t *testing.T) {
	_, ok := EventToTask(nil, "u1", nil)
	require.False(t, ok)
	_, ok = EventToTask(&gcal.Event{Summary: "  "}, "u1", nil)
	require.False(t, ok)
	_, ok = EventToTask(&gcal.Event{Summary: "Gone", Status: "cancelled"}, "u1", nil)
	require.False(t, ok)

	req, ok := EventToTask(&gcal.Event{Summary: "Someday"}, "u1", nil)
	require.True(t, ok)
	require.Nil(t, req.DueDate)
}

type fakeSource struct {
	events []*gcal.Event
	err    error
}

func (s fakeSource) Events(context.Context, time.Time, time.Time) ([]*gcal.Event, error) {
	return s.events, s.err
}

type fakeStore struct {
	existing []task.Task
	created  []task.CreateRequest
}

func (s *fakeStore) Create(_ context.Context, req task.CreateRequest) (*task.Task, error) {
	s.created = append(s.created, req)
	return &task.Task{Title: req.Title, DueDate: req.DueDate}, nil
}

func (s *fakeStore) List(context.Context, task.ListOptions) ([]task.Task, error) {
	return s.existing, nil
}

func TestImporter_Import(t *testing.T) {
	due := time.Date(2026, 3, 12, 11, 0, 0, 0, time.UTC)
	source := fakeSource{events: []*gcal.Event{
		{Summary: "Physics exam", End: &gcal.EventDateTime{DateTime: "2026-03-12T11:00:00Z"}},
		{Summary: "Essay", End: &gcal.EventDateTime{DateTime: "2026-03-13T23:00:00Z"}},
		{Summary: "essay", End: &gcal.EventDateTime{DateTime: "2026-03-13T08:00:00Z"}},
		{Summary: "Cancelled", Status: "cancelled"},
	}}
	store := &fakeStore{existing: []task.Task{{Title: "Physics Exam", DueDate: &due}}}

	im := NewImporter(source, store, nil)
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	res, err := im.Import(context.Background(), "u1", from, from.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.Equal(t, Result{Created: 1, Skipped: 3}, res)
	require.Len(t, store.created, 1)
	require.Equal(t, "Essay", store.created[0].Title)
}

func TestImporter_SourceError(t *testing.T) {
	im := NewImporter(fakeSource{err: errors.New("quota")}, &fakeStore{}, nil)
	_, err := im.Import(context.Background(), "u1", time.Now(), time.Now())
	require.ErrorContains(t, err, "quota")
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")

	_, err := loadToken(path)
	require.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, saveToken(path, &oauth2.Token{AccessToken: "a", RefreshToken: "r"}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tok, err := loadToken(path)
	require.NoError(t, err)
	require.Equal(t, "r", tok.RefreshToken)
}

func TestOAuthConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	creds := `{"installed":{"client_id":"id","client_secret":"secret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`
	require.NoError(t, os.WriteFile(path, []byte(creds), 0o600))

	cfg, err := OAuthConfig(path)
	require.NoError(t, err)
	require.Equal(t, "id", cfg.ClientID)
	require.Equal(t, []string{gcal.CalendarReadonlyScope}, cfg.Scopes)

	_, err = OAuthConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
