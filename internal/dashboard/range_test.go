package dashboard_test

import (
	"testing"
	"time"

	"github.com/rpggio/calmmind/internal/dashboard"
	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/stress"
	"github.com/stretchr/testify/require"
)

func TestNewRange_Defaults(t *testing.T) {
	rng := dashboard.NewRange(nil, nil, "", now)
	require.Equal(t, stress.Daily, rng.Granularity)
	require.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), rng.Start)
	require.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), rng.End)
	require.Len(t, rng.Periods(), 7)
}

func TestNewRange_SwapsInvertedBounds(t *testing.T) {
	a := now.AddDate(0, 0, -3)
	rng := dashboard.NewRange(&now, &a, stress.Weekly, now)
	require.Equal(t, a, rng.Start)
	require.Equal(t, now, rng.End)
}

func TestParseRange(t *testing.T) {
	rng, err := dashboard.ParseRange("2026-03-01", "2026-03-07", "weekly", now)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	require.Equal(t, time.Date(2026, 3, 7, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), rng.End)
	require.Equal(t, stress.Weekly, rng.Granularity)

	rng, err = dashboard.ParseRange("not a date", "", "", now)
	require.NoError(t, err)
	require.Equal(t, dashboard.NewRange(nil, nil, stress.Daily, now), rng)

	_, err = dashboard.ParseRange("", "", "fortnightly", now)
	require.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	rng := dashboard.NewRange(nil, nil, stress.Daily, now)
	inside := task.Task{ID: "in", DueDate: at(-24 * time.Hour)}
	undated := task.Task{ID: "undated"}
	started := task.Task{ID: "started", StartDate: at(-time.Hour)}
	outside := task.Task{ID: "out", DueDate: at(30 * 24 * time.Hour)}

	got := dashboard.Snapshot([]task.Task{inside, undated, started, outside}, rng)
	ids := make([]string, 0, len(got))
	for _, tk := range got {
		ids = append(ids, tk.ID)
	}
	require.Equal(t, []string{"in", "undated", "started"}, ids)

	fallback := dashboard.Snapshot([]task.Task{outside}, rng)
	require.Len(t, fallback, 1)

	require.Empty(t, dashboard.Snapshot(nil, rng))
}
