package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/calmmind/internal/domain/stresslog"
	"github.com/stretchr/testify/require"
)

func TestStressLogRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewStressLogRepository(db)

	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	entries := []*stresslog.Entry{
		{ID: "l2", OwnerID: "u1", Timestamp: base.Add(48 * time.Hour), Level: 4, Tags: []string{"exams"}},
		{ID: "l1", OwnerID: "u1", Timestamp: base, Level: 2, Note: "calm"},
		{ID: "l3", OwnerID: "u2", Timestamp: base.Add(24 * time.Hour), Level: 5},
	}
	for _, e := range entries {
		require.NoError(t, repo.Log(ctx, e))
	}

	own, err := repo.List(ctx, stresslog.ListOptions{OwnerID: "u1"})
	require.NoError(t, err)
	require.Len(t, own, 2)
	require.Equal(t, "l1", own[0].ID)
	require.Equal(t, "calm", own[0].Note)
	require.True(t, own[0].Timestamp.Equal(base))
	require.Equal(t, []string{"exams"}, own[1].Tags)

	from := base.Add(time.Hour)
	to := base.Add(30 * time.Hour)
	ranged, err := repo.List(ctx, stresslog.ListOptions{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	require.Equal(t, "l3", ranged[0].ID)

	limited, err := repo.List(ctx, stresslog.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
}
