package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"network-dashboard/internal/model"
)

func sampleRows() []model.AggregatedRow {
	faults := model.NewFaultCounts()
	faults.Set(model.LinkFaults, 4)
	return []model.AggregatedRow{
		{YearWeek: "202501", City: model.CityRiyadh, Technology: model.Tech4G, SiteCount: 100, Faults: faults},
		{YearWeek: "202502", City: model.CityRiyadh, Technology: model.Tech4G, ComplaintCount: 5},
	}
}

func exerciseStore(t *testing.T, store Store, expire func(time.Duration)) {
	t.Helper()
	ctx := context.Background()

	var rows []model.AggregatedRow
	require.ErrorIs(t, store.Get(ctx, "rows:database:v2", &rows), ErrMiss)

	require.NoError(t, store.Set(ctx, "rows:database:v2", sampleRows(), time.Minute))
	require.NoError(t, store.Set(ctx, "other", 1, time.Minute))

	require.NoError(t, store.Get(ctx, "rows:database:v2", &rows))
	require.Len(t, rows, 2)
	require.Equal(t, int64(4), rows[0].Faults.Get(model.LinkFaults))
	require.True(t, rows[0].Faults.Has(model.PowerFaults))
	require.False(t, rows[1].Faults.Present())

	require.NoError(t, store.DeletePrefix(ctx, "rows:"))
	require.ErrorIs(t, store.Get(ctx, "rows:database:v2", &rows), ErrMiss)

	var other int
	require.NoError(t, store.Get(ctx, "other", &other))
	require.Equal(t, 1, other)

	expire(2 * time.Minute)
	require.ErrorIs(t, store.Get(ctx, "other", &other), ErrMiss)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	exerciseStore(t, store, func(d time.Duration) { now = now.Add(d) })
}

func TestRedisStore(t *testing.T) {
	server := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), server.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	exerciseStore(t, NewRedisStore(client), server.FastForward)
}

func TestNewRedisClientFailsWhenUnreachable(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err := NewRedisClient(context.Background(), addr, "", 0)
	require.Error(t, err)
}
