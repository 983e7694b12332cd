package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"network-dashboard/internal/aggregate"
	"network-dashboard/internal/model"
)

type fakeReader struct {
	rows        []model.AggregatedRow
	facts       aggregate.Facts
	err         error
	gotVariant  model.QueryVariant
	factsCalled bool
}

func (f *fakeReader) Aggregated(_ context.Context, variant model.QueryVariant) ([]model.AggregatedRow, error) {
	f.gotVariant = variant
	return f.rows, f.err
}

func (f *fakeReader) RawFacts(context.Context) (aggregate.Facts, error) {
	f.factsCalled = true
	return f.facts, f.err
}

func TestDatabaseSourceQueryMode(t *testing.T) {
	reader := &fakeReader{rows: []model.AggregatedRow{{YearWeek: "202501", City: model.CityRiyadh, Technology: model.Tech4G}}}
	src := NewDatabaseSource(reader, model.QueryV1, false)

	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, model.QueryV1, reader.gotVariant)
	assert.False(t, reader.factsCalled)
	assert.Equal(t, "database:query:v1", src.Name())
}

func TestDatabaseSourceMemoryMode(t *testing.T) {
	reader := &fakeReader{facts: aggregate.Facts{
		Availability: []aggregate.AvailabilityRecord{
			{YearWeek: "202502", City: model.CityJeddah, Technology: model.Tech3G},
			{YearWeek: "202501", City: model.CityJeddah, Technology: model.Tech3G},
		},
	}}
	src := NewDatabaseSource(reader, model.QueryV2, true)

	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "202501", rows[0].YearWeek)
	assert.True(t, rows[0].Faults.Present())
	assert.Equal(t, "database:memory:v2", src.Name())
}

func TestDatabaseSourcePropagatesErrors(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := NewDatabaseSource(&fakeReader{err: boom}, model.QueryV2, true).Load(context.Background())
	assert.ErrorIs(t, err, boom)
}
