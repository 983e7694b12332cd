// Package source loads the aggregated network table from the database, a
// spreadsheet export or a remote network-api instance.
package source

import (
	"context"
	"errors"
	"fmt"

	"network-dashboard/internal/aggregate"
	"network-dashboard/internal/model"
)

// ErrAwaitingFile means the spreadsheet has not been provided yet.
var ErrAwaitingFile = errors.New("data file not available")

type Source interface {
	// Name identifies the source and its contract variant, e.g. "database:query:v2".
	Name() string
	Load(ctx context.Context) ([]model.AggregatedRow, error)
}

type NetworkReader interface {
	Aggregated(ctx context.Context, variant model.QueryVariant) ([]model.AggregatedRow, error)
	RawFacts(ctx context.Context) (aggregate.Facts, error)
}

// DatabaseSource aggregates either inside the database with one statement or,
// in memory mode, from the raw relations with aggregate.Build.
type DatabaseSource struct {
	reader   NetworkReader
	variant  model.QueryVariant
	inMemory bool
}

func NewDatabaseSource(reader NetworkReader, variant model.QueryVariant, inMemory bool) *DatabaseSource {
	return &DatabaseSource{reader: reader, variant: variant, inMemory: inMemory}
}

func (s *DatabaseSource) Name() string {
	mode := "query"
	if s.inMemory {
		mode = "memory"
	}
	return fmt.Sprintf("database:%s:%s", mode, s.variant)
}

func (s *DatabaseSource) Load(ctx context.Context) ([]model.AggregatedRow, error) {
	if !s.inMemory {
		return s.reader.Aggregated(ctx, s.variant)
	}
	facts, err := s.reader.RawFacts(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.Build(facts, s.variant), nil
}
