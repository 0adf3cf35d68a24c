// Package db is the sandbox backend's in-memory store, seeded from an
// embedded fixture on every start.
package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/goerror"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/instrument"
	"github.com/shandysiswandi/rationkiosk/internal/sandbox/entity"
)

//go:embed seed.json
var seedJSON []byte

type seed struct {
	Households []entity.Household `json:"households"`
	Items      []entity.Item      `json:"items"`
}

type DB struct {
	ins instrument.Instrumentation

	mu         sync.RWMutex
	households map[string]entity.Household
	items      map[string]entity.Item
	itemOrder  []string
	challenges map[string]entity.Challenge
	grants     map[string]entity.Grant
	orders     []entity.Order
	orderByRef map[string]int
	orderByID  map[string]int
}

// NewDB loads the embedded fixture.
func NewDB(ins instrument.Instrumentation) (*DB, error) {
	return NewDBFromSeed(seedJSON, ins)
}

// NewDBFromSeed loads households and items from a JSON document shaped like
// the embedded fixture.
func NewDBFromSeed(data []byte, ins instrument.Instrumentation) (*DB, error) {
	var sd seed
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("sandbox: decode seed: %w", err)
	}

	s := &DB{
		ins:        ins,
		households: make(map[string]entity.Household, len(sd.Households)),
		items:      make(map[string]entity.Item, len(sd.Items)),
		challenges: make(map[string]entity.Challenge),
		grants:     make(map[string]entity.Grant),
		orderByRef: make(map[string]int),
		orderByID:  make(map[string]int),
	}

	for _, h := range sd.Households {
		s.households[h.Code] = h
	}
	for _, it := range sd.Items {
		if _, dup := s.items[it.ID]; dup {
			return nil, fmt.Errorf("sandbox: duplicate item %q in seed", it.ID)
		}
		s.items[it.ID] = it
		s.itemOrder = append(s.itemOrder, it.ID)
	}

	return s, nil
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("sandbox.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
