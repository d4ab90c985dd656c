package mocks

import (
	"context"
	"slices"
	"sync"

	"sarana/internal/domains/booking/conflict"
	"sarana/internal/domains/booking/model"
	"sarana/internal/domains/booking/repository"
	gDto "sarana/shared/dto"

	"github.com/jmoiron/sqlx"
)

// MemoryBooking is a stateful in-memory store for tests that exercise the lock and
// conflict path end to end. Methods it does not override panic through the nil embed.
type MemoryBooking struct {
	repository.Booking

	mu       sync.Mutex
	requests map[string]model.Request
	order    []string
}

func NewMemoryBooking(seed ...model.Request) *MemoryBooking {
	m := &MemoryBooking{requests: map[string]model.Request{}}
	for _, r := range seed {
		m.put(r)
	}

	return m
}

func (m *MemoryBooking) put(r model.Request) {
	if _, ok := m.requests[r.ID]; !ok {
		m.order = append(m.order, r.ID)
	}

	m.requests[r.ID] = r
}

// All returns the stored requests in insertion order.
func (m *MemoryBooking) All() []model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Request, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.requests[id])
	}

	return out
}

func (m *MemoryBooking) Find(id string) (model.Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[id]

	return r, ok
}

func (m *MemoryBooking) LockResourceTx(context.Context, *sqlx.Tx, string) error {
	return nil
}

func (m *MemoryBooking) InsertTx(_ context.Context, _ *sqlx.Tx, r model.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.put(r)

	return nil
}

func (m *MemoryBooking) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.requests[idOf(filter)], nil
}

func (m *MemoryBooking) GetTx(ctx context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Request, error) {
	return m.Get(ctx, filter, columns...)
}

func (m *MemoryBooking) UpdateTx(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[idOf(filter)]
	if !ok {
		return nil
	}

	if v, ok := fields[model.FieldStatus].(string); ok {
		r.Status = model.Status(v)
	}

	if v, ok := fields[model.FieldDecidedBy].(string); ok {
		r.DecidedBy = &v
	}

	if v, ok := fields[model.FieldDecisionNote].(string); ok {
		r.DecisionNote = &v
	}

	m.requests[r.ID] = r

	return nil
}

func (m *MemoryBooking) ActiveForResourceTx(_ context.Context, _ *sqlx.Tx, resourceID string, statuses ...model.Status) ([]conflict.Booking, error) {
	if len(statuses) == 0 {
		statuses = model.ActiveStatuses
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []conflict.Booking

	for _, id := range m.order {
		r := m.requests[id]
		if r.ResourceID != resourceID || !slices.Contains(statuses, r.Status) {
			continue
		}

		out = append(out, conflict.Booking{ID: r.ID, Start: r.StartTime, End: r.EndTime, Status: string(r.Status)})
	}

	return out, nil
}

func idOf(filter gDto.FilterGroup) string {
	_, args := filter.GetWhereClause()

	id, _ := args[model.FieldID].(string)

	return id
}
