package mocks

import (
	"context"
	"sync"

	"sarana/infras/otel"
)

type otelImpl struct{}

func (o *otelImpl) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func (o *otelImpl) Shutdown(_ context.Context) error {
	return nil
}

// NewOtel returns an Otel whose scopes are discarded.
func NewOtel() otel.Otel {
	return &otelImpl{}
}

// Recorder is an Otel that keeps every scope it opened, keyed by span name.
type Recorder struct {
	mu     sync.Mutex
	scopes map[string][]*Scope
}

func NewRecorder() *Recorder {
	return &Recorder{scopes: map[string][]*Scope{}}
}

func (r *Recorder) NewScope(ctx context.Context, _, name string) (context.Context, otel.Scope) {
	scope := &Scope{Name: name}

	r.mu.Lock()
	r.scopes[name] = append(r.scopes[name], scope)
	r.mu.Unlock()

	return ctx, scope
}

func (r *Recorder) Shutdown(_ context.Context) error {
	return nil
}

// Scopes returns the scopes opened under name, oldest first.
func (r *Recorder) Scopes(name string) []*Scope {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*Scope(nil), r.scopes[name]...)
}
