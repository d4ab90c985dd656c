// Package dispatcher delivers notification events to external sinks without blocking the caller.
//
// Events are spread over ordered shards keyed by booking request, so two events of the same
// request are always delivered in the order they were enqueued. An event that cannot go out
// holds back every later event of its request until redrive delivers it.
package dispatcher

//go:generate go run go.uber.org/mock/mockgen -source=./dispatcher.go -destination=../mocks/dispatcher_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"sync"
	"time"

	"sarana/config"
	"sarana/internal/domains/notification/model"
	"sarana/shared/timezone"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	defaultInitialBackoff = 200 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
)

// Sink is one delivery channel, e.g. a message topic or live sockets.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event model.Event) error
}

// Store records delivery outcomes.
type Store interface {
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	RecordAttempt(ctx context.Context, id string) error
}

type Dispatcher interface {
	// Enqueue never blocks. It reports false when the shard is full, the dispatcher stopped or an
	// earlier event of the same booking request is still waiting for redrive.
	Enqueue(event model.Event) bool
	Start(ctx context.Context)
	Stop()
}

type Options struct {
	Shards         int
	QueueSize      int
	MaxAttempts    uint
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Rate           rate.Limit
	Burst          int
}

func OptionsFromConfig(cfg *config.Config) Options {
	n := cfg.Notification

	return Options{
		Shards:         n.Shards,
		QueueSize:      n.QueueSize,
		MaxAttempts:    n.MaxAttempts,
		InitialBackoff: time.Duration(n.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:     time.Duration(n.MaxBackoffMs) * time.Millisecond,
		Rate:           rate.Limit(n.RatePerSecond),
		Burst:          n.Burst,
	}
}

type dispatcherImpl struct {
	opts    Options
	store   Store
	clock   timezone.Clock
	sinks   []Sink
	limiter *rate.Limiter

	mu      sync.RWMutex
	shards  []chan model.Event
	stopped bool
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// held lists, per booking request, the events left for redrive in emission order.
	// Only the head may be delivered.
	holdMu sync.Mutex
	held   map[string][]string
}

func New(cfg *config.Config, store Store, clock timezone.Clock, sinks []Sink) Dispatcher {
	return NewWithOptions(OptionsFromConfig(cfg), store, clock, sinks...)
}

func NewWithOptions(opts Options, store Store, clock timezone.Clock, sinks ...Sink) Dispatcher {
	if opts.Shards < 1 {
		opts.Shards = 1
	}

	if opts.QueueSize < 1 {
		opts.QueueSize = 1
	}

	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}

	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}

	if opts.MaxBackoff < opts.InitialBackoff {
		opts.MaxBackoff = max(defaultMaxBackoff, opts.InitialBackoff)
	}

	if opts.Rate <= 0 {
		opts.Rate = rate.Inf
	}

	if opts.Burst < 1 {
		opts.Burst = 1
	}

	shards := make([]chan model.Event, opts.Shards)
	for i := range shards {
		shards[i] = make(chan model.Event, opts.QueueSize)
	}

	return &dispatcherImpl{
		opts:    opts,
		store:   store,
		clock:   clock,
		sinks:   sinks,
		limiter: rate.NewLimiter(opts.Rate, opts.Burst),
		shards:  shards,
		held:    map[string][]string{},
	}
}

// ShardOf maps a booking request to its shard.
func ShardOf(bookingRequestID string, shards int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(bookingRequestID))

	return int(h.Sum32() % uint32(shards)) //nolint:gosec
}

func (d *dispatcherImpl) Enqueue(event model.Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return false
	}

	if !d.admit(event) {
		log.Debug().Str("event_id", event.ID).Str("booking_request_id", event.BookingRequestID).Msg("notification held behind an earlier event")

		return false
	}

	select {
	case d.shards[ShardOf(event.BookingRequestID, len(d.shards))] <- event:
		return true
	default:
		log.Warn().Str("event_id", event.ID).Str("booking_request_id", event.BookingRequestID).Msg("notification shard full, leaving event for redrive")
		d.hold(event)

		return false
	}
}

// admit reports whether event may go out now. An event queued behind a held one is added to
// its request's held list.
func (d *dispatcherImpl) admit(event model.Event) bool {
	d.holdMu.Lock()
	defer d.holdMu.Unlock()

	queue := d.held[event.BookingRequestID]
	if len(queue) == 0 || queue[0] == event.ID {
		return true
	}

	if !slices.Contains(queue, event.ID) {
		d.held[event.BookingRequestID] = append(queue, event.ID)
	}

	return false
}

func (d *dispatcherImpl) hold(event model.Event) {
	d.holdMu.Lock()
	defer d.holdMu.Unlock()

	queue := d.held[event.BookingRequestID]
	if !slices.Contains(queue, event.ID) {
		d.held[event.BookingRequestID] = append(queue, event.ID)
	}
}

// release drops event from the head of its request's held list once it went out.
func (d *dispatcherImpl) release(event model.Event) {
	d.holdMu.Lock()
	defer d.holdMu.Unlock()

	queue := d.held[event.BookingRequestID]
	if len(queue) == 0 || queue[0] != event.ID {
		return
	}

	if len(queue) == 1 {
		delete(d.held, event.BookingRequestID)

		return
	}

	d.held[event.BookingRequestID] = queue[1:]
}

func (d *dispatcherImpl) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.stopped {
		return
	}

	d.started = true

	ctx, d.cancel = context.WithCancel(ctx)

	for i, shard := range d.shards {
		d.wg.Add(1)

		go d.work(ctx, i, shard)
	}

	log.Info().Int("shards", len(d.shards)).Int("sinks", len(d.sinks)).Msg("notification dispatcher started")
}

// Stop drains queued events and waits for the workers to exit.
func (d *dispatcherImpl) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()

		return
	}

	d.stopped = true

	for _, shard := range d.shards {
		close(shard)
	}
	d.mu.Unlock()

	d.wg.Wait()

	if d.cancel != nil {
		d.cancel()
	}

	log.Info().Msg("notification dispatcher stopped")
}

func (d *dispatcherImpl) work(ctx context.Context, shard int, events <-chan model.Event) {
	defer d.wg.Done()

	for event := range events {
		if !d.admit(event) {
			log.Debug().Str("event_id", event.ID).Str("booking_request_id", event.BookingRequestID).Msg("notification skipped until an earlier event is delivered")

			continue
		}

		d.deliver(ctx, event)
	}

	log.Debug().Int("shard", shard).Msg("notification shard drained")
}

func (d *dispatcherImpl) deliver(ctx context.Context, event model.Event) {
	c := context.WithoutCancel(ctx)

	if err := d.limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Str("event_id", event.ID).Msg("notification throttle interrupted")
	}

	pending := make([]Sink, len(d.sinks))
	copy(pending, d.sinks)

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = d.opts.InitialBackoff
	exp.MaxInterval = d.opts.MaxBackoff

	_, err := backoff.Retry(c, func() (struct{}, error) {
		var failed []Sink

		var errs []error

		for _, sink := range pending {
			if err := sink.Deliver(c, event); err != nil {
				failed = append(failed, sink)
				errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			}
		}

		pending = failed

		return struct{}{}, errors.Join(errs...)
	},
		backoff.WithBackOff(exp),
		backoff.WithMaxTries(d.opts.MaxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Str("event_id", event.ID).Dur("next", next).Msg("notification delivery failed, retrying")
		}),
	)
	if err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("notification delivery gave up")
		d.hold(event)

		if err := d.store.RecordAttempt(c, event.ID); err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("failed to record notification attempt")
		}

		return
	}

	d.release(event)

	if err := d.store.MarkDelivered(c, event.ID, d.clock.Now()); err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("failed to mark notification delivered")
	}
}
