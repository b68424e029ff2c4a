// Package scope implements the dirty-checking Scope of spec.md §4.6: watch
// registration, the bounded digest loop, the eval/apply/evalAsync/applyAsync/
// postDigest scheduling primitives, and watchGroup. The concurrency model
// follows §5's "single logical executor" assumption — a Scope is meant to be
// driven from one goroutine at a time, the same way an AngularJS scope is
// driven from one JS event-loop tick at a time. The internal mutex exists
// only to let the deferred Scheduler callback (which does run on its own
// goroutine) touch the queues and phase safely; it is never held while a
// caller-supplied function runs, so watch functions and listeners are free
// to re-enter the scope (e.g. a listener calling Apply).
package scope

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Phase names the scope's current activity, exposed read-only so tests can
// assert on it the way spec.md §6 requires of the Scope API.
type Phase string

const (
	PhaseNone   Phase = ""
	PhaseDigest Phase = "$digest"
	PhaseApply  Phase = "$apply"
)

// Scheduler defers fn the way a host event loop would schedule a zero-delay
// callback. The default posts fn to a new goroutine.
type Scheduler func(fn func())

func goroutineScheduler(fn func()) { go fn() }

// Scope is the observable object graph expressions resolve free identifiers
// against, plus the watcher list and queues that drive digest.
type Scope struct {
	// ID correlates this scope's log lines across a run; it has no semantic
	// effect on digest.
	ID uuid.UUID
	// Root is the value watch functions and evaluators read from; typically
	// a map[string]any, matching internal/evaluator's scope representation.
	Root any
	// Logger receives exceptions caught around watch functions, listeners,
	// and queued callbacks, per spec.md §7's digest error policy.
	Logger *slog.Logger

	scheduler Scheduler

	mu                  sync.Mutex
	watchers            []*watcher
	phase               Phase
	asyncQueue          []func(*Scope)
	applyAsyncQueue     []func(*Scope)
	applyAsyncScheduled bool
	digestScheduled     bool
	postDigestQueue     []func()
}

// Option configures a Scope at construction time.
type Option func(*Scope)

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option { return func(s *Scope) { s.Logger = l } }

// WithScheduler overrides the default goroutine-based deferral, useful for
// tests that want evalAsync/applyAsync to resolve deterministically on the
// calling goroutine.
func WithScheduler(sch Scheduler) Option { return func(s *Scope) { s.scheduler = sch } }

// New creates a Scope rooted at root.
func New(root any, opts ...Option) *Scope {
	s := &Scope{
		ID:        uuid.New(),
		Root:      root,
		Logger:    slog.Default(),
		scheduler: goroutineScheduler,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phase reports the scope's current phase, matching the phase-probe
// property spec.md §6 requires of the Scope API.
func (s *Scope) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Eval synchronously calls fn(scope, arg) and returns its value.
func (s *Scope) Eval(fn func(scope *Scope, arg any) any, arg any) any {
	return fn(s, arg)
}

// Apply runs fn under the $apply phase and triggers a digest once fn
// returns, even if fn panics. A nested Apply call (one already running
// inside another Apply or a Digest) only evaluates fn — the enclosing phase
// keeps control of the eventual digest, per spec.md §4.6.3/§5.
func (s *Scope) Apply(fn func(scope *Scope) any) (any, error) {
	s.mu.Lock()
	nested := s.phase != PhaseNone
	if !nested {
		s.phase = PhaseApply
	}
	s.mu.Unlock()

	result := s.safeApply(fn)

	if nested {
		return result, nil
	}

	s.mu.Lock()
	s.phase = PhaseNone
	s.mu.Unlock()

	err := s.Digest()
	return result, err
}

func (s *Scope) safeApply(fn func(scope *Scope) any) (result any) {
	defer func() {
		if r := recover(); r != nil {
			s.logError("apply function panicked", r)
			result = nil
		}
	}()
	return fn(s)
}

// EvalAsync enqueues fn to run during the next digest's async-queue drain.
// If the scope is idle (no digest or apply running) and neither a deferred
// digest nor an applyAsync flush is already scheduled, a digest is
// scheduled now.
func (s *Scope) EvalAsync(fn func(scope *Scope)) {
	s.mu.Lock()
	s.asyncQueue = append(s.asyncQueue, fn)
	shouldSchedule := s.phase == PhaseNone && !s.digestScheduled && !s.applyAsyncScheduled
	if shouldSchedule {
		s.digestScheduled = true
	}
	s.mu.Unlock()

	if !shouldSchedule {
		return
	}
	s.scheduler(func() {
		s.mu.Lock()
		s.digestScheduled = false
		s.mu.Unlock()
		if err := s.Digest(); err != nil {
			s.logError("scheduled digest failed", err)
		}
	})
}

// ApplyAsync enqueues fn to run inside a single coalesced Apply the next
// time the scheduler fires, unless a digest begins first — in which case
// Digest drains this queue inline and cancels the scheduled flush.
func (s *Scope) ApplyAsync(fn func(scope *Scope)) {
	s.mu.Lock()
	s.applyAsyncQueue = append(s.applyAsyncQueue, fn)
	shouldSchedule := !s.applyAsyncScheduled
	if shouldSchedule {
		s.applyAsyncScheduled = true
	}
	s.mu.Unlock()

	if shouldSchedule {
		s.scheduler(s.flushApplyAsync)
	}
}

func (s *Scope) flushApplyAsync() {
	s.mu.Lock()
	if !s.applyAsyncScheduled {
		// A Digest beat us to it and already drained the queue inline.
		s.mu.Unlock()
		return
	}
	s.applyAsyncScheduled = false
	tasks := s.applyAsyncQueue
	s.applyAsyncQueue = nil
	s.mu.Unlock()

	if len(tasks) == 0 {
		return
	}
	if _, err := s.Apply(func(scope *Scope) any {
		for _, fn := range tasks {
			fn := fn
			s.safeCall(func() { fn(scope) })
		}
		return nil
	}); err != nil {
		s.logError("applyAsync flush digest failed", err)
	}
}

// PostDigest enqueues fn to run once, after the next digest's TTL loop
// exits (whether or not it converged).
func (s *Scope) PostDigest(fn func()) {
	s.mu.Lock()
	s.postDigestQueue = append(s.postDigestQueue, fn)
	s.mu.Unlock()
}

func (s *Scope) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logError("queued callback panicked", r)
		}
	}()
	fn()
}

func (s *Scope) logError(msg string, recovered any) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error(msg, slog.String("scope_id", s.ID.String()), slog.Any("recovered", recovered))
}
