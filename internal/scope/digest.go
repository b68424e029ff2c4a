package scope

import (
	"github.com/cwbudde/bindexpr/internal/bexprerrors"
	"github.com/cwbudde/bindexpr/internal/value"
)

// maxTTL bounds the digest's outer loop per spec.md §4.6.2.
const maxTTL = 10

// Digest runs the TTL-bounded dirty-checking loop: drain the async queue,
// walk the watcher list, repeat while anything changed or work remains
// queued, then drain postDigest once. A nested call (one already running
// inside a Digest) is a no-op — the enclosing Digest owns the loop.
func (s *Scope) Digest() error {
	s.mu.Lock()
	if s.phase == PhaseDigest {
		s.mu.Unlock()
		return nil
	}
	prevPhase := s.phase
	s.phase = PhaseDigest
	applyAsyncTasks := s.applyAsyncQueue
	s.applyAsyncQueue = nil
	s.applyAsyncScheduled = false
	s.mu.Unlock()

	// A digest starting before the deferred applyAsync flush fires drains
	// that queue inline instead, per spec.md §4.6.3.
	for _, fn := range applyAsyncTasks {
		fn := fn
		s.safeCall(func() { fn(s) })
	}

	defer func() {
		s.mu.Lock()
		s.phase = prevPhase
		s.mu.Unlock()
	}()

	var lastDirty *watcher
	converged := false
	for iter := 0; iter < maxTTL; iter++ {
		s.drainAsyncQueue()
		dirty := s.watchPass(&lastDirty)

		s.mu.Lock()
		asyncEmpty := len(s.asyncQueue) == 0
		s.mu.Unlock()

		if !dirty && asyncEmpty {
			converged = true
			break
		}
	}

	s.drainPostDigestQueue()

	if !converged {
		return bexprerrors.NewDigestLimitError(maxTTL)
	}
	return nil
}

func (s *Scope) drainAsyncQueue() {
	for {
		s.mu.Lock()
		if len(s.asyncQueue) == 0 {
			s.mu.Unlock()
			return
		}
		fn := s.asyncQueue[0]
		s.asyncQueue = s.asyncQueue[1:]
		s.mu.Unlock()
		s.safeCall(func() { fn(s) })
	}
}

func (s *Scope) drainPostDigestQueue() {
	s.mu.Lock()
	tasks := s.postDigestQueue
	s.postDigestQueue = nil
	s.mu.Unlock()
	for _, fn := range tasks {
		s.safeCall(fn)
	}
}

// watchPass walks the watcher list once, in registration order, dispatching
// listeners for everything dirty and stopping early once it comes back
// around to lastDirty having seen nothing dirty since. The slice length is
// captured up front so a watcher registered mid-pass is only visited on a
// later pass, per spec.md §9's "new watchers visible only in subsequent
// passes" note.
func (s *Scope) watchPass(lastDirty **watcher) bool {
	s.mu.Lock()
	snapshot := s.watchers
	n := len(snapshot)
	s.mu.Unlock()

	dirty := false
	for i := 0; i < n; i++ {
		w := snapshot[i]
		if w.deleted {
			continue
		}

		newVal := s.safeWatch(w)
		same := w.seen && s.equalFor(w, newVal)
		if !same {
			dirty = true
			*lastDirty = w

			prev := newVal
			if w.seen {
				prev = w.last
			}
			if w.byValue {
				w.last = value.Clone(newVal)
			} else {
				w.last = newVal
			}
			w.seen = true

			s.safeListen(w, newVal, prev)
			continue
		}
		if w == *lastDirty {
			break
		}
	}
	return dirty
}

func (s *Scope) equalFor(w *watcher, newVal any) bool {
	if w.byValue {
		return value.DeepEqual(w.last, newVal)
	}
	return value.Equal(w.last, newVal)
}

func (s *Scope) safeWatch(w *watcher) (result any) {
	defer func() {
		if r := recover(); r != nil {
			s.logError("watch function panicked", r)
			result = w.last
		}
	}()
	return w.watch(s)
}

func (s *Scope) safeListen(w *watcher, newVal, oldVal any) {
	defer func() {
		if r := recover(); r != nil {
			s.logError("listener panicked", r)
		}
	}()
	w.listen(newVal, oldVal, s)
}
