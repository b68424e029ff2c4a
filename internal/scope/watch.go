package scope

// WatchFunc observes a single value on the scope.
type WatchFunc func(scope *Scope) any

// ListenerFunc reacts to a WatchFunc's value changing. On a watcher's first
// dispatch oldVal equals newVal, per spec.md §4.6.1.
type ListenerFunc func(newVal, oldVal any, scope *Scope)

// GroupListenerFunc reacts to any member of a watchGroup changing.
type GroupListenerFunc func(newVals, oldVals []any, scope *Scope)

// Deregister removes the watcher(s) it was returned from. Safe to call more
// than once, and safe to call from inside a listener.
type Deregister func()

type watcher struct {
	watch   WatchFunc
	listen  ListenerFunc
	byValue bool
	last    any
	seen    bool
	deleted bool
}

// Watch appends a watcher to the ordered list. byValue selects deep
// structural comparison instead of the default reference/NaN-aware
// comparison for deciding whether the watched value changed.
func (s *Scope) Watch(watchFn WatchFunc, listenerFn ListenerFunc, byValue bool) Deregister {
	w := &watcher{watch: watchFn, listen: listenerFn, byValue: byValue}

	s.mu.Lock()
	s.watchers = append(s.watchers, w)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		w.deleted = true
		s.mu.Unlock()
	}
}

// WatchGroup registers a composite watcher over watchFns, invoking
// listenerFn at most once per digest per spec.md §4.6.4: on the listener's
// first call, newVals and oldVals are the same slice instance; afterward
// they are distinct slices holding the per-slot current and previous
// values. An empty watchFns fires the listener exactly once, asynchronously,
// unless deregistered first.
func (s *Scope) WatchGroup(watchFns []WatchFunc, listenerFn GroupListenerFunc) Deregister {
	if len(watchFns) == 0 {
		values := []any{}
		shouldCall := true
		s.EvalAsync(func(scope *Scope) {
			if shouldCall {
				listenerFn(values, values, scope)
			}
		})
		return func() { shouldCall = false }
	}

	n := len(watchFns)
	oldVals := make([]any, n)
	newVals := make([]any, n)
	scheduled := false
	firstRun := true

	action := func(scope *Scope) {
		scheduled = false
		if firstRun {
			firstRun = false
			listenerFn(newVals, newVals, scope)
			return
		}
		listenerFn(newVals, oldVals, scope)
	}

	deregs := make([]Deregister, n)
	for i, wf := range watchFns {
		i, wf := i, wf
		deregs[i] = s.Watch(func(scope *Scope) any {
			return wf(scope)
		}, func(newVal, oldVal any, scope *Scope) {
			newVals[i] = newVal
			oldVals[i] = oldVal
			if !scheduled {
				scheduled = true
				scope.EvalAsync(action)
			}
		}, false)
	}

	return func() {
		for _, d := range deregs {
			d()
		}
	}
}
