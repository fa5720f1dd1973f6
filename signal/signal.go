// Package signal holds the two primitives every observed state object is built
// from: a synchronous change notification and a disposal scope.
package signal

// Signal notifies its listeners synchronously, in registration order, on the
// goroutine calling Dispatch. It is not safe for concurrent use.
type Signal struct {
	listeners []*listener
	disposed  bool
}

type listener struct {
	fn      func()
	removed bool
}

func New() *Signal {
	return &Signal{}
}

// Add registers fn and returns a function that removes it again.
// Removing twice is a no-op.
func (s *Signal) Add(fn func()) (remove func()) {
	if s.disposed {
		return func() {}
	}
	l := &listener{fn: fn}
	s.listeners = append(s.listeners, l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		for i, other := range s.listeners {
			if other == l {
				// copy so an in-flight Dispatch keeps iterating its own snapshot
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch calls every listener registered at the time of the call.
// A listener removed by an earlier listener in the same dispatch is skipped.
func (s *Signal) Dispatch() {
	for _, l := range s.listeners {
		if !l.removed {
			l.fn()
		}
	}
}

// Len reports the number of registered listeners.
func (s *Signal) Len() int {
	return len(s.listeners)
}

// Dispose drops all listeners; later registrations are ignored.
func (s *Signal) Dispose() {
	for _, l := range s.listeners {
		l.removed = true
	}
	s.listeners = nil
	s.disposed = true
}
