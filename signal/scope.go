package signal

// Handle identifies a disposer registered on a Scope.
type Handle uint64

type disposer struct {
	id Handle
	fn func()
}

// Scope owns the teardown of an object. Disposers run once, in registration
// order, the first time Dispose is called. Registering on a disposed scope runs
// the disposer immediately, so late registrants never wait forever.
type Scope struct {
	disposers []disposer
	nextID    Handle
	disposed  bool
}

func NewScope() *Scope {
	return &Scope{}
}

// NewChild returns a scope that is disposed together with s.
// Disposing the child on its own detaches it from s.
func (s *Scope) NewChild() *Scope {
	child := NewScope()
	h := s.RegisterDisposer(child.Dispose)
	child.RegisterDisposer(func() {
		s.UnregisterDisposer(h)
	})
	return child
}

// RegisterDisposer schedules fn to run on disposal. The zero Handle is
// returned when the scope was already disposed and fn has already run.
func (s *Scope) RegisterDisposer(fn func()) Handle {
	if s.disposed {
		fn()
		return 0
	}
	s.nextID++
	s.disposers = append(s.disposers, disposer{id: s.nextID, fn: fn})
	return s.nextID
}

// UnregisterDisposer forgets the disposer behind h. Unknown handles are ignored.
func (s *Scope) UnregisterDisposer(h Handle) {
	if h == 0 {
		return
	}
	for i, d := range s.disposers {
		if d.id == h {
			s.disposers = append(s.disposers[:i:i], s.disposers[i+1:]...)
			return
		}
	}
}

// Dispose runs all registered disposers. Calling it again does nothing.
func (s *Scope) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	ds := s.disposers
	s.disposers = nil
	for _, d := range ds {
		d.fn()
	}
}

func (s *Scope) Disposed() bool {
	return s.disposed
}

// Len reports the number of pending disposers.
func (s *Scope) Len() int {
	return len(s.disposers)
}
