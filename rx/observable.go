// Package rx is a small synchronous push-stream toolkit: just enough of the
// usual reactive surface (create, filter, map, dedup, merge, flat-map,
// share and replay) to turn change signals into typed streams.
//
// Everything runs on the goroutine that subscribes or dispatches; nothing is
// queued, buffered or deferred. None of the types are safe for concurrent use.
package rx

type Observer[T any] struct {
	OnNext     func(T)
	OnError    func(error)
	OnComplete func()
}

// Subscriber delivers to one Observer until an error, completion or
// unsubscription closes it. Nothing is delivered after it is closed.
type Subscriber[T any] struct {
	observer  Observer[T]
	closed    bool
	teardowns []func()
}

func (s *Subscriber[T]) Next(v T) {
	if s.closed || s.observer.OnNext == nil {
		return
	}
	defer s.recoverNext()
	s.observer.OnNext(v)
}

func (s *Subscriber[T]) recoverNext() {
	if r := recover(); r != nil {
		s.Error(panicError("rx.Subscriber.Next", KindCallback, r))
	}
}

func (s *Subscriber[T]) Error(err error) {
	if s.closed {
		return
	}
	s.close()
	if s.observer.OnError != nil {
		s.observer.OnError(err)
	}
}

func (s *Subscriber[T]) Complete() {
	if s.closed {
		return
	}
	s.close()
	if s.observer.OnComplete != nil {
		s.observer.OnComplete()
	}
}

func (s *Subscriber[T]) Closed() bool {
	return s.closed
}

// Add registers a teardown to run when s closes. If s is already closed the
// teardown runs immediately.
func (s *Subscriber[T]) Add(teardown func()) {
	if teardown == nil {
		return
	}
	if s.closed {
		teardown()
		return
	}
	s.teardowns = append(s.teardowns, teardown)
}

func (s *Subscriber[T]) close() {
	if s.closed {
		return
	}
	s.closed = true
	ts := s.teardowns
	s.teardowns = nil
	for _, t := range ts {
		t()
	}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	closer interface {
		close()
		Closed() bool
	}
}

// Unsubscribe stops delivery and releases upstream resources. Idempotent.
func (s *Subscription) Unsubscribe() {
	s.closer.close()
}

func (s *Subscription) Closed() bool {
	return s.closer.Closed()
}

// Observable is a lazy producer. Nothing happens until Subscribe.
// The zero Observable completes immediately.
type Observable[T any] struct {
	subscribe func(*Subscriber[T])
}

// Create builds an Observable from fn, which starts production for one
// subscriber and returns the teardown for it (or nil).
func Create[T any](fn func(s *Subscriber[T]) (teardown func())) Observable[T] {
	return Observable[T]{subscribe: func(s *Subscriber[T]) {
		s.Add(fn(s))
	}}
}

func (o Observable[T]) Subscribe(observer Observer[T]) *Subscription {
	s := &Subscriber[T]{observer: observer}
	if o.subscribe == nil {
		s.Complete()
	} else {
		o.subscribe(s)
	}
	return &Subscription{closer: s}
}

// SubscribeFunc is Subscribe for callers that only care about values and errors.
func (o Observable[T]) SubscribeFunc(onNext func(T), onError func(error)) *Subscription {
	return o.Subscribe(Observer[T]{OnNext: onNext, OnError: onError})
}

func forward[T any](s *Subscriber[T]) Observer[T] {
	return Observer[T]{
		OnNext:     s.Next,
		OnError:    s.Error,
		OnComplete: s.Complete,
	}
}

// lift subscribes to src on behalf of each downstream subscriber, handing
// every upstream value to next. Errors and completion pass straight through.
func lift[T, R any](src Observable[T], next func(s *Subscriber[R], v T)) Observable[R] {
	return Create(func(s *Subscriber[R]) func() {
		sub := src.Subscribe(Observer[T]{
			OnNext:     func(v T) { next(s, v) },
			OnError:    s.Error,
			OnComplete: s.Complete,
		})
		return sub.Unsubscribe
	})
}
