package rx

// FromSlice emits every element of vs in order, then completes.
func FromSlice[T any](vs []T) Observable[T] {
	return Create(func(s *Subscriber[T]) func() {
		for _, v := range vs {
			if s.Closed() {
				return nil
			}
			s.Next(v)
		}
		s.Complete()
		return nil
	})
}

func Empty[T any]() Observable[T] {
	return Observable[T]{}
}

// Throw errors every subscriber immediately with err.
func Throw[T any](err error) Observable[T] {
	return Create(func(s *Subscriber[T]) func() {
		s.Error(err)
		return nil
	})
}

// Defer calls factory once per subscription. Stateful operators built inside
// the factory therefore get fresh state for every subscription.
func Defer[T any](factory func() Observable[T]) Observable[T] {
	return Create(func(s *Subscriber[T]) func() {
		return factory().Subscribe(forward(s)).Unsubscribe
	})
}
