package rx

// FlatMap subscribes to project(v) for every value v of src and merges all
// inner streams into one. It completes once src and every inner stream have
// completed; the first error from any of them terminates it.
func FlatMap[T, R any](src Observable[T], project func(T) Observable[R]) Observable[R] {
	return Create(func(s *Subscriber[R]) func() {
		active := 1
		inners := map[*Subscription]struct{}{}
		done := func() {
			active--
			if active == 0 {
				s.Complete()
			}
		}

		outer := src.Subscribe(Observer[T]{
			OnNext: func(v T) {
				active++
				var inner *Subscription
				inner = project(v).Subscribe(Observer[R]{
					OnNext:  s.Next,
					OnError: s.Error,
					OnComplete: func() {
						if inner != nil {
							delete(inners, inner)
						}
						done()
					},
				})
				if !inner.Closed() && !s.Closed() {
					inners[inner] = struct{}{}
				} else {
					inner.Unsubscribe()
				}
			},
			OnError:    s.Error,
			OnComplete: done,
		})

		return func() {
			outer.Unsubscribe()
			for inner := range inners {
				inner.Unsubscribe()
			}
			clear(inners)
		}
	})
}

// Merge interleaves the values of all srcs in the order they are produced.
func Merge[T any](srcs ...Observable[T]) Observable[T] {
	return FlatMap(FromSlice(srcs), func(o Observable[T]) Observable[T] { return o })
}

// CombineLatest2 emits fn(a, b) with the latest value of each input every time
// either emits, once both have emitted at least once.
func CombineLatest2[A, B, R any](a Observable[A], b Observable[B], fn func(A, B) R) Observable[R] {
	return Create(func(s *Subscriber[R]) func() {
		var (
			lastA      A
			lastB      B
			hasA, hasB bool
			active     = 2
		)
		done := func() {
			active--
			if active == 0 {
				s.Complete()
			}
		}
		subA := a.Subscribe(Observer[A]{
			OnNext: func(v A) {
				lastA, hasA = v, true
				if hasB {
					s.Next(fn(lastA, lastB))
				}
			},
			OnError:    s.Error,
			OnComplete: done,
		})
		s.Add(subA.Unsubscribe)
		subB := b.Subscribe(Observer[B]{
			OnNext: func(v B) {
				lastB, hasB = v, true
				if hasA {
					s.Next(fn(lastA, lastB))
				}
			},
			OnError:    s.Error,
			OnComplete: done,
		})
		return subB.Unsubscribe
	})
}
