package rx

import mapset "github.com/deckarep/golang-set/v2"

func Filter[T any](src Observable[T], keep func(T) bool) Observable[T] {
	return lift(src, func(s *Subscriber[T], v T) {
		if keep(v) {
			s.Next(v)
		}
	})
}

func Map[T, R any](src Observable[T], fn func(T) R) Observable[R] {
	return lift(src, func(s *Subscriber[R], v T) {
		s.Next(fn(v))
	})
}

// NotNull drops nil values and forwards what the others point to.
func NotNull[T any](src Observable[*T]) Observable[T] {
	return lift(src, func(s *Subscriber[T], v *T) {
		if v != nil {
			s.Next(*v)
		}
	})
}

// OfType forwards only the values whose dynamic type is, or implements, R.
func OfType[R, T any](src Observable[T]) Observable[R] {
	return lift(src, func(s *Subscriber[R], v T) {
		if r, ok := any(v).(R); ok {
			s.Next(r)
		}
	})
}

// Unseen forwards the first value for every distinct key and drops all later
// values with a key it has already seen. The seen-table belongs to the
// returned Observable and lives as long as it does, across all of its
// subscriptions; wrap in Defer for a table per subscription.
//
// Memory grows with the number of distinct keys, not with stream length.
func Unseen[T any, K comparable](src Observable[T], key func(T) K) Observable[T] {
	seen := mapset.NewThreadUnsafeSet[K]()
	return lift(src, func(s *Subscriber[T], v T) {
		if seen.Add(key(v)) {
			s.Next(v)
		}
	})
}

// Distinct is Unseen keyed by the value itself.
func Distinct[T comparable](src Observable[T]) Observable[T] {
	return Unseen(src, func(v T) T { return v })
}

// Flatten emits the elements of every slice in order.
//
// Used on collection snapshots, so each mutation costs O(len(snapshot))
// downstream work; fine for the handful of layers a viewer holds.
func Flatten[T any](src Observable[[]T]) Observable[T] {
	return lift(src, func(s *Subscriber[T], vs []T) {
		for _, v := range vs {
			if s.Closed() {
				return
			}
			s.Next(v)
		}
	})
}
