package rx_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/delaneyj/signalbridge/rx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMap(t *testing.T) {
	src := rx.FromSlice([]int{1, 2, 3, 4})
	even := rx.Filter(src, func(v int) bool { return v%2 == 0 })
	r, _ := record(rx.Map(even, func(v int) string { return fmt.Sprint(v * 10) }))

	assert.Equal(t, []string{"20", "40"}, r.values)
	assert.True(t, r.completed)
}

func TestNotNull(t *testing.T) {
	one, two := 1, 2
	r, _ := record(rx.NotNull(rx.FromSlice([]*int{nil, &one, nil, &two})))
	assert.Equal(t, []int{1, 2}, r.values)
}

type shape interface{ area() float64 }

type square struct{ side float64 }

func (s square) area() float64 { return s.side * s.side }

type label string

func TestOfType(t *testing.T) {
	src := rx.FromSlice([]any{square{2}, label("x"), square{3}, 4})

	squares, _ := record(rx.OfType[square](src))
	assert.Equal(t, []square{{2}, {3}}, squares.values)

	shapes, _ := record(rx.OfType[shape](src))
	assert.Len(t, shapes.values, 2)
}

func TestUnseenEmitsEachKeyOnce(t *testing.T) {
	src := rx.FromSlice([]string{"a", "b", "a", "c", "b", "a"})
	r, _ := record(rx.Distinct(src))
	assert.Equal(t, []string{"a", "b", "c"}, r.values)
}

func TestUnseenTableLivesWithObservable(t *testing.T) {
	src := rx.FromSlice([]string{"a", "b"})
	unseen := rx.Distinct(src)

	first, _ := record(unseen)
	second, _ := record(unseen)
	assert.Equal(t, []string{"a", "b"}, first.values)
	assert.Empty(t, second.values)

	deferred := rx.Defer(func() rx.Observable[string] { return rx.Distinct(src) })
	first, _ = record(deferred)
	second, _ = record(deferred)
	assert.Equal(t, []string{"a", "b"}, first.values)
	assert.Equal(t, []string{"a", "b"}, second.values)
}

func TestUnseenByKey(t *testing.T) {
	type item struct {
		id   int
		name string
	}
	src := rx.FromSlice([]item{{1, "one"}, {2, "two"}, {1, "uno"}})
	r, _ := record(rx.Unseen(src, func(i item) int { return i.id }))
	assert.Equal(t, []item{{1, "one"}, {2, "two"}}, r.values)
}

func TestFlatten(t *testing.T) {
	r, _ := record(rx.Flatten(rx.FromSlice([][]int{{1, 2}, {}, {3}})))
	assert.Equal(t, []int{1, 2, 3}, r.values)
	assert.True(t, r.completed)
}

func TestFlatMapMergesInOrder(t *testing.T) {
	a, b := newCounter(), newCounter()
	merged := rx.FlatMap(rx.FromSlice([]*counter{a, b}), func(c *counter) rx.Observable[int] {
		return c.bridge(rx.Prefire(false))
	})

	r, sub := record(merged)
	a.set(1)
	b.set(10)
	a.set(2)
	b.set(20)
	assert.Equal(t, []int{1, 10, 2, 20}, r.values)
	assert.False(t, r.completed)

	a.scope.Dispose()
	assert.False(t, r.completed, "one inner stream still running")
	b.scope.Dispose()
	assert.True(t, r.completed)
	assert.True(t, sub.Closed())
}

func TestFlatMapUnsubscribeDetachesInners(t *testing.T) {
	a, b := newCounter(), newCounter()
	merged := rx.Merge(a.bridge(), b.bridge())

	r, sub := record(merged)
	assert.Equal(t, []int{0, 0}, r.values)
	assert.Equal(t, 1, a.changed.Len())
	assert.Equal(t, 1, b.changed.Len())

	sub.Unsubscribe()
	assert.Equal(t, 0, a.changed.Len())
	assert.Equal(t, 0, b.changed.Len())
}

func TestFlatMapInnerError(t *testing.T) {
	boom := errors.New("boom")
	merged := rx.FlatMap(rx.FromSlice([]int{1, 2}), func(v int) rx.Observable[int] {
		if v == 2 {
			return rx.Throw[int](boom)
		}
		return rx.FromSlice([]int{v})
	})
	r, _ := record(merged)
	assert.Equal(t, []int{1}, r.values)
	require.Len(t, r.errs, 1)
	assert.ErrorIs(t, r.errs[0], boom)
	assert.False(t, r.completed)
}

func TestCombineLatest2(t *testing.T) {
	a, b := newCounter(), newCounter()
	sum := rx.CombineLatest2(a.bridge(), b.bridge(), func(x, y int) int { return x*100 + y })

	r, _ := record(sum)
	a.set(1)
	b.set(2)
	assert.Equal(t, []int{0, 100, 102}, r.values)

	a.scope.Dispose()
	b.set(3)
	assert.Equal(t, []int{0, 100, 102, 103}, r.values)
	assert.False(t, r.completed)
	b.scope.Dispose()
	assert.True(t, r.completed)
}

func TestEmptyAndThrow(t *testing.T) {
	empty, _ := record(rx.Empty[int]())
	assert.True(t, empty.completed)

	var zero rx.Observable[int]
	z, _ := record(zero)
	assert.True(t, z.completed)

	boom := errors.New("boom")
	thrown, _ := record(rx.Throw[int](boom))
	assert.Equal(t, []error{boom}, thrown.errs)
}

func TestSubscriberAddAfterClose(t *testing.T) {
	ran := false
	obs := rx.Create(func(s *rx.Subscriber[int]) func() {
		s.Complete()
		s.Add(func() { ran = true })
		s.Next(1)
		return nil
	})
	r, _ := record(obs)
	assert.True(t, ran)
	assert.Empty(t, r.values)
	assert.True(t, r.completed)
}

func TestEvaluate(t *testing.T) {
	v, err := rx.Evaluate("double", rx.NoErr(func(x int) int { return x * 2 }), 21)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = rx.Evaluate("fail", func(int) (int, error) { return 0, errors.New("nope") }, 1)
	assert.EqualError(t, err, "projection error in fail: nope")
	assert.False(t, rx.IsKind(err, rx.KindCallback))
	assert.Equal(t, "configuration", rx.KindConfiguration.String())
}
