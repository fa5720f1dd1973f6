package rx_test

import (
	"github.com/delaneyj/signalbridge/rx"
	"github.com/delaneyj/signalbridge/signal"
)

type counter struct {
	value   int
	changed *signal.Signal
	scope   *signal.Scope
}

func newCounter() *counter {
	c := &counter{changed: signal.New(), scope: signal.NewScope()}
	c.scope.RegisterDisposer(c.changed.Dispose)
	return c
}

func (c *counter) set(v int) {
	c.value = v
	c.changed.Dispatch()
}

func (c *counter) bridge(opts ...rx.BridgeOption) rx.Observable[int] {
	return rx.Bridge(c, c.changed, c.scope, rx.NoErr(func(c *counter) int { return c.value }), opts...)
}

type recorder[T any] struct {
	values    []T
	errs      []error
	completed bool
}

func (r *recorder[T]) observer() rx.Observer[T] {
	return rx.Observer[T]{
		OnNext:     func(v T) { r.values = append(r.values, v) },
		OnError:    func(err error) { r.errs = append(r.errs, err) },
		OnComplete: func() { r.completed = true },
	}
}

func record[T any](obs rx.Observable[T]) (*recorder[T], *rx.Subscription) {
	r := &recorder[T]{}
	return r, obs.Subscribe(r.observer())
}
