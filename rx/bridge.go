package rx

import "github.com/delaneyj/signalbridge/signal"

// Notifier is the change signal of an observed object.
type Notifier interface {
	Add(listener func()) (remove func())
}

// Lifetime is the disposal scope owning an observed object.
type Lifetime interface {
	RegisterDisposer(fn func()) signal.Handle
	UnregisterDisposer(h signal.Handle)
}

type bridgeOptions struct {
	prefire bool
	share   bool
	op      string
}

type BridgeOption func(*bridgeOptions)

// Prefire controls whether a subscriber receives the current projection
// immediately on subscribing. Defaults to true.
func Prefire(prefire bool) BridgeOption {
	return func(o *bridgeOptions) { o.prefire = prefire }
}

// Shared controls whether all subscribers share one listener on the signal.
// Defaults to true.
func Shared(share bool) BridgeOption {
	return func(o *bridgeOptions) { o.share = share }
}

// Named sets the operation name carried by projection errors.
func Named(op string) BridgeOption {
	return func(o *bridgeOptions) { o.op = op }
}

// Bridge turns src, its change signal and the scope that owns it into a
// stream of project(src), re-evaluated on every dispatch of changed.
//
// When the scope is disposed every subscriber completes, and any later
// subscriber completes immediately without receiving a value. A projection
// error terminates the stream with a KindProjection *Error.
//
// With the defaults (prefire, shared) the stream holds exactly one listener
// while it has subscribers and replays the latest value to late subscribers.
// Losing every subscriber only detaches the listener; the next subscriber
// attaches it again.
func Bridge[S, T any](src S, changed Notifier, life Lifetime, project func(S) (T, error), opts ...BridgeOption) Observable[T] {
	o := bridgeOptions{prefire: true, share: true, op: "rx.Bridge"}
	for _, opt := range opts {
		opt(&o)
	}

	emit := func(s *Subscriber[T]) {
		v, err := Evaluate(o.op, project, src)
		if err != nil {
			s.Error(err)
			return
		}
		s.Next(v)
	}

	obs := Create(func(s *Subscriber[T]) func() {
		h := life.RegisterDisposer(s.Complete)
		s.Add(func() { life.UnregisterDisposer(h) })
		if s.Closed() {
			return nil
		}
		if o.prefire {
			emit(s)
			if s.Closed() {
				return nil
			}
		}
		return changed.Add(func() { emit(s) })
	})

	switch {
	case !o.share:
		return obs
	case o.prefire:
		return ShareReplay(obs)
	default:
		return Share(obs)
	}
}

// NoErr adapts an infallible projection for Bridge.
func NoErr[S, T any](fn func(S) T) func(S) (T, error) {
	return func(src S) (T, error) {
		return fn(src), nil
	}
}
