package viewer

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/signalbridge/rx"
	"github.com/delaneyj/signalbridge/signal"
	"github.com/delaneyj/signalbridge/state"
)

// plainListen is the stream-free counterpart of subscribing a callback to a
// prefiring Bridge: fn gets project(src) now and after every dispatch of
// changed, until remove is called or life is disposed. A projection error
// ends the registration and is handed to onError, as it would end the stream.
func plainListen[S, T any](v *Viewer, op string, src S, changed rx.Notifier, life rx.Lifetime,
	project func(S) (T, error), fn func(T), onError func(error)) (remove func()) {
	var (
		closed   bool
		detach   func()
		disposer signal.Handle
	)
	remove = func() {
		if closed {
			return
		}
		closed = true
		if detach != nil {
			detach()
		}
		life.UnregisterDisposer(disposer)
	}
	fire := func() {
		x, err := rx.Evaluate(op, project, src)
		if err != nil {
			remove()
			onError(err)
			return
		}
		v.invoke(op, func() { fn(x) })
	}

	disposer = life.RegisterDisposer(remove)
	if closed {
		return remove
	}
	fire()
	if closed {
		return remove
	}
	detach = changed.Add(fire)
	return remove
}

type plainCallback[T any] struct {
	op      string
	fn      func(T)
	removed bool
}

// plainHub fans one set of direct signal listeners out to every registered
// callback. It connects on the first callback and disconnects after the last,
// and a callback joining while connected is handed the latest event only, so
// callbacks see exactly what the shared stream of the same pipeline delivers.
type plainHub[T any] struct {
	v     *Viewer
	life  rx.Lifetime
	start func(emit func(T), fail func(error)) (disconnect func())

	callbacks  []*plainCallback[T]
	connected  bool
	gen        uint64
	disconnect func()
	disposer   signal.Handle

	last    T
	hasLast bool
}

// plainFanOut discovers layers with capability L by re-reading the layer
// list on every change and hands each first-seen layer to listen. Every
// connection starts with an empty seen-table.
func plainFanOut[L state.UserLayer, T any](v *Viewer,
	listen func(n named[L], emit func(T), fail func(error)) (remove func())) *plainHub[T] {
	lm := v.state.Layers()
	start := func(emit func(T), fail func(error)) func() {
		seen := mapset.NewThreadUnsafeSet[*signal.Scope]()
		var (
			stopped  bool
			removers []func()
		)
		discover := func(layers []*state.ManagedLayer) {
			for _, m := range layers {
				n := layerAs[L](m)
				if n == nil || stopped || !seen.Add(layerKey(*n)) {
					continue
				}
				removers = append(removers, listen(*n, emit, fail))
			}
		}
		removeLayers := plainListen(v, "viewer.Layers", lm, lm.Changed(), lm.Scope(), rx.NoErr((*state.LayerManager).Layers), discover, fail)
		return func() {
			stopped = true
			removeLayers()
			for _, r := range removers {
				r()
			}
			removers = nil
		}
	}
	return &plainHub[T]{v: v, life: lm.Scope(), start: start}
}

func (h *plainHub[T]) add(op string, fn func(T)) (remove func()) {
	cb := &plainCallback[T]{op: op, fn: fn}
	h.callbacks = append(h.callbacks, cb)
	if h.hasLast {
		h.deliver(cb, h.last)
	}
	if !h.connected && !cb.removed {
		h.connect()
	}
	return func() { h.remove(cb) }
}

func (h *plainHub[T]) connect() {
	h.connected = true
	h.gen++
	gen := h.gen
	disconnect := h.start(h.next, h.fail)
	if !h.connected || h.gen != gen {
		// failed or emptied while connecting
		disconnect()
		return
	}
	h.disconnect = disconnect
	h.disposer = h.life.RegisterDisposer(h.complete)
}

func (h *plainHub[T]) next(x T) {
	h.last, h.hasLast = x, true
	for _, cb := range h.callbacks {
		if !cb.removed {
			h.deliver(cb, x)
		}
	}
}

func (h *plainHub[T]) deliver(cb *plainCallback[T], x T) {
	h.v.invoke(cb.op, func() { cb.fn(x) })
}

// fail ends every registration, reporting err once per callback.
func (h *plainHub[T]) fail(err error) {
	for range h.reset() {
		h.v.report(err)
	}
}

// complete ends every registration once the layer list is disposed.
func (h *plainHub[T]) complete() {
	h.reset()
}

func (h *plainHub[T]) reset() []*plainCallback[T] {
	cbs := h.callbacks
	h.callbacks = nil
	for _, cb := range cbs {
		cb.removed = true
	}
	h.disconnectNow()
	return cbs
}

func (h *plainHub[T]) remove(cb *plainCallback[T]) {
	if cb.removed {
		return
	}
	cb.removed = true
	for i, other := range h.callbacks {
		if other == cb {
			h.callbacks = append(h.callbacks[:i:i], h.callbacks[i+1:]...)
			break
		}
	}
	if len(h.callbacks) == 0 {
		h.disconnectNow()
	}
}

func (h *plainHub[T]) disconnectNow() {
	var zero T
	h.last, h.hasLast = zero, false
	if !h.connected {
		return
	}
	h.connected = false
	h.life.UnregisterDisposer(h.disposer)
	h.disposer = 0
	if d := h.disconnect; d != nil {
		h.disconnect = nil
		d()
	}
}

func (v *Viewer) plainMouseOverSegment() *plainHub[SegmentEvent] {
	return plainFanOut(v,
		func(n named[*state.SegmentationLayer], emit func(SegmentEvent), fail func(error)) func() {
			ref := n.ref()
			sel := n.layer.Selection()
			return plainListen(v, "viewer.MouseOverSegment", sel, sel.Changed(), n.layer.Scope(),
				rx.NoErr(func(s *state.SegmentSelection) SegmentEvent { return selectionEvent(s, ref) }), emit, fail)
		})
}

func (v *Viewer) plainLayerValues() *plainHub[LayerValueEvent] {
	return plainFanOut(v,
		func(n named[state.ValueReporter], emit func(LayerValueEvent), fail func(error)) func() {
			ref := n.ref()
			return plainListen(v, "viewer.MouseOverLayerValue", n.layer, n.layer.ValueChanged(), n.layer.Scope(),
				rx.NoErr(func(l state.ValueReporter) LayerValueEvent { return layerValueEvent(l, ref) }), emit, fail)
		})
}
