package viewer

import (
	"github.com/delaneyj/signalbridge/config"
	"github.com/delaneyj/signalbridge/rx"
	"github.com/delaneyj/signalbridge/state"
)

// subscribeCallback feeds obs to fn until the returned remove is called.
// Panics in fn and stream errors go to the error handler; a panicking fn
// stays subscribed.
func subscribeCallback[T any](v *Viewer, op string, obs rx.Observable[T], fn func(T)) (remove func()) {
	sub := obs.Subscribe(rx.Observer[T]{
		OnNext:  func(x T) { v.invoke(op, func() { fn(x) }) },
		OnError: v.report,
	})
	return sub.Unsubscribe
}

func (v *Viewer) plain() bool {
	return v.composed.CallbackMode == config.ModePlain
}

// AddMouseOverSegmentCallback calls fn with the segment under the cursor,
// or nil once the cursor left the segments of layer.
func (v *Viewer) AddMouseOverSegmentCallback(fn func(segment *uint64, layer LayerRef)) (remove func()) {
	const op = "viewer.AddMouseOverSegmentCallback"
	cb := func(e SegmentEvent) { fn(e.Segment, e.Layer) }
	if v.plain() {
		return v.plainSegments.add(op, cb)
	}
	return subscribeCallback(v, op, v.mouseOverSegment, cb)
}

// AddMouseEnterSegmentCallback is AddMouseOverSegmentCallback without the
// leave events.
func (v *Viewer) AddMouseEnterSegmentCallback(fn func(segment uint64, layer LayerRef)) (remove func()) {
	const op = "viewer.AddMouseEnterSegmentCallback"
	cb := func(e SegmentEvent) {
		if e.Segment != nil {
			fn(*e.Segment, e.Layer)
		}
	}
	if v.plain() {
		return v.plainSegments.add(op, cb)
	}
	entered := rx.Filter(v.mouseOverSegment, func(e SegmentEvent) bool { return e.Segment != nil })
	return subscribeCallback(v, op, entered, cb)
}

// AddMouseLeaveSegmentsCallback calls fn each time the cursor leaves the
// segments of a layer.
func (v *Viewer) AddMouseLeaveSegmentsCallback(fn func()) (remove func()) {
	const op = "viewer.AddMouseLeaveSegmentsCallback"
	cb := func(e SegmentEvent) {
		if e.Segment == nil {
			fn()
		}
	}
	if v.plain() {
		return v.plainSegments.add(op, cb)
	}
	left := rx.Filter(v.mouseOverSegment, func(e SegmentEvent) bool { return e.Segment == nil })
	return subscribeCallback(v, op, left, cb)
}

// SetMouseOverSegmentCallback replaces the single slot callback.
func (v *Viewer) SetMouseOverSegmentCallback(fn func(segment *uint64, layer LayerRef)) {
	v.segmentSlot.set(v.AddMouseOverSegmentCallback(fn))
}

func (v *Viewer) ClearMouseOverSegmentCallback() {
	v.segmentSlot.clear()
}

func (v *Viewer) AddNavigationStateCallbackInRealSpace(fn func(position state.Vec3)) (remove func()) {
	const op = "viewer.AddNavigationStateCallbackInRealSpace"
	if v.plain() {
		pos := v.state.Navigation().Position()
		return plainListen(v, op, pos, pos.Changed(), v.state.Navigation().Scope(), rx.NoErr((*state.Position).Spatial), fn, v.report)
	}
	return subscribeCallback(v, op, v.navigation.Position.InRealSpace, fn)
}

func (v *Viewer) AddNavigationStateCallbackInVoxels(fn func(position state.Vec3)) (remove func()) {
	const op = "viewer.AddNavigationStateCallbackInVoxels"
	if v.plain() {
		pos := v.state.Navigation().Position()
		cb := func(p *state.Vec3) {
			if p != nil {
				fn(*p)
			}
		}
		return plainListen(v, op, pos, pos.Changed(), v.state.Navigation().Scope(), rx.NoErr(voxelPosition), cb, v.report)
	}
	return subscribeCallback(v, op, v.navigation.Position.InVoxels, fn)
}

// AddMousePositionCallbackInRealSpace calls fn with the cursor position, or
// nil once the cursor left the image area.
func (v *Viewer) AddMousePositionCallbackInRealSpace(fn func(position *state.Vec3)) (remove func()) {
	const op = "viewer.AddMousePositionCallbackInRealSpace"
	if v.plain() {
		mouse := v.state.Mouse()
		return plainListen(v, op, mouse, mouse.Changed(), v.state.Scope(), rx.NoErr(mousePosition), fn, v.report)
	}
	return subscribeCallback(v, op, v.mouse.InRealSpace, fn)
}

// AddMousePositionCallbackInVoxels is AddMousePositionCallbackInRealSpace in
// rounded voxel coordinates.
func (v *Viewer) AddMousePositionCallbackInVoxels(fn func(position *state.Vec3)) (remove func()) {
	const op = "viewer.AddMousePositionCallbackInVoxels"
	if v.plain() {
		mouse := v.state.Mouse()
		pos := v.state.Navigation().Position()
		project := rx.NoErr(func(m *state.Mouse) *state.Vec3 { return mouseVoxels(pos, mousePosition(m)) })
		return plainListen(v, op, mouse, mouse.Changed(), v.state.Scope(), project, fn, v.report)
	}
	return subscribeCallback(v, op, v.mouse.InVoxels, fn)
}

// SetMousePositionCallback replaces the single slot real-space mouse callback.
func (v *Viewer) SetMousePositionCallback(fn func(position *state.Vec3)) {
	v.mouseSlot.set(v.AddMousePositionCallbackInRealSpace(fn))
}

func (v *Viewer) ClearMousePositionCallback() {
	v.mouseSlot.clear()
}

// AddMouseOverLayerValueCallback fails with a configuration error unless
// layer value tracking was enabled when the viewer was composed.
func (v *Viewer) AddMouseOverLayerValueCallback(fn func(LayerValueEvent)) (remove func(), err error) {
	const op = "viewer.AddMouseOverLayerValueCallback"
	values, err := v.MouseOverLayerValue()
	if err != nil {
		return nil, err
	}
	if v.plain() {
		return v.plainValues.add(op, fn), nil
	}
	return subscribeCallback(v, op, values, fn), nil
}

// slot holds at most one registered callback.
type slot struct {
	remove func()
}

func (s *slot) set(remove func()) {
	s.clear()
	s.remove = remove
}

func (s *slot) clear() {
	if s.remove != nil {
		s.remove()
		s.remove = nil
	}
}
