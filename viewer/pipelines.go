package viewer

import (
	"github.com/delaneyj/signalbridge/rx"
	"github.com/delaneyj/signalbridge/segcolor"
	"github.com/delaneyj/signalbridge/signal"
	"github.com/delaneyj/signalbridge/state"
)

func (v *Viewer) composeNavigation() NavigationStreams {
	nav := v.state.Navigation()
	pos := nav.Position()
	persp := v.state.Perspective()

	full := rx.Bridge(nav, nav.Changed(), nav.Scope(), rx.NoErr(func(n *state.Navigation) Pose {
		return Pose{
			Position:    n.Position().Spatial(),
			Orientation: n.Orientation().Value(),
			Zoom:        n.Zoom().Value(),
		}
	}), rx.Named("viewer.Navigation.Full"))
	perspectiveZoom := rx.Bridge(persp.Zoom(), persp.Zoom().Changed(), persp.Scope(), rx.NoErr((*state.Zoom).Value),
		rx.Named("viewer.Navigation.PerspectiveZoom"))

	return NavigationStreams{
		Position: PositionStreams{
			InRealSpace: rx.Bridge(pos, pos.Changed(), nav.Scope(), rx.NoErr((*state.Position).Spatial),
				rx.Named("viewer.Navigation.Position.InRealSpace")),
			InVoxels: rx.ShareReplay(rx.NotNull(rx.Bridge(pos, pos.Changed(), nav.Scope(), rx.NoErr(voxelPosition),
				rx.Shared(false), rx.Named("viewer.Navigation.Position.InVoxels")))),
		},
		Orientation: rx.Bridge(nav.Orientation(), nav.Orientation().Changed(), nav.Scope(), rx.NoErr((*state.Orientation).Value),
			rx.Named("viewer.Navigation.Orientation")),
		SliceZoom:       rx.Bridge(nav.Zoom(), nav.Zoom().Changed(), nav.Scope(), rx.NoErr((*state.Zoom).Value), rx.Named("viewer.Navigation.SliceZoom")),
		PerspectiveZoom: perspectiveZoom,
		Full:            full,
		All: rx.ShareReplay(rx.CombineLatest2(full, perspectiveZoom, func(p Pose, zoom float64) FullPose {
			return FullPose{Pose: p, PerspectiveZoom: zoom}
		})),
	}
}

// voxelPosition is nil until the voxel size is known.
func voxelPosition(p *state.Position) *state.Vec3 {
	voxels, ok := p.VoxelCoordinates()
	if !ok {
		return nil
	}
	voxels = voxels.Floor()
	return &voxels
}

func (v *Viewer) composeMouse() MouseStreams {
	mouse := v.state.Mouse()
	pos := v.state.Navigation().Position()

	inRealSpace := rx.Bridge(mouse, mouse.Changed(), v.state.Scope(), rx.NoErr(mousePosition),
		rx.Named("viewer.MousePosition.InRealSpace"))
	return MouseStreams{
		InRealSpace: inRealSpace,
		InVoxels: rx.ShareReplay(rx.Map(inRealSpace, func(p *state.Vec3) *state.Vec3 {
			return mouseVoxels(pos, p)
		})),
	}
}

func mousePosition(m *state.Mouse) *state.Vec3 {
	if !m.Active() {
		return nil
	}
	p := m.Position()
	return &p
}

func mouseVoxels(pos *state.Position, p *state.Vec3) *state.Vec3 {
	if p == nil {
		return nil
	}
	voxels, ok := pos.VoxelFromSpatial(*p)
	if !ok {
		return nil
	}
	voxels = voxels.Round()
	return &voxels
}

// composeLayers emits every member of the layer list, in order, each time the
// list changes. The whole list is re-enumerated per change; dedup downstream
// keeps that cheap while viewers hold few layers.
func (v *Viewer) composeLayers() rx.Observable[*state.ManagedLayer] {
	lm := v.state.Layers()
	return rx.Flatten(rx.Bridge(lm, lm.Changed(), lm.Scope(), rx.NoErr((*state.LayerManager).Layers),
		rx.Named("viewer.Layers")))
}

// named is a layer with the capability L, tagged with its managed name.
type named[L state.UserLayer] struct {
	name  string
	layer L
}

func (n named[L]) ref() LayerRef {
	return LayerRef{Name: n.name, URL: n.layer.URL()}
}

func layerAs[L state.UserLayer](m *state.ManagedLayer) *named[L] {
	l, ok := m.Layer().(L)
	if !ok {
		return nil
	}
	return &named[L]{name: m.Name(), layer: l}
}

// layerKey identifies a layer by the scope it owns. Scopes are pointers, so
// layers whose own type is not comparable can still be deduplicated.
func layerKey[L state.UserLayer](n named[L]) *signal.Scope {
	return n.layer.Scope()
}

// fanOut is the shared shape of the per-layer hover pipelines: discover each
// layer with capability L exactly once per connection, bridge its own signal
// with project, and merge the results. Each connection of the returned stream
// gets a fresh seen-table.
func fanOut[L state.UserLayer, T any](v *Viewer, project func(named[L]) rx.Observable[T]) rx.Observable[T] {
	return rx.ShareReplay(rx.Defer(func() rx.Observable[T] {
		layers := rx.NotNull(rx.Map(v.layers, layerAs[L]))
		return rx.FlatMap(rx.Unseen(layers, layerKey[L]), project)
	}))
}

func (v *Viewer) composeMouseOverSegment() rx.Observable[SegmentEvent] {
	return fanOut(v, func(n named[*state.SegmentationLayer]) rx.Observable[SegmentEvent] {
		ref := n.ref()
		sel := n.layer.Selection()
		return rx.Bridge(sel, sel.Changed(), n.layer.Scope(), rx.NoErr(func(s *state.SegmentSelection) SegmentEvent {
			return selectionEvent(s, ref)
		}), rx.Named("viewer.MouseOverSegment"))
	})
}

func selectionEvent(s *state.SegmentSelection, ref LayerRef) SegmentEvent {
	id, ok := s.Selected()
	if !ok {
		return SegmentEvent{Layer: ref}
	}
	return SegmentEvent{Segment: &id, Layer: ref}
}

func (v *Viewer) composeLayerValues() rx.Observable[LayerValueEvent] {
	return fanOut(v, func(n named[state.ValueReporter]) rx.Observable[LayerValueEvent] {
		ref := n.ref()
		return rx.Bridge(n.layer, n.layer.ValueChanged(), n.layer.Scope(), rx.NoErr(func(l state.ValueReporter) LayerValueEvent {
			return layerValueEvent(l, ref)
		}), rx.Named("viewer.MouseOverLayerValue"))
	})
}

func layerValueEvent(l state.ValueReporter, ref LayerRef) LayerValueEvent {
	value, _ := l.HoverValue()
	return LayerValueEvent{Value: value, Layer: ref}
}

// composeLayerHooks applies the per-layer configuration to every segmentation
// layer exactly once, for the lifetime of the viewer.
func (v *Viewer) composeLayerHooks() *rx.Subscription {
	segmentation := rx.OfType[*state.SegmentationLayer](rx.Map(v.layers, (*state.ManagedLayer).Layer))
	return rx.Distinct(segmentation).Subscribe(rx.Observer[*state.SegmentationLayer]{
		OnNext:  v.discoverLayer,
		OnError: v.report,
	})
}

func (v *Viewer) discoverLayer(l *state.SegmentationLayer) {
	policy := v.cfg.PolicyFor()
	v.policies[l] = policy
	var viewerHandle signal.Handle
	layerHandle := l.Scope().RegisterDisposer(func() {
		delete(v.policies, l)
		v.scope.UnregisterDisposer(viewerHandle)
	})
	if layerHandle != 0 {
		viewerHandle = v.scope.RegisterDisposer(func() { l.Scope().UnregisterDisposer(layerHandle) })
	}

	if policy.DisableSegmentSelection {
		l.Selection().Disable()
	}
	if v.composed.UseCustomSegmentColors {
		if _, ok := l.Colors().(*segcolor.Custom); !ok {
			l.SetColors(segcolor.NewCustom(l.ColorsChanged(), l.Colors()))
		}
	}
	v.log.Debug().
		Str("url", l.URL()).
		Bool("selection_disabled", policy.DisableSegmentSelection).
		Msg("segmentation layer discovered")
}
