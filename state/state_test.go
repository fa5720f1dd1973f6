package state_test

import (
	"testing"

	"github.com/delaneyj/signalbridge/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionVoxels(t *testing.T) {
	p := state.NewPosition()
	_, ok := p.VoxelCoordinates()
	assert.False(t, ok)
	assert.False(t, p.SetVoxelCoordinates(state.Vec3{1, 1, 1}))

	p.SetVoxelSize(state.Vec3{4, 4, 40})
	p.SetSpatial(state.Vec3{10, 20, 100})
	voxels, ok := p.VoxelCoordinates()
	require.True(t, ok)
	assert.Equal(t, state.Vec3{2.5, 5, 2.5}, voxels)
	assert.Equal(t, state.Vec3{2, 5, 2}, voxels.Floor())
	assert.Equal(t, state.Vec3{3, 5, 3}, voxels.Round())

	assert.True(t, p.SetVoxelCoordinates(state.Vec3{1, 2, 3}))
	assert.Equal(t, state.Vec3{4, 8, 120}, p.Spatial())
}

func TestNavigationAggregatesChildSignals(t *testing.T) {
	v := state.NewViewer()
	nav := v.Navigation()
	calls := 0
	nav.Changed().Add(func() { calls++ })

	nav.Position().SetSpatial(state.Vec3{1, 2, 3})
	nav.Orientation().Set(state.Quat{0, 1, 0, 0})
	nav.Zoom().Set(2)
	assert.Equal(t, 3, calls)

	v.Dispose()
	nav.Zoom().Set(3)
	assert.Equal(t, 3, calls)
	assert.True(t, nav.Scope().Disposed())
}

func TestMouse(t *testing.T) {
	m := state.NewMouse()
	calls := 0
	m.Changed().Add(func() { calls++ })

	m.Move(state.Vec3{1, 2, 3})
	assert.True(t, m.Active())
	assert.Equal(t, state.Vec3{1, 2, 3}, m.Position())

	m.Leave()
	assert.False(t, m.Active())
	assert.Equal(t, 2, calls)
}

func TestLayerManager(t *testing.T) {
	v := state.NewViewer()
	lm := v.Layers()
	calls := 0
	lm.Changed().Add(func() { calls++ })

	seg := v.NewSegmentationLayer("precomputed://seg")
	pending := lm.AddLayer("pending", nil)
	lm.AddLayer("seg", seg)
	require.Len(t, lm.Layers(), 2)
	assert.Nil(t, lm.Layers()[0].Layer())
	assert.Equal(t, 2, calls)

	img := v.NewImageLayer("precomputed://img")
	pending.SetLayer(img)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "pending", lm.Layers()[0].Name())

	assert.True(t, lm.RemoveLayer("seg"))
	assert.False(t, lm.RemoveLayer("seg"))
	assert.True(t, seg.Scope().Disposed())
	assert.False(t, img.Scope().Disposed())
	assert.Len(t, lm.Layers(), 1)
	assert.Equal(t, 4, calls)

	v.Dispose()
	assert.True(t, img.Scope().Disposed())
}

func TestSegmentSelection(t *testing.T) {
	s := state.NewSegmentSelection()
	calls := 0
	s.Changed().Add(func() { calls++ })

	s.Set(7)
	id, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, uint64(7), id)

	s.Disable()
	_, ok = s.Selected()
	assert.False(t, ok)
	assert.True(t, s.Disabled())
	assert.Equal(t, 2, calls)

	s.Set(8)
	_, ok = s.Selected()
	assert.False(t, ok)
	assert.Equal(t, 2, calls)
}

func TestSegmentationLayerVisibility(t *testing.T) {
	v := state.NewViewer()
	l := v.NewSegmentationLayer("precomputed://seg")
	calls := 0
	l.VisibleChanged().Add(func() { calls++ })

	l.ShowSegment(3)
	l.ShowSegment(3)
	l.ShowSegment(1)
	assert.ElementsMatch(t, []uint64{1, 3}, l.VisibleSegments())
	assert.Equal(t, 2, calls)

	l.HideSegment(3)
	l.HideSegment(3)
	assert.Equal(t, []uint64{1}, l.VisibleSegments())
	assert.Equal(t, 3, calls)
}

func TestImageLayerHoverValue(t *testing.T) {
	v := state.NewViewer()
	l := v.NewImageLayer("precomputed://img")
	_, ok := l.HoverValue()
	assert.False(t, ok)

	l.SetHoverValue(12.5)
	value, ok := l.HoverValue()
	assert.True(t, ok)
	assert.Equal(t, 12.5, value)

	l.ClearHoverValue()
	_, ok = l.HoverValue()
	assert.False(t, ok)
}
