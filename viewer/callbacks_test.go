package viewer_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/signalbridge/config"
	"github.com/delaneyj/signalbridge/rx"
	"github.com/delaneyj/signalbridge/state"
	"github.com/delaneyj/signalbridge/viewer"
)

func TestCallbackPanicIsRoutedAndSubscriptionSurvives(t *testing.T) {
	for _, cfg := range []config.Config{config.Default(), plainConfig()} {
		t.Run(string(cfg.CallbackMode), func(t *testing.T) {
			errs := &errorLog{}
			st, v := newViewer(t, cfg, viewer.WithErrorHandler(errs.handler))

			log := &hoverLog{}
			v.AddMouseOverSegmentCallback(func(segment *uint64, layer viewer.LayerRef) {
				log.add(segment, layer)
				if segment != nil && *segment == 5 {
					panic("cannot handle five")
				}
			})

			l := st.NewSegmentationLayer("precomputed://seg")
			st.Layers().AddLayer("seg", l)
			l.Selection().Set(5)
			l.Selection().Set(6)

			assert.Equal(t, []string{"seg:-", "seg:5", "seg:6"}, log.events)
			require.Len(t, errs.errs, 1)
			var rxErr *rx.Error
			require.ErrorAs(t, errs.errs[0], &rxErr)
			assert.Equal(t, rx.KindCallback, rxErr.Kind)
			assert.Equal(t, "viewer.AddMouseOverSegmentCallback", rxErr.Op)
			assert.Equal(t, "cannot handle five", rxErr.Value)
		})
	}
}

func TestErrorsWithoutHandlerAreDropped(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.LogLevel = "debug"
	st, v := newViewer(t, cfg, viewer.WithLogger(zerolog.New(&buf)))

	calls := 0
	v.AddMousePositionCallbackInRealSpace(func(p *state.Vec3) {
		calls++
		if p != nil {
			panic(errors.New("bad cursor"))
		}
	})
	assert.NotPanics(t, func() { st.Mouse().Move(state.Vec3{1, 2, 3}) })
	assert.Equal(t, 2, calls)
	assert.Contains(t, buf.String(), "dropping error")
	assert.Contains(t, buf.String(), "bad cursor")

	errs := &errorLog{}
	v.SetErrorHandler(errs.handler)
	st.Mouse().Move(state.Vec3{2, 2, 3})
	require.Len(t, errs.errs, 1)
	assert.True(t, rx.IsKind(errs.errs[0], rx.KindCallback))
}

func TestRemoveIsIdempotent(t *testing.T) {
	for _, cfg := range []config.Config{config.Default(), plainConfig()} {
		t.Run(string(cfg.CallbackMode), func(t *testing.T) {
			st, v := newViewer(t, cfg)
			l := st.NewSegmentationLayer("precomputed://seg")
			st.Layers().AddLayer("seg", l)

			log := &hoverLog{}
			remove := v.AddMouseOverSegmentCallback(log.add)
			other := &hoverLog{}
			v.AddMouseOverSegmentCallback(other.add)

			remove()
			remove()
			l.Selection().Set(1)
			assert.Equal(t, []string{"seg:-"}, log.events)
			assert.Equal(t, []string{"seg:-", "seg:1"}, other.events)
		})
	}
}

func TestSingleSlotCallbacks(t *testing.T) {
	st, v := newViewer(t, config.Default())
	l := st.NewSegmentationLayer("precomputed://seg")
	st.Layers().AddLayer("seg", l)

	first, second := &hoverLog{}, &hoverLog{}
	v.SetMouseOverSegmentCallback(first.add)
	v.SetMouseOverSegmentCallback(second.add)
	l.Selection().Set(1)
	v.ClearMouseOverSegmentCallback()
	v.ClearMouseOverSegmentCallback()
	l.Selection().Set(2)

	assert.Equal(t, []string{"seg:-"}, first.events)
	assert.Equal(t, []string{"seg:-", "seg:1"}, second.events)

	var moves []*state.Vec3
	v.SetMousePositionCallback(func(p *state.Vec3) { moves = append(moves, p) })
	st.Mouse().Move(state.Vec3{1, 2, 3})
	v.ClearMousePositionCallback()
	st.Mouse().Leave()
	require.Len(t, moves, 2)
	assert.Nil(t, moves[0])
	assert.Equal(t, state.Vec3{1, 2, 3}, *moves[1])
}

func TestNavigationCallbacks(t *testing.T) {
	for _, cfg := range []config.Config{config.Default(), plainConfig()} {
		t.Run(string(cfg.CallbackMode), func(t *testing.T) {
			st, v := newViewer(t, cfg)
			pos := st.Navigation().Position()

			var real, voxels []state.Vec3
			v.AddNavigationStateCallbackInRealSpace(func(p state.Vec3) { real = append(real, p) })
			v.AddNavigationStateCallbackInVoxels(func(p state.Vec3) { voxels = append(voxels, p) })

			pos.SetSpatial(state.Vec3{10, 20, 100})
			pos.SetVoxelSize(state.Vec3{4, 4, 40})
			pos.SetSpatial(state.Vec3{12, 20, 100})

			assert.Equal(t, []state.Vec3{{}, {10, 20, 100}, {10, 20, 100}, {12, 20, 100}}, real)
			assert.Equal(t, []state.Vec3{{2, 5, 2}, {3, 5, 2}}, voxels)
		})
	}
}

func TestMousePositionCallbacks(t *testing.T) {
	for _, cfg := range []config.Config{config.Default(), plainConfig()} {
		t.Run(string(cfg.CallbackMode), func(t *testing.T) {
			st, v := newViewer(t, cfg)

			var real, voxels []*state.Vec3
			v.AddMousePositionCallbackInRealSpace(func(p *state.Vec3) { real = append(real, p) })
			v.AddMousePositionCallbackInVoxels(func(p *state.Vec3) { voxels = append(voxels, p) })

			st.Mouse().Move(state.Vec3{10, 22, 100})
			st.Navigation().Position().SetVoxelSize(state.Vec3{4, 4, 40})
			st.Mouse().Move(state.Vec3{10, 22, 100})
			st.Mouse().Leave()

			require.Len(t, real, 4)
			assert.Nil(t, real[0])
			assert.Equal(t, state.Vec3{10, 22, 100}, *real[1])
			assert.Nil(t, real[3])

			require.Len(t, voxels, 4)
			assert.Nil(t, voxels[0])
			assert.Nil(t, voxels[1], "voxel size not known yet")
			assert.Equal(t, state.Vec3{3, 6, 3}, *voxels[2])
			assert.Nil(t, voxels[3])
		})
	}
}

func TestMouseOverLayerValue(t *testing.T) {
	cfg := config.Default()
	cfg.TrackLayerValues = true
	st, v := newViewer(t, cfg)

	var events []viewer.LayerValueEvent
	remove, err := v.AddMouseOverLayerValueCallback(func(e viewer.LayerValueEvent) { events = append(events, e) })
	require.NoError(t, err)

	img := st.NewImageLayer("precomputed://img")
	st.Layers().AddLayer("img", img)
	st.Layers().AddLayer("seg", st.NewSegmentationLayer("precomputed://seg"))
	img.SetHoverValue(3.5)
	img.ClearHoverValue()
	remove()
	img.SetHoverValue(4.5)

	ref := viewer.LayerRef{Name: "img", URL: "precomputed://img"}
	assert.Equal(t, []viewer.LayerValueEvent{
		{Layer: ref},
		{Value: 3.5, Layer: ref},
		{Layer: ref},
	}, events)
}

func TestMouseOverLayerValueNeedsConfiguration(t *testing.T) {
	errs := &errorLog{}
	_, v := newViewer(t, config.Default(), viewer.WithErrorHandler(errs.handler))

	_, err := v.MouseOverLayerValue()
	assert.True(t, rx.IsKind(err, rx.KindConfiguration))

	remove, err := v.AddMouseOverLayerValueCallback(func(viewer.LayerValueEvent) {})
	assert.Nil(t, remove)
	assert.True(t, rx.IsKind(err, rx.KindConfiguration))
	assert.Empty(t, errs.errs)

	cfg := config.Default()
	cfg.TrackLayerValues = true
	require.NoError(t, v.SetConfig(cfg))
	_, err = v.MouseOverLayerValue()
	assert.Error(t, err, "composition-time settings ignore SetConfig")
}
