package viewer

import (
	"fmt"
	"slices"

	"github.com/delaneyj/signalbridge/segcolor"
	"github.com/delaneyj/signalbridge/state"
)

// LayerFilter narrows a lookup to layers with the given name and/or URL.
// Empty fields match anything.
type LayerFilter struct {
	Name string
	URL  string
}

// Color is a colour as callers supply it; every channel must be in 0..255.
type Color struct {
	Red, Green, Blue int
}

func (v *Viewer) singleSegmentation(op string, f LayerFilter) (*state.SegmentationLayer, error) {
	var found []*state.SegmentationLayer
	for _, m := range v.state.Layers().Layers() {
		if f.Name != "" && m.Name() != f.Name {
			continue
		}
		l, ok := m.Layer().(*state.SegmentationLayer)
		if !ok {
			continue
		}
		if f.URL != "" && l.URL() != f.URL {
			continue
		}
		found = append(found, l)
	}
	switch len(found) {
	case 0:
		return nil, v.fail(op, ErrNoLayer)
	case 1:
		return found[0], nil
	default:
		return nil, v.fail(op, ErrAmbiguousLayer)
	}
}

func (v *Viewer) ShowSegment(id uint64, f LayerFilter) error {
	l, err := v.singleSegmentation("viewer.ShowSegment", f)
	if err != nil {
		return err
	}
	l.ShowSegment(id)
	return nil
}

func (v *Viewer) HideSegment(id uint64, f LayerFilter) error {
	l, err := v.singleSegmentation("viewer.HideSegment", f)
	if err != nil {
		return err
	}
	l.HideSegment(id)
	return nil
}

// ShownSegments returns the visible ids in ascending order. An empty result
// means every segment is visible.
func (v *Viewer) ShownSegments(f LayerFilter) ([]uint64, error) {
	l, err := v.singleSegmentation("viewer.ShownSegments", f)
	if err != nil {
		return nil, err
	}
	ids := l.VisibleSegments()
	slices.Sort(ids)
	return ids, nil
}

// customColors fails with a configuration error, not routed to the error
// handler, unless custom colours were enabled at composition.
func (v *Viewer) customColors(op string, f LayerFilter) (*segcolor.Custom, error) {
	l, err := v.singleSegmentation(op, f)
	if err != nil {
		return nil, err
	}
	custom, ok := l.Colors().(*segcolor.Custom)
	if !ok {
		return nil, ConfigurationError(op,
			"custom segment colors are not enabled, set use_custom_segment_colors before creating the viewer")
	}
	return custom, nil
}

func (v *Viewer) checkColor(op string, c Color) (segcolor.RGB, error) {
	for _, ch := range []struct {
		name  string
		value int
	}{{"red", c.Red}, {"green", c.Green}, {"blue", c.Blue}} {
		if ch.value < 0 || ch.value > 255 {
			return segcolor.RGB{}, v.fail(op, fmt.Errorf("%w: %s is %d", ErrColorRange, ch.name, ch.value))
		}
	}
	return segcolor.RGB{R: uint8(c.Red), G: uint8(c.Green), B: uint8(c.Blue)}, nil
}

func (v *Viewer) SetSegmentColor(id uint64, c Color, f LayerFilter) error {
	const op = "viewer.SetSegmentColor"
	rgb, err := v.checkColor(op, c)
	if err != nil {
		return err
	}
	custom, err := v.customColors(op, f)
	if err != nil {
		return err
	}
	custom.SetColor(id, rgb)
	return nil
}

func (v *Viewer) UnsetSegmentColor(id uint64, f LayerFilter) error {
	custom, err := v.customColors("viewer.UnsetSegmentColor", f)
	if err != nil {
		return err
	}
	custom.UnsetColor(id)
	return nil
}

func (v *Viewer) ClearCustomSegmentColors(f LayerFilter) error {
	custom, err := v.customColors("viewer.ClearCustomSegmentColors", f)
	if err != nil {
		return err
	}
	custom.Clear()
	return nil
}

// BatchUpdateSegmentColors sets all colours with a single change notification.
func (v *Viewer) BatchUpdateSegmentColors(colors map[uint64]Color, f LayerFilter) error {
	const op = "viewer.BatchUpdateSegmentColors"
	rgbs := make(map[uint64]segcolor.RGB, len(colors))
	for id, c := range colors {
		rgb, err := v.checkColor(op, c)
		if err != nil {
			return err
		}
		rgbs[id] = rgb
	}
	custom, err := v.customColors(op, f)
	if err != nil {
		return err
	}
	custom.BatchUpdate(rgbs)
	return nil
}

// SetPosition moves the navigation position, given in real-space units or in
// voxels.
func (v *Viewer) SetPosition(p state.Vec3, realSpace bool) error {
	pos := v.state.Navigation().Position()
	if realSpace {
		pos.SetSpatial(p)
		return nil
	}
	if !pos.SetVoxelCoordinates(p) {
		return v.fail("viewer.SetPosition", ErrNoVoxelSize)
	}
	return nil
}
