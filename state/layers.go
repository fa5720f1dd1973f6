package state

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/signalbridge/segcolor"
	"github.com/delaneyj/signalbridge/signal"
)

// UserLayer is the loaded content of a managed layer.
type UserLayer interface {
	Scope() *signal.Scope
	URL() string
}

// ValueReporter is implemented by layers that report the value under the
// cursor.
type ValueReporter interface {
	UserLayer
	HoverValue() (any, bool)
	ValueChanged() *signal.Signal
}

// LayerManager owns the ordered layer list. LayersChanged fires on every
// membership change without saying what changed.
type LayerManager struct {
	scope   *signal.Scope
	changed *signal.Signal
	layers  []*ManagedLayer
}

func NewLayerManager(scope *signal.Scope) *LayerManager {
	lm := &LayerManager{scope: scope, changed: signal.New()}
	scope.RegisterDisposer(lm.changed.Dispose)
	return lm
}

func (lm *LayerManager) Scope() *signal.Scope { return lm.scope }

func (lm *LayerManager) Changed() *signal.Signal { return lm.changed }

// Layers returns a snapshot of the current members in order.
func (lm *LayerManager) Layers() []*ManagedLayer {
	out := make([]*ManagedLayer, len(lm.layers))
	copy(out, lm.layers)
	return out
}

// AddLayer appends a layer; layer may be nil while its content loads.
func (lm *LayerManager) AddLayer(name string, layer UserLayer) *ManagedLayer {
	m := &ManagedLayer{manager: lm, name: name, layer: layer}
	lm.layers = append(lm.layers, m)
	lm.changed.Dispatch()
	return m
}

// RemoveLayer drops the first layer called name and disposes its content.
func (lm *LayerManager) RemoveLayer(name string) bool {
	for i, m := range lm.layers {
		if m.name != name {
			continue
		}
		lm.layers = append(lm.layers[:i:i], lm.layers[i+1:]...)
		if m.layer != nil {
			m.layer.Scope().Dispose()
		}
		lm.changed.Dispatch()
		return true
	}
	return false
}

type ManagedLayer struct {
	manager *LayerManager
	name    string
	layer   UserLayer
}

func (m *ManagedLayer) Name() string { return m.name }

func (m *ManagedLayer) Layer() UserLayer { return m.layer }

// SetLayer installs loaded content; the manager reports it as a change.
func (m *ManagedLayer) SetLayer(layer UserLayer) {
	m.layer = layer
	m.manager.changed.Dispatch()
}

// SegmentSelection is the segment currently under the cursor, if any.
type SegmentSelection struct {
	changed  *signal.Signal
	segment  uint64
	has      bool
	disabled bool
}

func NewSegmentSelection() *SegmentSelection {
	return &SegmentSelection{changed: signal.New()}
}

func (s *SegmentSelection) Changed() *signal.Signal { return s.changed }

func (s *SegmentSelection) Selected() (uint64, bool) {
	return s.segment, s.has
}

func (s *SegmentSelection) Set(id uint64) {
	if s.disabled {
		return
	}
	s.segment, s.has = id, true
	s.changed.Dispatch()
}

func (s *SegmentSelection) Clear() {
	if s.disabled {
		return
	}
	s.segment, s.has = 0, false
	s.changed.Dispatch()
}

// Disable clears the selection and ignores every later Set or Clear.
func (s *SegmentSelection) Disable() {
	if s.disabled {
		return
	}
	s.Clear()
	s.disabled = true
}

func (s *SegmentSelection) Disabled() bool { return s.disabled }

type SegmentationLayer struct {
	scope          *signal.Scope
	url            string
	selection      *SegmentSelection
	visible        mapset.Set[uint64]
	visibleChanged *signal.Signal
	colorsChanged  *signal.Signal
	colors         segcolor.ColorHash
}

func NewSegmentationLayer(scope *signal.Scope, url string) *SegmentationLayer {
	l := &SegmentationLayer{
		scope:          scope,
		url:            url,
		selection:      NewSegmentSelection(),
		visible:        mapset.NewThreadUnsafeSet[uint64](),
		visibleChanged: signal.New(),
		colorsChanged:  signal.New(),
	}
	l.colors = segcolor.NewHash(l.colorsChanged)
	for _, s := range []*signal.Signal{l.selection.changed, l.visibleChanged, l.colorsChanged} {
		scope.RegisterDisposer(s.Dispose)
	}
	return l
}

func (l *SegmentationLayer) Scope() *signal.Scope { return l.scope }

func (l *SegmentationLayer) URL() string { return l.url }

func (l *SegmentationLayer) Selection() *SegmentSelection { return l.selection }

func (l *SegmentationLayer) VisibleChanged() *signal.Signal { return l.visibleChanged }

// VisibleSegments returns the shown ids. Empty means all segments are shown.
func (l *SegmentationLayer) VisibleSegments() []uint64 {
	return l.visible.ToSlice()
}

func (l *SegmentationLayer) ShowSegment(id uint64) {
	if l.visible.Add(id) {
		l.visibleChanged.Dispatch()
	}
}

func (l *SegmentationLayer) HideSegment(id uint64) {
	if l.visible.Contains(id) {
		l.visible.Remove(id)
		l.visibleChanged.Dispatch()
	}
}

// ColorsChanged is the one signal every colour hash of this layer dispatches.
func (l *SegmentationLayer) ColorsChanged() *signal.Signal { return l.colorsChanged }

func (l *SegmentationLayer) Colors() segcolor.ColorHash { return l.colors }

// SetColors swaps the colour hash. h must dispatch ColorsChanged.
func (l *SegmentationLayer) SetColors(h segcolor.ColorHash) {
	l.colors = h
	l.colorsChanged.Dispatch()
}

// ImageLayer reports the intensity under the cursor.
type ImageLayer struct {
	scope   *signal.Scope
	url     string
	changed *signal.Signal
	value   any
	has     bool
}

func NewImageLayer(scope *signal.Scope, url string) *ImageLayer {
	l := &ImageLayer{scope: scope, url: url, changed: signal.New()}
	scope.RegisterDisposer(l.changed.Dispose)
	return l
}

func (l *ImageLayer) Scope() *signal.Scope { return l.scope }

func (l *ImageLayer) URL() string { return l.url }

func (l *ImageLayer) ValueChanged() *signal.Signal { return l.changed }

func (l *ImageLayer) HoverValue() (any, bool) {
	return l.value, l.has
}

func (l *ImageLayer) SetHoverValue(v any) {
	l.value, l.has = v, true
	l.changed.Dispatch()
}

func (l *ImageLayer) ClearHoverValue() {
	l.value, l.has = nil, false
	l.changed.Dispatch()
}
