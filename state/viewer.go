// Package state holds the mutable objects a viewer displays. Each exposes a
// change signal and is torn down through a signal.Scope; nothing here knows
// about streams.
package state

import "github.com/delaneyj/signalbridge/signal"

// Viewer bundles the state of one viewer instance under a root scope.
type Viewer struct {
	scope       *signal.Scope
	navigation  *Navigation
	perspective *Navigation
	mouse       *Mouse
	layers      *LayerManager
}

func NewViewer() *Viewer {
	scope := signal.NewScope()
	v := &Viewer{
		scope:       scope,
		navigation:  NewNavigation(scope.NewChild()),
		perspective: NewNavigation(scope.NewChild()),
		mouse:       NewMouse(),
		layers:      NewLayerManager(scope.NewChild()),
	}
	scope.RegisterDisposer(v.mouse.changed.Dispose)
	return v
}

func (v *Viewer) Scope() *signal.Scope { return v.scope }

// Navigation is the slice-view navigation state.
func (v *Viewer) Navigation() *Navigation { return v.navigation }

// Perspective is the 3d-view navigation state; only its zoom is independent.
func (v *Viewer) Perspective() *Navigation { return v.perspective }

func (v *Viewer) Mouse() *Mouse { return v.mouse }

func (v *Viewer) Layers() *LayerManager { return v.layers }

// NewSegmentationLayer creates a segmentation layer owned by the layer manager.
func (v *Viewer) NewSegmentationLayer(url string) *SegmentationLayer {
	return NewSegmentationLayer(v.layers.scope.NewChild(), url)
}

// NewImageLayer creates an image layer owned by the layer manager.
func (v *Viewer) NewImageLayer(url string) *ImageLayer {
	return NewImageLayer(v.layers.scope.NewChild(), url)
}

func (v *Viewer) Dispose() {
	v.scope.Dispose()
}
