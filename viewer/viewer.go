// Package viewer composes state objects into the streams and callbacks a
// user interface consumes: cursor position, navigation pose, and what is
// under the cursor in each layer.
package viewer

import (
	"github.com/rs/zerolog"

	"github.com/delaneyj/signalbridge/config"
	"github.com/delaneyj/signalbridge/rx"
	"github.com/delaneyj/signalbridge/signal"
	"github.com/delaneyj/signalbridge/state"
)

// LayerRef identifies the layer an event came from.
type LayerRef struct {
	Name string
	URL  string
}

// SegmentEvent reports the segment under the cursor in one layer. Segment is
// nil when the cursor left every segment of that layer.
type SegmentEvent struct {
	Segment *uint64
	Layer   LayerRef
}

// LayerValueEvent reports the value under the cursor in one layer. Value is
// nil when there is none.
type LayerValueEvent struct {
	Value any
	Layer LayerRef
}

type Pose struct {
	Position    state.Vec3
	Orientation state.Quat
	Zoom        float64
}

type FullPose struct {
	Pose
	PerspectiveZoom float64
}

type PositionStreams struct {
	InRealSpace rx.Observable[state.Vec3]
	InVoxels    rx.Observable[state.Vec3]
}

type NavigationStreams struct {
	Position        PositionStreams
	Orientation     rx.Observable[state.Quat]
	SliceZoom       rx.Observable[float64]
	PerspectiveZoom rx.Observable[float64]
	Full            rx.Observable[Pose]
	All             rx.Observable[FullPose]
}

// MouseStreams emit nil while the cursor is outside the image area.
type MouseStreams struct {
	InRealSpace rx.Observable[*state.Vec3]
	InVoxels    rx.Observable[*state.Vec3]
}

type Option func(*Viewer)

// WithErrorHandler sets the handler projection and callback errors are
// routed to. Without one they are dropped.
func WithErrorHandler(h func(error)) Option {
	return func(v *Viewer) { v.errorHandler = h }
}

func WithLogger(log zerolog.Logger) Option {
	return func(v *Viewer) { v.log = log }
}

// Viewer is the composition root. All pipelines are built in New and live
// until the observed state is disposed.
type Viewer struct {
	state *state.Viewer
	scope *signal.Scope

	cfg      config.Config
	composed config.Config

	errorHandler func(error)
	log          zerolog.Logger

	navigation       NavigationStreams
	mouse            MouseStreams
	layers           rx.Observable[*state.ManagedLayer]
	mouseOverSegment rx.Observable[SegmentEvent]
	layerValues      rx.Observable[LayerValueEvent]

	policies map[*state.SegmentationLayer]config.LayerPolicy
	hooks    *rx.Subscription

	plainSegments *plainHub[SegmentEvent]
	plainValues   *plainHub[LayerValueEvent]

	segmentSlot slot
	mouseSlot   slot
}

func New(st *state.Viewer, cfg config.Config, opts ...Option) (*Viewer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v := &Viewer{
		state:    st,
		scope:    st.Scope().NewChild(),
		cfg:      cfg,
		composed: cfg,
		log:      zerolog.Nop(),
		policies: map[*state.SegmentationLayer]config.LayerPolicy{},
	}
	for _, opt := range opts {
		opt(v)
	}
	if lvl, _ := cfg.Level(); v.log.GetLevel() < lvl {
		v.log = v.log.Level(lvl)
	}

	v.navigation = v.composeNavigation()
	v.mouse = v.composeMouse()
	v.layers = v.composeLayers()
	v.mouseOverSegment = v.composeMouseOverSegment()
	if cfg.TrackLayerValues {
		v.layerValues = v.composeLayerValues()
	}
	if cfg.CallbackMode == config.ModePlain {
		v.plainSegments = v.plainMouseOverSegment()
		v.plainValues = v.plainLayerValues()
	}
	v.hooks = v.composeLayerHooks()
	v.scope.RegisterDisposer(v.hooks.Unsubscribe)

	v.log.Debug().
		Str("callback_mode", string(cfg.CallbackMode)).
		Bool("custom_colors", cfg.UseCustomSegmentColors).
		Bool("layer_values", cfg.TrackLayerValues).
		Msg("viewer composed")
	return v, nil
}

func (v *Viewer) State() *state.Viewer { return v.state }

func (v *Viewer) Navigation() NavigationStreams { return v.navigation }

func (v *Viewer) MousePosition() MouseStreams { return v.mouse }

// MouseOverSegment merges the hover selection of every segmentation layer,
// each layer subscribed once no matter how often the layer list changes.
func (v *Viewer) MouseOverSegment() rx.Observable[SegmentEvent] { return v.mouseOverSegment }

// MouseOverLayerValue merges the hover value of every value-reporting layer.
func (v *Viewer) MouseOverLayerValue() (rx.Observable[LayerValueEvent], error) {
	if !v.composed.TrackLayerValues {
		return rx.Observable[LayerValueEvent]{}, ConfigurationError("viewer.MouseOverLayerValue",
			"layer value tracking is not enabled, set track_layer_values before creating the viewer")
	}
	return v.layerValues, nil
}

func (v *Viewer) SetErrorHandler(h func(error)) { v.errorHandler = h }

func (v *Viewer) Config() config.Config { return v.cfg }

// SetConfig replaces the configuration. Per-layer settings apply to layers
// discovered from now on; composition-time settings are unaffected.
func (v *Viewer) SetConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	v.cfg = cfg
	return nil
}

// LayerPolicy returns the settings captured when l was discovered.
func (v *Viewer) LayerPolicy(l *state.SegmentationLayer) (config.LayerPolicy, bool) {
	p, ok := v.policies[l]
	return p, ok
}

// Dispose tears down the observed state; every stream completes.
func (v *Viewer) Dispose() {
	v.scope.Dispose()
	v.state.Dispose()
}
