package state

import "github.com/delaneyj/signalbridge/signal"

// Position is the point the slice views are centred on, in real-space units.
type Position struct {
	changed   *signal.Signal
	spatial   Vec3
	voxelSize Vec3
	hasVoxels bool
}

func NewPosition() *Position {
	return &Position{changed: signal.New()}
}

func (p *Position) Changed() *signal.Signal { return p.changed }

func (p *Position) Spatial() Vec3 { return p.spatial }

func (p *Position) SetSpatial(v Vec3) {
	p.spatial = v
	p.changed.Dispatch()
}

// VoxelSize is unknown until the first volume is loaded.
func (p *Position) VoxelSize() (Vec3, bool) {
	return p.voxelSize, p.hasVoxels
}

func (p *Position) SetVoxelSize(size Vec3) {
	p.voxelSize, p.hasVoxels = size, true
	p.changed.Dispatch()
}

// VoxelFromSpatial converts v to (unrounded) voxel coordinates.
func (p *Position) VoxelFromSpatial(v Vec3) (Vec3, bool) {
	if !p.hasVoxels {
		return Vec3{}, false
	}
	return v.Div(p.voxelSize), true
}

func (p *Position) VoxelCoordinates() (Vec3, bool) {
	return p.VoxelFromSpatial(p.spatial)
}

// SetVoxelCoordinates moves to v given in voxels. It reports false, and
// leaves the position alone, while the voxel size is unknown.
func (p *Position) SetVoxelCoordinates(v Vec3) bool {
	if !p.hasVoxels {
		return false
	}
	p.SetSpatial(v.Mul(p.voxelSize))
	return true
}

type Orientation struct {
	changed *signal.Signal
	value   Quat
}

func NewOrientation() *Orientation {
	return &Orientation{changed: signal.New(), value: IdentityQuat()}
}

func (o *Orientation) Changed() *signal.Signal { return o.changed }

func (o *Orientation) Value() Quat { return o.value }

func (o *Orientation) Set(q Quat) {
	o.value = q
	o.changed.Dispatch()
}

type Zoom struct {
	changed *signal.Signal
	value   float64
}

func NewZoom(value float64) *Zoom {
	return &Zoom{changed: signal.New(), value: value}
}

func (z *Zoom) Changed() *signal.Signal { return z.changed }

func (z *Zoom) Value() float64 { return z.value }

func (z *Zoom) Set(value float64) {
	z.value = value
	z.changed.Dispatch()
}

// Navigation groups position, orientation and zoom. Its own signal fires
// after any of theirs does.
type Navigation struct {
	scope       *signal.Scope
	changed     *signal.Signal
	position    *Position
	orientation *Orientation
	zoom        *Zoom
}

func NewNavigation(scope *signal.Scope) *Navigation {
	n := &Navigation{
		scope:       scope,
		changed:     signal.New(),
		position:    NewPosition(),
		orientation: NewOrientation(),
		zoom:        NewZoom(1),
	}
	for _, child := range []*signal.Signal{n.position.changed, n.orientation.changed, n.zoom.changed} {
		scope.RegisterDisposer(child.Add(n.changed.Dispatch))
	}
	scope.RegisterDisposer(n.changed.Dispose)
	return n
}

func (n *Navigation) Scope() *signal.Scope { return n.scope }

func (n *Navigation) Changed() *signal.Signal { return n.changed }

func (n *Navigation) Position() *Position { return n.position }

func (n *Navigation) Orientation() *Orientation { return n.orientation }

func (n *Navigation) Zoom() *Zoom { return n.zoom }
