package state

import "github.com/delaneyj/signalbridge/signal"

// Mouse tracks the cursor over the image area. It is inactive while the
// cursor is outside of it.
type Mouse struct {
	changed  *signal.Signal
	active   bool
	position Vec3
}

func NewMouse() *Mouse {
	return &Mouse{changed: signal.New()}
}

func (m *Mouse) Changed() *signal.Signal { return m.changed }

func (m *Mouse) Active() bool { return m.active }

func (m *Mouse) Position() Vec3 { return m.position }

// Move places the cursor at p, in real-space units, and activates it.
func (m *Mouse) Move(p Vec3) {
	m.active, m.position = true, p
	m.changed.Dispatch()
}

func (m *Mouse) Leave() {
	m.active = false
	m.changed.Dispatch()
}
