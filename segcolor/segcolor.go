// Package segcolor assigns display colours to segment ids.
package segcolor

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/signalbridge/signal"
)

type RGB struct {
	R, G, B uint8
}

// ColorHash maps segment ids to colours. Changed fires whenever the mapping
// changes.
type ColorHash interface {
	Color(id uint64) RGB
	Changed() *signal.Signal
}

// Hash derives a stable colour from the id and a seed.
type Hash struct {
	changed *signal.Signal
	seed    uint64
}

func NewHash(changed *signal.Signal) *Hash {
	return &Hash{changed: changed}
}

func (h *Hash) Changed() *signal.Signal { return h.changed }

func (h *Hash) Seed() uint64 { return h.seed }

func (h *Hash) SetSeed(seed uint64) {
	h.seed = seed
	h.changed.Dispatch()
}

func (h *Hash) Color(id uint64) RGB {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], id)
	binary.LittleEndian.PutUint64(buf[8:], h.seed)
	sum := xxhash.Sum64(buf[:])
	return RGB{R: uint8(sum), G: uint8(sum >> 8), B: uint8(sum >> 16)}
}

// Custom overrides colours for chosen segments and defers to fallback for
// the rest. It is built on the signal the fallback already dispatches, so
// listeners attached before the swap keep receiving notifications.
type Custom struct {
	changed  *signal.Signal
	fallback ColorHash
	colors   map[uint64]RGB
}

func NewCustom(changed *signal.Signal, fallback ColorHash) *Custom {
	return &Custom{
		changed:  changed,
		fallback: fallback,
		colors:   map[uint64]RGB{},
	}
}

func (c *Custom) Changed() *signal.Signal { return c.changed }

func (c *Custom) Fallback() ColorHash { return c.fallback }

func (c *Custom) Color(id uint64) RGB {
	if rgb, ok := c.colors[id]; ok {
		return rgb
	}
	return c.fallback.Color(id)
}

// Custom reports the override for id, if one is set.
func (c *Custom) Custom(id uint64) (RGB, bool) {
	rgb, ok := c.colors[id]
	return rgb, ok
}

func (c *Custom) Len() int { return len(c.colors) }

func (c *Custom) SetColor(id uint64, rgb RGB) {
	c.colors[id] = rgb
	c.changed.Dispatch()
}

func (c *Custom) UnsetColor(id uint64) {
	if _, ok := c.colors[id]; !ok {
		return
	}
	delete(c.colors, id)
	c.changed.Dispatch()
}

func (c *Custom) Clear() {
	clear(c.colors)
	c.changed.Dispatch()
}

// BatchUpdate sets every colour in colors and notifies once.
func (c *Custom) BatchUpdate(colors map[uint64]RGB) {
	for id, rgb := range colors {
		c.colors[id] = rgb
	}
	c.changed.Dispatch()
}
