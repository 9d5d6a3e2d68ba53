package hierarchy

import (
	"cosmogony/internal/zone"

	"github.com/dhconnelly/rtreego"
)

// zoneSpatial adapts a *zone.Zone to rtreego.Spatial, the same adapter
// shape the teacher uses for its own zone/building R-tree (ZoneSpatial),
// just keyed off the cosmogony Zone instead of the game Zone.
type zoneSpatial struct {
	Zone *zone.Zone
}

// Bounds implements rtreego.Spatial.
func (z *zoneSpatial) Bounds() rtreego.Rect {
	b := z.Zone.Bound()
	minX, minY := b.Min[0], b.Min[1]
	maxX, maxY := b.Max[0], b.Max[1]

	w, h := maxX-minX, maxY-minY
	if w <= 0 {
		w = 1e-9
	}
	if h <= 0 {
		h = 1e-9
	}

	rect, _ := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{w, h})
	return rect
}
