package osmreader

import "github.com/paulmach/orb"

// Node is the subset of an OSM node cosmogony keeps in memory: its
// coordinate and, for label/admin_center members, its own tags.
type Node struct {
	ID   int64
	Pt   orb.Point
	Tags map[string]string
}

// ResolvedRelation is a boundary=administrative relation with every way
// and node it transitively references already resolved to coordinates,
// per spec.md §4.1.
type ResolvedRelation struct {
	ID     int64
	Offset int // pass-1 file-offset ordinal, used for deterministic iteration order
	Tags   map[string]string

	OuterRings []orb.Ring
	InnerRings []orb.Ring

	LabelNode       *Node
	AdminCenterNode *Node

	// RingAssemblyFailed is true when the outer rings could not be
	// closed after best-effort concatenation; the relation is dropped
	// by the Zone Builder but still counted.
	RingAssemblyFailed bool

	// pendingOuter/pendingInner hold each member way's resolved
	// coordinate sequence before ring assembly stitches them together.
	pendingOuter []segment
	pendingInner []segment
}
