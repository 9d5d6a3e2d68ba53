package osmreader

import "github.com/paulmach/orb"

// segment is one way's resolved node coordinates, in the order the way's
// node references appear.
type segment []orb.Point

// assembleRings implements the standard OSM multipolygon ring-assembly
// algorithm (spec.md §4.1): ways are concatenated end-to-end whenever
// their endpoints match, forming one or more closed rings. Segments that
// can't be chained into a closed ring are returned separately so the
// caller can mark the relation as a ring-assembly failure rather than
// silently dropping data.
func assembleRings(segments []segment) (closed []orb.Ring, leftover []segment) {
	remaining := make([]segment, 0, len(segments))
	for _, s := range segments {
		if len(s) >= 2 {
			remaining = append(remaining, s)
		}
	}

	for len(remaining) > 0 {
		ring := append(orb.Ring{}, remaining[0]...)
		remaining = remaining[1:]

		progress := true
		for !ringClosed(ring) && progress {
			progress = false
			for i, s := range remaining {
				if joined, ok := tryJoin(ring, s); ok {
					ring = joined
					remaining = append(remaining[:i], remaining[i+1:]...)
					progress = true
					break
				}
			}
		}

		if ringClosed(ring) && len(ring) >= 4 {
			closed = append(closed, ring)
		} else {
			leftover = append(leftover, segment(ring))
		}
	}

	return closed, leftover
}

func ringClosed(r orb.Ring) bool {
	return len(r) >= 4 && r[0] == r[len(r)-1]
}

// tryJoin attempts to extend ring with segment s at whichever end
// matches, reversing s if needed. It never mutates its inputs.
func tryJoin(ring orb.Ring, s segment) (orb.Ring, bool) {
	if len(ring) == 0 || len(s) == 0 {
		return nil, false
	}
	ringStart, ringEnd := ring[0], ring[len(ring)-1]
	segStart, segEnd := s[0], s[len(s)-1]

	switch {
	case ringEnd == segStart:
		return append(append(orb.Ring{}, ring...), s[1:]...), true
	case ringEnd == segEnd:
		return append(append(orb.Ring{}, ring...), reversed(s)[1:]...), true
	case ringStart == segEnd:
		return append(append(orb.Ring{}, s...), ring[1:]...), true
	case ringStart == segStart:
		return append(append(orb.Ring{}, reversed(s)...), ring[1:]...), true
	default:
		return nil, false
	}
}

func reversed(s segment) segment {
	out := make(segment, len(s))
	for i, p := range s {
		out[len(s)-1-i] = p
	}
	return out
}
