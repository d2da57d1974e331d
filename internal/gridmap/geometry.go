package gridmap

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// segmentsCross reports whether segments p1p2 and p3p4 cross at a single point
// interior to both. Touching and collinear overlaps do not count.
func segmentsCross(p1, p2, p3, p4 orb.Point) bool {
	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// direction is the cross product of (p3-p1) and (p2-p1).
func direction(p1, p2, p3 orb.Point) float64 {
	return (p3.X()-p1.X())*(p2.Y()-p1.Y()) - (p2.X()-p1.X())*(p3.Y()-p1.Y())
}

// overlapsBound reports whether the interior of poly overlaps the interior of the
// axis-aligned square b. Shared edges alone do not count as overlap.
func overlapsBound(poly orb.Polygon, b orb.Bound) bool {
	if len(poly) == 0 || len(poly[0]) == 0 || !poly.Bound().Intersects(b) {
		return false
	}
	if planar.PolygonContains(poly, b.Center()) {
		return true
	}

	box := b.ToRing()
	for _, ring := range poly {
		for i, v := range ring {
			if v.X() > b.Min.X() && v.X() < b.Max.X() && v.Y() > b.Min.Y() && v.Y() < b.Max.Y() {
				return true
			}
			next := ring[(i+1)%len(ring)]
			for j := 0; j+1 < len(box); j++ {
				if segmentsCross(v, next, box[j], box[j+1]) {
					return true
				}
			}
		}
	}
	return false
}

// isPolygonContainedIn reports whether every vertex of a lies inside or on b.
func isPolygonContainedIn(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 || len(a[0]) == 0 || len(b[0]) == 0 {
		return false
	}
	ab, bb := a.Bound(), b.Bound()
	if ab.Min.X() < bb.Min.X() || ab.Max.X() > bb.Max.X() ||
		ab.Min.Y() < bb.Min.Y() || ab.Max.Y() > bb.Max.Y() {
		return false
	}
	for _, v := range a[0] {
		if !planar.PolygonContains(b, v) {
			return false
		}
	}
	return true
}

// dropContained removes polygons that lie entirely inside another polygon; they
// add nothing to the occupancy and only slow down rasterisation.
func dropContained(polys []orb.Polygon) []orb.Polygon {
	if len(polys) <= 1 {
		return polys
	}

	result := make([]orb.Polygon, 0, len(polys))
	contained := make([]bool, len(polys))
	for i := range polys {
		for j := range polys {
			if i == j || contained[j] {
				continue
			}
			if isPolygonContainedIn(polys[i], polys[j]) {
				contained[i] = true
				break
			}
		}
		if !contained[i] {
			result = append(result, polys[i])
		}
	}
	return result
}
