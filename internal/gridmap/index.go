package gridmap

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// obstacleEntry wraps a polygon for R-tree storage.
type obstacleEntry struct {
	polygon orb.Polygon
	bbox    rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// ObstacleIndex answers "which obstacles could touch this area" for rasterisation.
type ObstacleIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewObstacleIndex indexes polygons by bounding box. Degenerate polygons with an
// empty area bounding box are skipped.
func NewObstacleIndex(polygons []orb.Polygon) *ObstacleIndex {
	tree := rtreego.NewTree(2, 25, 50)

	size := 0
	for _, polygon := range polygons {
		bbox, err := boundToRect(polygon.Bound())
		if err != nil {
			continue
		}
		tree.Insert(&obstacleEntry{polygon: polygon, bbox: bbox})
		size++
	}

	return &ObstacleIndex{tree: tree, size: size}
}

// Len returns the number of indexed polygons.
func (idx *ObstacleIndex) Len() int {
	return idx.size
}

// Query returns the polygons whose bounding boxes intersect b.
func (idx *ObstacleIndex) Query(b orb.Bound) []orb.Polygon {
	rect, err := boundToRect(b)
	if err != nil {
		return nil
	}

	results := idx.tree.SearchIntersect(rect)
	polygons := make([]orb.Polygon, 0, len(results))
	for _, item := range results {
		polygons = append(polygons, item.(*obstacleEntry).polygon)
	}
	return polygons
}

func boundToRect(b orb.Bound) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{b.Min.X(), b.Min.Y()},
		[]float64{b.Max.X() - b.Min.X(), b.Max.Y() - b.Min.Y()},
	)
}

// FillPolygons blocks every cell whose interior overlaps one of the polygons and
// returns the number of cells that changed from free to blocked.
func (g *Grid) FillPolygons(polygons []orb.Polygon) int {
	polygons = dropContained(polygons)
	idx := NewObstacleIndex(polygons)
	if idx.Len() == 0 {
		return 0
	}

	var extent orb.Bound
	for i, p := range polygons {
		if i == 0 {
			extent = p.Bound()
			continue
		}
		extent = extent.Union(p.Bound())
	}

	filled := 0
	minCell, maxCell := g.cellRange(extent)
	for y := minCell.Y; y <= maxCell.Y; y++ {
		for x := minCell.X; x <= maxCell.X; x++ {
			c := Cell{X: x, Y: y}
			if !g.Walkable(c) {
				continue
			}
			cb := g.CellBound(c)
			for _, p := range idx.Query(cb) {
				if overlapsBound(p, cb) {
					g.SetBlocked(c, true)
					filled++
					break
				}
			}
		}
	}
	return filled
}
