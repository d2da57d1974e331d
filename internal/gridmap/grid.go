// Package gridmap holds the binary occupancy grid the planners search over,
// the mapping between world coordinates and grid cells, and the tooling that
// turns obstacle polygons into blocked cells.
package gridmap

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Cell is a discrete grid coordinate. X grows with world x, Y with world y.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid is a width x height array of walkable flags anchored at a world origin.
// Cell (0, 0) covers [originX, originX+resolution) x [originY, originY+resolution).
// A Grid must not be mutated while a planner is reading it.
type Grid struct {
	width      int
	height     int
	resolution float64
	origin     orb.Point
	blocked    []bool
}

// New returns a fully walkable grid.
func New(width, height int, resolution float64, origin orb.Point) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	if resolution <= 0 || math.IsInf(resolution, 0) || math.IsNaN(resolution) {
		return nil, errors.Errorf("grid resolution must be positive and finite, got %v", resolution)
	}
	return &Grid{
		width:      width,
		height:     height,
		resolution: resolution,
		origin:     origin,
		blocked:    make([]bool, width*height),
	}, nil
}

// Parse builds a grid from text rows, '#' marking a blocked cell. The first row is
// the highest y, so the text reads like a map.
func Parse(rows []string, resolution float64, origin orb.Point) (*Grid, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows to parse")
	}
	width := len(rows[0])
	g, err := New(width, len(rows), resolution, origin)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != width {
			return nil, errors.Errorf("row %d has %d cells, expected %d", i, len(row), width)
		}
		y := len(rows) - 1 - i
		for x, r := range row {
			if r == '#' {
				g.SetBlocked(Cell{X: x, Y: y}, true)
			}
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Resolution returns the side length of a cell in world units.
func (g *Grid) Resolution() float64 { return g.resolution }

// Origin returns the world position of the lower-left grid corner.
func (g *Grid) Origin() orb.Point { return g.origin }

// Bound returns the world-space extent of the grid.
func (g *Grid) Bound() orb.Bound {
	return orb.Bound{
		Min: g.origin,
		Max: orb.Point{
			g.origin.X() + float64(g.width)*g.resolution,
			g.origin.Y() + float64(g.height)*g.resolution,
		},
	}
}

// InBounds reports whether c lies in [0, width) x [0, height).
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// Walkable reports whether c is inside the grid and not blocked.
func (g *Grid) Walkable(c Cell) bool {
	return g.InBounds(c) && !g.blocked[g.index(c)]
}

// SetBlocked marks c as blocked or free. Cells outside the grid are ignored.
func (g *Grid) SetBlocked(c Cell, blocked bool) {
	if g.InBounds(c) {
		g.blocked[g.index(c)] = blocked
	}
}

// WorldToCell returns the cell containing the world point (x, y). The result may be
// out of bounds; callers check with InBounds or Walkable.
func (g *Grid) WorldToCell(x, y float64) Cell {
	return Cell{
		X: int(math.Floor((x - g.origin.X()) / g.resolution)),
		Y: int(math.Floor((y - g.origin.Y()) / g.resolution)),
	}
}

// CellCenter returns the world position of the centre of c.
func (g *Grid) CellCenter(c Cell) orb.Point {
	return orb.Point{
		g.origin.X() + (float64(c.X)+0.5)*g.resolution,
		g.origin.Y() + (float64(c.Y)+0.5)*g.resolution,
	}
}

// CellBound returns the world-space square covered by c.
func (g *Grid) CellBound(c Cell) orb.Bound {
	minX := g.origin.X() + float64(c.X)*g.resolution
	minY := g.origin.Y() + float64(c.Y)*g.resolution
	return orb.Bound{
		Min: orb.Point{minX, minY},
		Max: orb.Point{minX + g.resolution, minY + g.resolution},
	}
}

// FillRect blocks every cell whose interior overlaps the world rectangle b.
func (g *Grid) FillRect(b orb.Bound) {
	minCell, maxCell := g.cellRange(b)
	for y := minCell.Y; y <= maxCell.Y; y++ {
		for x := minCell.X; x <= maxCell.X; x++ {
			c := Cell{X: x, Y: y}
			cb := g.CellBound(c)
			if cb.Min.X() < b.Max.X() && cb.Max.X() > b.Min.X() &&
				cb.Min.Y() < b.Max.Y() && cb.Max.Y() > b.Min.Y() {
				g.SetBlocked(c, true)
			}
		}
	}
}

// FreeCells counts the walkable cells.
func (g *Grid) FreeCells() int {
	free := 0
	for _, b := range g.blocked {
		if !b {
			free++
		}
	}
	return free
}

// String renders the grid in the format accepted by Parse.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := g.height - 1; y >= 0; y-- {
		for x := 0; x < g.width; x++ {
			if g.blocked[g.index(Cell{X: x, Y: y})] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// cellRange returns the in-bounds cells spanned by b, inclusive.
// An empty range has minCell beyond maxCell.
func (g *Grid) cellRange(b orb.Bound) (Cell, Cell) {
	minCell := g.WorldToCell(b.Min.X(), b.Min.Y())
	maxCell := g.WorldToCell(b.Max.X(), b.Max.Y())
	minCell.X, minCell.Y = max(minCell.X, 0), max(minCell.Y, 0)
	maxCell.X, maxCell.Y = min(maxCell.X, g.width-1), min(maxCell.Y, g.height-1)
	return minCell, maxCell
}

func (g *Grid) index(c Cell) int {
	return c.Y*g.width + c.X
}
