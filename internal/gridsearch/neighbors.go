package gridsearch

import (
	"math"

	"hybrid-planner/internal/gridmap"
)

// Edge is a move to an adjacent cell. Cost is 1 for axis moves and √2 for diagonals.
type Edge struct {
	To   gridmap.Cell
	Cost float64
}

var moves = [8]struct {
	dx, dy int
	cost   float64
}{
	{0, 1, 1},
	{1, 0, 1},
	{0, -1, 1},
	{-1, 0, 1},
	{1, 1, math.Sqrt2},
	{1, -1, math.Sqrt2},
	{-1, 1, math.Sqrt2},
	{-1, -1, math.Sqrt2},
}

// Neighbors returns the walkable 8-connected neighbours of c. Diagonal moves are
// allowed even when both orthogonal cells beside them are blocked.
func Neighbors(grid *gridmap.Grid, c gridmap.Cell) []Edge {
	edges := make([]Edge, 0, len(moves))
	for _, m := range moves {
		next := gridmap.Cell{X: c.X + m.dx, Y: c.Y + m.dy}
		if grid.Walkable(next) {
			edges = append(edges, Edge{To: next, Cost: m.cost})
		}
	}
	return edges
}
