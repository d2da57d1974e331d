package gridsearch

import (
	"math"

	"hybrid-planner/internal/gridmap"
)

// Field holds the 8-connected path cost from every cell to a goal cell, in cells.
type Field struct {
	width, height int
	goal          gridmap.Cell
	dist          []float64
}

// DistanceField runs an uninformed search outward from goal over the whole grid.
// Moves are symmetric, so the cost from goal to a cell equals the cost back.
// Unreachable and blocked cells keep +Inf; a blocked goal yields an all-Inf field.
func DistanceField(grid *gridmap.Grid, goal gridmap.Cell) *Field {
	f := &Field{
		width:  grid.Width(),
		height: grid.Height(),
		goal:   goal,
		dist:   make([]float64, grid.Width()*grid.Height()),
	}
	for i := range f.dist {
		f.dist[i] = math.Inf(1)
	}
	if !grid.Walkable(goal) {
		return f
	}

	zero := func(gridmap.Cell) float64 { return 0 }
	s := newSearch(grid)
	s.push(goal, 0, 0, -1)
	for s.open.Len() > 0 {
		current := s.pop()
		f.dist[s.cellIndex(current.cell)] = current.g
		s.expand(current, zero)
	}
	return f
}

// Goal returns the cell the field was computed from.
func (f *Field) Goal() gridmap.Cell {
	return f.goal
}

// At returns the path cost from c to the goal, or +Inf when c is out of bounds,
// blocked, or disconnected from the goal.
func (f *Field) At(c gridmap.Cell) float64 {
	if c.X < 0 || c.Y < 0 || c.X >= f.width || c.Y >= f.height {
		return math.Inf(1)
	}
	return f.dist[c.Y*f.width+c.X]
}

// Reachable reports whether c has a finite distance to the goal.
func (f *Field) Reachable(c gridmap.Cell) bool {
	return !math.IsInf(f.At(c), 1)
}
