// Package gridsearch is a plain A* search over an 8-connected occupancy grid.
// Besides point-to-point search it can run the same expansion backward from a
// goal to produce a distance field, which the hybrid planner uses as an
// obstacle-aware heuristic.
package gridsearch

import (
	"math"

	"hybrid-planner/internal/gridmap"
	"hybrid-planner/internal/openset"
)

// Result describes a successful grid search. Costs are in cells.
type Result struct {
	Path     []gridmap.Cell
	Cost     float64
	Expanded int
}

// Search finds the cheapest 8-connected path from start to goal with A* and a
// Euclidean heuristic. It returns false when either endpoint is blocked or out of
// bounds, or when the open set is exhausted.
func Search(grid *gridmap.Grid, start, goal gridmap.Cell) (Result, bool) {
	if !grid.Walkable(start) || !grid.Walkable(goal) {
		return Result{}, false
	}

	heuristic := func(c gridmap.Cell) float64 { return euclidean(c, goal) }
	s := newSearch(grid)
	s.push(start, 0, heuristic(start), -1)

	for s.open.Len() > 0 {
		current := s.pop()
		if current.cell == goal {
			return Result{
				Path:     s.reconstruct(current),
				Cost:     current.g,
				Expanded: s.expanded,
			}, true
		}
		s.expand(current, heuristic)
	}

	return Result{Expanded: s.expanded}, false
}

// node is one entry of the search arena. parent is an arena index, -1 for the root.
type node struct {
	cell   gridmap.Cell
	id     int
	g      float64
	h      float64
	parent int
}

type search struct {
	grid     *gridmap.Grid
	nodes    []*node
	open     openset.Set
	visited  []int // arena index per grid cell, -1 when unseen
	closed   []bool
	expanded int
}

func newSearch(grid *gridmap.Grid) *search {
	size := grid.Width() * grid.Height()
	visited := make([]int, size)
	for i := range visited {
		visited[i] = -1
	}
	return &search{
		grid:    grid,
		visited: visited,
		closed:  make([]bool, size),
	}
}

func (s *search) cellIndex(c gridmap.Cell) int {
	return c.Y*s.grid.Width() + c.X
}

func (s *search) push(c gridmap.Cell, g, h float64, parent int) {
	n := &node{
		cell:   c,
		id:     len(s.nodes),
		g:      g,
		h:      h,
		parent: parent,
	}
	s.nodes = append(s.nodes, n)
	s.visited[s.cellIndex(c)] = n.id
	s.open.Push(n.id, g+h)
}

func (s *search) pop() *node {
	n := s.nodes[s.open.Pop()]
	s.closed[s.cellIndex(n.cell)] = true
	s.expanded++
	return n
}

// expand relaxes every walkable neighbour of a settled node. Closed cells are
// never reopened.
func (s *search) expand(current *node, heuristic func(gridmap.Cell) float64) {
	for _, edge := range Neighbors(s.grid, current.cell) {
		ci := s.cellIndex(edge.To)
		if s.closed[ci] {
			continue
		}

		tentativeG := current.g + edge.Cost
		if id := s.visited[ci]; id >= 0 {
			neighbor := s.nodes[id]
			if tentativeG < neighbor.g {
				neighbor.g = tentativeG
				neighbor.parent = current.id
				s.open.Update(id, tentativeG+neighbor.h)
			}
			continue
		}
		s.push(edge.To, tentativeG, heuristic(edge.To), current.id)
	}
}

func (s *search) reconstruct(n *node) []gridmap.Cell {
	var path []gridmap.Cell
	for id := n.id; id >= 0; id = s.nodes[id].parent {
		path = append(path, s.nodes[id].cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func euclidean(a, b gridmap.Cell) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
