// Package reedsshepp computes shortest paths for a car that drives forward and
// backward with a bounded turning radius, ignoring obstacles.
//
// Paths are found by evaluating the closed-form Reeds-Shepp word families in a
// frame where the start pose is the origin and the turning radius is one. Segment
// lengths are therefore arc angles for turns and unit-radius distances for
// straights; a negative length means the segment is driven in reverse.
package reedsshepp

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"hybrid-planner/internal/vehicle"
)

// Motion is the steering state of a path segment.
type Motion int

// Segment motions.
const (
	Left Motion = iota
	Straight
	Right
)

func (m Motion) String() string {
	switch m {
	case Left:
		return "L"
	case Straight:
		return "S"
	case Right:
		return "R"
	default:
		return "?"
	}
}

// Segment is one constant-curvature piece of a path, in unit-radius terms.
type Segment struct {
	Motion Motion
	Length float64
}

// Path is a sequence of segments. Cost is the sum of absolute segment lengths in
// unit-radius terms.
type Path struct {
	Segments []Segment
	Cost     float64
}

// Word returns the motion letters of the path, with a trailing "-" on reversed
// segments, e.g. "L S R-".
func (p Path) Word() string {
	parts := make([]string, 0, len(p.Segments))
	for _, s := range p.Segments {
		w := s.Motion.String()
		if s.Length < 0 {
			w += "-"
		}
		parts = append(parts, w)
	}
	return strings.Join(parts, " ")
}

func newPath(motions []Motion, lengths ...float64) Path {
	p := Path{Segments: make([]Segment, len(lengths))}
	for i, l := range lengths {
		p.Segments[i] = Segment{Motion: motions[i], Length: l}
		p.Cost += math.Abs(l)
	}
	return p
}

// Solver evaluates Reeds-Shepp paths for a fixed turning radius.
type Solver struct {
	Radius float64
}

// NewSolver returns a solver for the given minimum turning radius.
func NewSolver(radius float64) (*Solver, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, errors.Errorf("turning radius must be positive and finite, got %v", radius)
	}
	return &Solver{Radius: radius}, nil
}

// localGoal expresses goal in the frame of start, scaled to unit radius.
func (s *Solver) localGoal(start, goal vehicle.Pose) (x, y, phi float64) {
	dx, dy := goal.X-start.X, goal.Y-start.Y
	c, sn := math.Cos(start.Theta), math.Sin(start.Theta)
	x = (c*dx + sn*dy) / s.Radius
	y = (-sn*dx + c*dy) / s.Radius
	phi = vehicle.NormalizeAngle(goal.Theta - start.Theta)
	return x, y, phi
}

// AllPaths returns every applicable candidate path from start to goal.
func (s *Solver) AllPaths(start, goal vehicle.Pose) []Path {
	x, y, phi := s.localGoal(start, goal)
	return candidates(x, y, phi)
}

// ShortestPath returns the cheapest candidate. It reports false only when no
// family applies.
func (s *Solver) ShortestPath(start, goal vehicle.Pose) (Path, bool) {
	var best Path
	found := false
	for _, p := range s.AllPaths(start, goal) {
		if !found || p.Cost < best.Cost {
			best = p
			found = true
		}
	}
	return best, found
}

// Cost returns the length in world units of the shortest path. If no family
// applies it falls back to the straight-line distance.
func (s *Solver) Cost(start, goal vehicle.Pose) float64 {
	p, ok := s.ShortestPath(start, goal)
	if !ok {
		return start.DistanceTo(goal)
	}
	return p.Cost * s.Radius
}
