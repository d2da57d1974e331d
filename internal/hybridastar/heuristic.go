package hybridastar

import (
	"math"

	"hybrid-planner/internal/vehicle"
)

// octileToEuclidean bounds the ratio between an 8-connected path and the straight
// line it approximates, reached at 22.5 degrees.
var octileToEuclidean = math.Cos(math.Pi / 8)

// heuristic is the larger of two lower bounds on the remaining cost.
func (s *search) heuristic(pose vehicle.Pose) float64 {
	return math.Max(s.p.rs.Cost(pose, s.goal), s.gridCost(pose))
}

// gridCost turns the goal distance field into world units. The cell distance is
// between cell centres, so one cell diagonal is taken off to cover poses anywhere
// inside the start and goal cells. Poses off the grid or cut off from the goal
// fall back to the straight-line distance.
func (s *search) gridCost(pose vehicle.Pose) float64 {
	euclidean := pose.DistanceTo(s.goal)
	cells := s.field.At(s.p.grid.WorldToCell(pose.X, pose.Y))
	if math.IsInf(cells, 1) {
		return euclidean
	}

	res := s.p.grid.Resolution()
	return math.Max(0, cells*res*octileToEuclidean-math.Sqrt2*res)
}
