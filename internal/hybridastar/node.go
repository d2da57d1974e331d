package hybridastar

import "hybrid-planner/internal/vehicle"

// node is one lattice state in the search arena. pose is the continuous pose that
// last improved the bin, which may differ from the bin centre.
type node struct {
	pose   vehicle.Pose
	key    Key
	id     int
	g      float64
	h      float64
	parent int // arena index, -1 for the start
}
