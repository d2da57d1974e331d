// Package hybridastar plans drivable paths for a car-like vehicle on an
// occupancy grid.
//
// The search runs A* over continuous poses but deduplicates them on a lattice of
// (x, y, heading) bins, so each bin is settled at most once. Successors come from
// integrating a fan of steering primitives for one time step, and are discarded
// when the vehicle footprint leaves the grid or touches a blocked cell. The
// heuristic is the larger of the Reeds-Shepp distance, which respects the
// turning radius, and a grid distance field, which respects obstacles.
package hybridastar

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hybrid-planner/internal/gridmap"
	"hybrid-planner/internal/gridsearch"
	"hybrid-planner/internal/openset"
	"hybrid-planner/internal/reedsshepp"
	"hybrid-planner/internal/vehicle"
)

// steeringPenalty weights the heading change of a step against its length.
const steeringPenalty = 0.5

// Key identifies a lattice bin. Two poses with the same key are the same search state.
type Key struct {
	X, Y, Theta int
}

// Outcome is how a search ended.
type Outcome int

// Search outcomes.
const (
	Succeeded Outcome = iota + 1
	Exhausted
	IterationLimitReached
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Exhausted:
		return "exhausted"
	case IterationLimitReached:
		return "iteration_limit_reached"
	default:
		return "unknown"
	}
}

// Stats are diagnostics of one Plan call.
type Stats struct {
	NodesExpanded int
	NodesVisited  int
	SearchTime    time.Duration
	PathLength    float64
	Outcome       Outcome
}

// Result is the outcome of Plan. Path runs from start to goal inclusive and is
// nil when Found is false.
type Result struct {
	Path  []vehicle.Pose
	Found bool
	Stats Stats
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithExpandHook registers fn to be called with the key of every expanded node.
func WithExpandHook(fn func(Key)) Option {
	return func(p *Planner) {
		p.onExpand = fn
	}
}

// Planner is a hybrid A* planner bound to one grid and vehicle. The grid must not
// be modified while plans are running; otherwise Plan is safe for concurrent use.
type Planner struct {
	cfg        Config
	grid       *gridmap.Grid
	kinematics *vehicle.Kinematics
	rs         *reedsshepp.Solver
	primitives []vehicle.Control
	thetaStep  float64

	logger   *zap.Logger
	onExpand func(Key)
}

// New validates cfg and returns a planner over grid.
func New(cfg Config, grid *gridmap.Grid, opts ...Option) (*Planner, error) {
	if grid == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "occupancy grid is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kinematics, err := vehicle.New(cfg.Vehicle)
	if err != nil {
		return nil, err
	}
	rs, err := reedsshepp.NewSolver(kinematics.MinTurningRadius())
	if err != nil {
		return nil, err
	}

	p := &Planner{
		cfg:        cfg,
		grid:       grid,
		kinematics: kinematics,
		rs:         rs,
		primitives: kinematics.MotionPrimitives(cfg.MotionSpeed, cfg.PrimitiveCount),
		thetaStep:  2 * math.Pi / float64(cfg.ThetaResolution),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the planner configuration.
func (p *Planner) Config() Config {
	return p.cfg
}

// Key returns the lattice bin of pose. Positions are binned relative to the grid
// origin with floor, headings from -pi.
func (p *Planner) Key(pose vehicle.Pose) Key {
	origin := p.grid.Origin()
	theta := int(math.Floor((vehicle.NormalizeAngle(pose.Theta)+math.Pi)/p.thetaStep)) % p.cfg.ThetaResolution
	if theta < 0 {
		theta += p.cfg.ThetaResolution
	}
	return Key{
		X:     int(math.Floor((pose.X - origin.X()) / p.cfg.GridSize)),
		Y:     int(math.Floor((pose.Y - origin.Y()) / p.cfg.GridSize)),
		Theta: theta,
	}
}

// Collides reports whether the vehicle footprint at pose leaves the grid or
// touches a blocked cell.
func (p *Planner) Collides(pose vehicle.Pose) bool {
	if p.cfg.FootprintSampleStep > 0 {
		for _, pt := range p.kinematics.FootprintSamples(pose, p.cfg.FootprintSampleStep) {
			if !p.grid.Walkable(p.grid.WorldToCell(pt.X, pt.Y)) {
				return true
			}
		}
		return false
	}
	for _, pt := range p.kinematics.Corners(pose) {
		if !p.grid.Walkable(p.grid.WorldToCell(pt.X, pt.Y)) {
			return true
		}
	}
	return false
}

// Plan searches for a path from start to goal. A search that exhausts the lattice
// and one that hits MaxIterations both return Found false; Stats.Outcome tells
// them apart.
func (p *Planner) Plan(start, goal vehicle.Pose) Result {
	began := time.Now()
	start.Theta = vehicle.NormalizeAngle(start.Theta)
	goal.Theta = vehicle.NormalizeAngle(goal.Theta)

	p.logger.Debug("planning",
		zap.Any("start", start),
		zap.Any("goal", goal),
		zap.Int("max_iterations", p.cfg.MaxIterations))

	s := p.newSearch(goal)
	s.push(start, p.Key(start), 0, s.heuristic(start), -1)

	var reached *node
	for s.open.Len() > 0 && s.stats.NodesExpanded < p.cfg.MaxIterations {
		current := s.pop()
		if p.reachedGoal(current.pose, goal) {
			reached = current
			break
		}

		s.stats.NodesExpanded++
		if p.onExpand != nil {
			p.onExpand(current.key)
		}
		s.expand(current)
	}

	res := Result{Stats: s.stats}
	switch {
	case reached != nil:
		res.Path = s.reconstruct(reached)
		res.Found = true
		res.Stats.Outcome = Succeeded
		res.Stats.PathLength = pathLength(res.Path)
	case s.open.Len() == 0:
		res.Stats.Outcome = Exhausted
	default:
		res.Stats.Outcome = IterationLimitReached
	}
	res.Stats.NodesVisited = len(s.visited)
	res.Stats.SearchTime = time.Since(began)

	p.logger.Info("plan finished",
		zap.Stringer("outcome", res.Stats.Outcome),
		zap.Int("nodes_expanded", res.Stats.NodesExpanded),
		zap.Int("nodes_visited", res.Stats.NodesVisited),
		zap.Duration("search_time", res.Stats.SearchTime),
		zap.Float64("path_length", res.Stats.PathLength),
		zap.Int("path_poses", len(res.Path)))

	return res
}

func (p *Planner) reachedGoal(pose, goal vehicle.Pose) bool {
	return pose.DistanceTo(goal) <= p.cfg.GoalTolerance &&
		math.Abs(vehicle.AngleDiff(pose.Theta, goal.Theta)) <= p.cfg.AngleTolerance
}

// stepCost is the travelled distance plus a penalty on the heading change.
func stepCost(from, to vehicle.Pose) float64 {
	return from.DistanceTo(to) + steeringPenalty*math.Abs(vehicle.AngleDiff(to.Theta, from.Theta))
}

func pathLength(path []vehicle.Pose) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i-1].DistanceTo(path[i])
	}
	return total
}

// search holds the state of one Plan call.
type search struct {
	p     *Planner
	goal  vehicle.Pose
	field *gridsearch.Field

	nodes   []*node
	open    openset.Set
	visited map[Key]int // arena index of the node holding each key
	closed  map[Key]bool
	stats   Stats
}

func (p *Planner) newSearch(goal vehicle.Pose) *search {
	return &search{
		p:       p,
		goal:    goal,
		field:   gridsearch.DistanceField(p.grid, p.grid.WorldToCell(goal.X, goal.Y)),
		visited: make(map[Key]int),
		closed:  make(map[Key]bool),
	}
}

func (s *search) push(pose vehicle.Pose, key Key, g, h float64, parent int) {
	n := &node{
		pose:   pose,
		key:    key,
		id:     len(s.nodes),
		g:      g,
		h:      h,
		parent: parent,
	}
	s.nodes = append(s.nodes, n)
	s.visited[key] = n.id
	s.open.Push(n.id, g+h)
}

func (s *search) pop() *node {
	n := s.nodes[s.open.Pop()]
	s.closed[n.key] = true
	return n
}

// expand applies every motion primitive to current. Successors in a closed bin or
// in collision are dropped; an open bin is updated in place only on a strictly
// cheaper arrival.
func (s *search) expand(current *node) {
	p := s.p
	for _, control := range p.primitives {
		next := p.kinematics.UpdateState(current.pose, control, p.cfg.StepTime)
		key := p.Key(next)
		if s.closed[key] {
			continue
		}
		if p.Collides(next) {
			continue
		}

		g := current.g + stepCost(current.pose, next)
		if id, ok := s.visited[key]; ok {
			n := s.nodes[id]
			if g < n.g {
				n.pose = next
				n.g = g
				n.h = s.heuristic(next)
				n.parent = current.id
				s.open.Update(id, g+n.h)
			}
			continue
		}
		s.push(next, key, g, s.heuristic(next), current.id)
	}
}

func (s *search) reconstruct(n *node) []vehicle.Pose {
	var path []vehicle.Pose
	for id := n.id; id >= 0; id = s.nodes[id].parent {
		path = append(path, s.nodes[id].pose)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
