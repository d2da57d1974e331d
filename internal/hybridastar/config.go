package hybridastar

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"hybrid-planner/internal/vehicle"
)

// ErrInvalidConfig is returned, combined with the individual problems, when a
// Config cannot be used to build a Planner.
var ErrInvalidConfig = errors.New("invalid planner configuration")

// Config controls the lattice resolution, search budget, goal region and the
// motion primitives of a Planner.
type Config struct {
	// GridSize is the lattice cell edge in world units. It is independent of the
	// occupancy grid resolution.
	GridSize float64 `json:"grid_size"`
	// ThetaResolution is the number of heading bins over a full turn.
	ThetaResolution int `json:"theta_resolution"`
	// MaxIterations caps the number of expanded nodes.
	MaxIterations int     `json:"max_iterations"`
	GoalTolerance float64 `json:"goal_tolerance"`
	// AngleTolerance is in radians.
	AngleTolerance float64 `json:"angle_tolerance"`
	// StepTime is the integration step of one primitive, in seconds.
	StepTime    float64 `json:"step_time"`
	MotionSpeed float64 `json:"motion_speed"`
	// PrimitiveCount must be odd so that one primitive drives straight.
	PrimitiveCount int `json:"primitive_count"`
	// FootprintSampleStep, when positive, checks points every this many world
	// units along the footprint edges instead of only its corners.
	FootprintSampleStep float64        `json:"footprint_sample_step"`
	Vehicle             vehicle.Params `json:"vehicle"`
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		GridSize:        1.0,
		ThetaResolution: 72,
		MaxIterations:   10000,
		GoalTolerance:   2.0,
		AngleTolerance:  math.Pi / 6,
		StepTime:        1.0,
		MotionSpeed:     2.0,
		PrimitiveCount:  7,
		Vehicle:         vehicle.DefaultParams(),
	}
}

// Validate returns nil or an error matching ErrInvalidConfig that lists every
// problem found.
func (c Config) Validate() error {
	var err error
	if c.GridSize <= 0 {
		err = multierr.Append(err, errors.Errorf("grid_size must be positive, got %v", c.GridSize))
	}
	if c.ThetaResolution <= 0 {
		err = multierr.Append(err, errors.Errorf("theta_resolution must be positive, got %d", c.ThetaResolution))
	}
	if c.MaxIterations <= 0 {
		err = multierr.Append(err, errors.Errorf("max_iterations must be positive, got %d", c.MaxIterations))
	}
	if c.GoalTolerance <= 0 {
		err = multierr.Append(err, errors.Errorf("goal_tolerance must be positive, got %v", c.GoalTolerance))
	}
	if c.AngleTolerance <= 0 {
		err = multierr.Append(err, errors.Errorf("angle_tolerance must be positive, got %v", c.AngleTolerance))
	}
	if c.StepTime <= 0 {
		err = multierr.Append(err, errors.Errorf("step_time must be positive, got %v", c.StepTime))
	}
	if c.MotionSpeed <= 0 {
		err = multierr.Append(err, errors.Errorf("motion_speed must be positive, got %v", c.MotionSpeed))
	}
	if c.PrimitiveCount <= 0 || c.PrimitiveCount%2 == 0 {
		err = multierr.Append(err, errors.Errorf("primitive_count must be a positive odd number, got %d", c.PrimitiveCount))
	}
	if c.FootprintSampleStep < 0 {
		err = multierr.Append(err, errors.Errorf("footprint_sample_step must not be negative, got %v", c.FootprintSampleStep))
	}
	if verr := c.Vehicle.Validate(); verr != nil {
		err = multierr.Append(err, errors.Wrap(verr, "vehicle"))
	}

	if err != nil {
		return multierr.Combine(ErrInvalidConfig, err)
	}
	return nil
}
