// Package vehicle models a car-like vehicle with a kinematic bicycle model:
// how its rear-axle pose evolves under a speed and steering command, which
// motion primitives the planner branches on, and the rectangular footprint
// used for collision checks.
package vehicle

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// straightEpsilon is the steering magnitude below which motion counts as straight.
const straightEpsilon = 1e-6

// Pose is the continuous configuration of the rear axle. Theta is kept in (-pi, pi].
type Pose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// DistanceTo returns the Euclidean distance between the positions of two poses.
func (p Pose) DistanceTo(other Pose) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Control is a commanded forward speed and front-wheel steering angle.
type Control struct {
	Speed float64 `json:"speed"`
	Steer float64 `json:"steer"`
}

// Params holds the vehicle constants. All lengths are in world units (metres).
type Params struct {
	Wheelbase    float64 `json:"wheelbase"`
	MaxSteer     float64 `json:"max_steer"`
	MinSpeed     float64 `json:"min_speed"`
	MaxSpeed     float64 `json:"max_speed"`
	Length       float64 `json:"vehicle_length"`
	Width        float64 `json:"vehicle_width"`
	RearToCenter float64 `json:"rear_to_center"`
}

// DefaultParams returns a mid-size passenger car.
func DefaultParams() Params {
	return Params{
		Wheelbase:    2.5,
		MaxSteer:     math.Pi / 4,
		MinSpeed:     0.1,
		MaxSpeed:     10.0,
		Length:       4.5,
		Width:        2.0,
		RearToCenter: 1.0,
	}
}

// Validate reports every parameter that would make the model meaningless.
func (p Params) Validate() error {
	var err error
	if p.Wheelbase <= 0 {
		err = multierr.Append(err, errors.Errorf("wheelbase must be positive, got %v", p.Wheelbase))
	}
	if p.MaxSteer <= 0 || p.MaxSteer >= math.Pi/2 {
		err = multierr.Append(err, errors.Errorf("max_steer must be in (0, pi/2), got %v", p.MaxSteer))
	}
	if p.MinSpeed < 0 {
		err = multierr.Append(err, errors.Errorf("min_speed must not be negative, got %v", p.MinSpeed))
	}
	if p.MaxSpeed <= 0 || p.MaxSpeed < p.MinSpeed {
		err = multierr.Append(err, errors.Errorf("max_speed must be positive and >= min_speed, got %v", p.MaxSpeed))
	}
	if p.Length <= 0 || p.Width <= 0 {
		err = multierr.Append(err, errors.Errorf("vehicle footprint must be positive, got %vx%v", p.Length, p.Width))
	}
	return err
}

// Kinematics integrates the bicycle model for a vehicle described by Params.
type Kinematics struct {
	params Params
}

// New validates params and returns a Kinematics for them.
func New(params Params) (*Kinematics, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid vehicle parameters")
	}
	return &Kinematics{params: params}, nil
}

// Params returns the vehicle constants.
func (k *Kinematics) Params() Params {
	return k.params
}

// UpdateState advances pose by a single explicit Euler step of length dt.
// Controls are clamped first. Long horizons must be split into several small steps by the caller.
func (k *Kinematics) UpdateState(pose Pose, control Control, dt float64) Pose {
	speed := clamp(control.Speed, k.params.MinSpeed, k.params.MaxSpeed)
	steer := clamp(control.Steer, -k.params.MaxSteer, k.params.MaxSteer)

	return Pose{
		X:     pose.X + speed*math.Cos(pose.Theta)*dt,
		Y:     pose.Y + speed*math.Sin(pose.Theta)*dt,
		Theta: NormalizeAngle(pose.Theta + speed*math.Tan(steer)/k.params.Wheelbase*dt),
	}
}

// MotionPrimitives returns count controls at the given speed with steering angles
// evenly spaced over [-MaxSteer, MaxSteer]. For an odd count the middle control is
// exactly straight ahead.
func (k *Kinematics) MotionPrimitives(speed float64, count int) []Control {
	if count < 1 {
		return nil
	}
	if count == 1 {
		return []Control{{Speed: speed}}
	}
	controls := make([]Control, count)
	for i := range controls {
		controls[i] = Control{
			Speed: speed,
			Steer: k.params.MaxSteer * (float64(2*i)/float64(count-1) - 1),
		}
	}
	return controls
}

// TurningRadius returns the rear-axle turning radius for a steering angle,
// or +Inf when the vehicle is effectively driving straight.
func (k *Kinematics) TurningRadius(steer float64) float64 {
	if math.Abs(steer) < straightEpsilon {
		return math.Inf(1)
	}
	return k.params.Wheelbase / math.Tan(math.Abs(steer))
}

// MinTurningRadius is the turning radius at full steering lock.
func (k *Kinematics) MinTurningRadius() float64 {
	return k.TurningRadius(k.params.MaxSteer)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
