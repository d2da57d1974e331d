package vehicle

import (
	"math"
	"testing"

	"go.uber.org/multierr"
	"go.viam.com/test"
)

func newTestKinematics(t *testing.T) *Kinematics {
	t.Helper()
	k, err := New(DefaultParams())
	test.That(t, err, test.ShouldBeNil)
	return k
}

func TestUpdateState(t *testing.T) {
	k := newTestKinematics(t)

	t.Run("straight", func(t *testing.T) {
		next := k.UpdateState(Pose{}, Control{Speed: 2}, 1)
		test.That(t, next.X, test.ShouldAlmostEqual, 2.0)
		test.That(t, next.Y, test.ShouldAlmostEqual, 0.0)
		test.That(t, next.Theta, test.ShouldEqual, 0.0)
	})

	t.Run("full lock turns by v*tan(steer)/L", func(t *testing.T) {
		next := k.UpdateState(Pose{}, Control{Speed: 2, Steer: math.Pi / 4}, 1)
		test.That(t, next.X, test.ShouldAlmostEqual, 2.0)
		test.That(t, next.Theta, test.ShouldAlmostEqual, 0.8, 1e-9)
	})

	t.Run("controls are clamped", func(t *testing.T) {
		next := k.UpdateState(Pose{}, Control{Speed: 100, Steer: 3}, 0.1)
		test.That(t, next.X, test.ShouldAlmostEqual, 1.0, 1e-9)
		test.That(t, next.Theta, test.ShouldAlmostEqual, 10*math.Tan(math.Pi/4)/2.5*0.1, 1e-9)

		slow := k.UpdateState(Pose{}, Control{Speed: -5}, 1)
		test.That(t, slow.X, test.ShouldAlmostEqual, 0.1, 1e-9)
	})

	t.Run("heading is normalised", func(t *testing.T) {
		next := k.UpdateState(Pose{Theta: math.Pi - 0.1}, Control{Speed: 2, Steer: math.Pi / 4}, 1)
		test.That(t, next.Theta, test.ShouldAlmostEqual, math.Pi-0.1+0.8-2*math.Pi, 1e-9)
		test.That(t, next.Theta, test.ShouldBeLessThanOrEqualTo, math.Pi)
		test.That(t, next.Theta, test.ShouldBeGreaterThan, -math.Pi)
	})
}

func TestMotionPrimitives(t *testing.T) {
	k := newTestKinematics(t)

	controls := k.MotionPrimitives(2, 7)
	test.That(t, controls, test.ShouldHaveLength, 7)
	test.That(t, controls[3].Steer, test.ShouldEqual, 0.0)
	test.That(t, controls[0].Steer, test.ShouldAlmostEqual, -math.Pi/4)
	test.That(t, controls[6].Steer, test.ShouldAlmostEqual, math.Pi/4)
	for i, c := range controls {
		test.That(t, c.Speed, test.ShouldEqual, 2.0)
		test.That(t, c.Steer, test.ShouldAlmostEqual, -controls[6-i].Steer)
	}

	test.That(t, k.MotionPrimitives(2, 1), test.ShouldResemble, []Control{{Speed: 2}})
	test.That(t, k.MotionPrimitives(2, 0), test.ShouldBeNil)
}

func TestTurningRadius(t *testing.T) {
	k := newTestKinematics(t)

	test.That(t, math.IsInf(k.TurningRadius(0), 1), test.ShouldBeTrue)
	test.That(t, math.IsInf(k.TurningRadius(1e-9), 1), test.ShouldBeTrue)
	test.That(t, k.TurningRadius(math.Pi/4), test.ShouldAlmostEqual, 2.5)
	test.That(t, k.TurningRadius(-math.Pi/4), test.ShouldAlmostEqual, 2.5)
	test.That(t, k.MinTurningRadius(), test.ShouldAlmostEqual, 2.5)
}

func TestCorners(t *testing.T) {
	k := newTestKinematics(t)

	corners := k.Corners(Pose{})
	expected := [4][2]float64{{3.25, 1}, {-1.25, 1}, {-1.25, -1}, {3.25, -1}}
	for i, c := range corners {
		test.That(t, c.X, test.ShouldAlmostEqual, expected[i][0])
		test.That(t, c.Y, test.ShouldAlmostEqual, expected[i][1])
	}

	rotated := k.Corners(Pose{X: 1, Y: 1, Theta: math.Pi / 2})
	test.That(t, rotated[0].X, test.ShouldAlmostEqual, 0.0, 1e-9)
	test.That(t, rotated[0].Y, test.ShouldAlmostEqual, 4.25, 1e-9)
	test.That(t, rotated[2].X, test.ShouldAlmostEqual, 2.0, 1e-9)
	test.That(t, rotated[2].Y, test.ShouldAlmostEqual, -0.25, 1e-9)
}

func TestFootprintSamples(t *testing.T) {
	k := newTestKinematics(t)

	test.That(t, k.FootprintSamples(Pose{}, 0), test.ShouldHaveLength, 4)

	samples := k.FootprintSamples(Pose{}, 0.5)
	test.That(t, samples, test.ShouldHaveLength, 26)
	for _, s := range samples {
		onLongEdge := math.Abs(math.Abs(s.Y)-1) < 1e-9 && s.X >= -1.25-1e-9 && s.X <= 3.25+1e-9
		onShortEdge := (math.Abs(s.X-3.25) < 1e-9 || math.Abs(s.X+1.25) < 1e-9) && math.Abs(s.Y) <= 1+1e-9
		test.That(t, onLongEdge || onShortEdge, test.ShouldBeTrue)
	}
}

func TestNormalizeAngle(t *testing.T) {
	inputs := []float64{
		0, 0.1, -0.1, math.Pi, -math.Pi, 3 * math.Pi, -3 * math.Pi, 2 * math.Pi,
		math.Pi + 1e-12, -math.Pi - 1e-12, 7.5, -7.5, 1e6, -1e6, math.Nextafter(math.Pi, 4),
	}
	for _, in := range inputs {
		out := NormalizeAngle(in)
		test.That(t, out, test.ShouldBeGreaterThan, -math.Pi)
		test.That(t, out, test.ShouldBeLessThanOrEqualTo, math.Pi)
		test.That(t, NormalizeAngle(out), test.ShouldEqual, out)
		test.That(t, math.Abs(math.Remainder(out-in, 2*math.Pi)), test.ShouldBeLessThan, 1e-6)
	}
	test.That(t, NormalizeAngle(-math.Pi), test.ShouldEqual, math.Pi)
	test.That(t, NormalizeAngle(3*math.Pi/2), test.ShouldAlmostEqual, -math.Pi/2)
}

func TestAngleDiff(t *testing.T) {
	test.That(t, AngleDiff(0.5, 0.2), test.ShouldAlmostEqual, 0.3)
	test.That(t, AngleDiff(0.2, 0.5), test.ShouldAlmostEqual, -0.3)
	// continuous across the seam
	test.That(t, AngleDiff(math.Pi-0.1, -math.Pi+0.1), test.ShouldAlmostEqual, -0.2, 1e-9)
	test.That(t, AngleDiff(-math.Pi+0.1, math.Pi-0.1), test.ShouldAlmostEqual, 0.2, 1e-9)
	test.That(t, AngleDiff(math.Pi/2, -math.Pi/2), test.ShouldAlmostEqual, math.Pi)
}

func TestParamsValidate(t *testing.T) {
	test.That(t, DefaultParams().Validate(), test.ShouldBeNil)

	p := DefaultParams()
	p.Wheelbase = 0
	p.Width = -1
	err := p.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, multierr.Errors(err), test.ShouldHaveLength, 2)

	_, err = New(p)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "wheelbase")
}
