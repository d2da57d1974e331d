package vehicle

import (
	"math"

	"github.com/golang/geo/r2"
)

// Corners returns the four corners of the vehicle footprint in world coordinates,
// ordered counter-clockwise starting at the front-left corner.
// The footprint centre sits RearToCenter ahead of the rear axle.
func (k *Kinematics) Corners(pose Pose) [4]r2.Point {
	cos, sin := math.Cos(pose.Theta), math.Sin(pose.Theta)
	center := r2.Point{
		X: pose.X + k.params.RearToCenter*cos,
		Y: pose.Y + k.params.RearToCenter*sin,
	}

	halfLength := k.params.Length / 2
	halfWidth := k.params.Width / 2
	local := [4]r2.Point{
		{X: halfLength, Y: halfWidth},
		{X: -halfLength, Y: halfWidth},
		{X: -halfLength, Y: -halfWidth},
		{X: halfLength, Y: -halfWidth},
	}

	var corners [4]r2.Point
	for i, l := range local {
		corners[i] = center.Add(r2.Point{
			X: l.X*cos - l.Y*sin,
			Y: l.X*sin + l.Y*cos,
		})
	}
	return corners
}

// FootprintSamples returns the corners followed by points spaced at most step apart
// along every footprint edge. A non-positive step yields the corners only.
func (k *Kinematics) FootprintSamples(pose Pose, step float64) []r2.Point {
	corners := k.Corners(pose)
	samples := append(make([]r2.Point, 0, 16), corners[:]...)
	if step <= 0 {
		return samples
	}

	for i := range corners {
		from, to := corners[i], corners[(i+1)%len(corners)]
		edge := to.Sub(from)
		n := int(math.Ceil(edge.Norm() / step))
		for j := 1; j < n; j++ {
			samples = append(samples, from.Add(edge.Mul(float64(j)/float64(n))))
		}
	}
	return samples
}
