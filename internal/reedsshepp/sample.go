package reedsshepp

import (
	"math"

	"hybrid-planner/internal/vehicle"
)

// PathPoints samples path from start every step world units. The first pose is
// start and each segment ends exactly on its end pose. A non-positive step
// yields only the segment end poses.
func (s *Solver) PathPoints(start vehicle.Pose, path Path, step float64) []vehicle.Pose {
	points := []vehicle.Pose{start}
	current := start

	for _, seg := range path.Segments {
		total := math.Abs(seg.Length) * s.Radius
		direction := 1.0
		if seg.Length < 0 {
			direction = -1
		}

		if step > 0 {
			for d := step; d < total-1e-9; d += step {
				points = append(points, s.advance(current, seg.Motion, direction*d/s.Radius))
			}
		}
		current = s.advance(current, seg.Motion, seg.Length)
		points = append(points, current)
	}
	return points
}

// advance moves p along one motion by length, given in unit-radius terms.
func (s *Solver) advance(p vehicle.Pose, m Motion, length float64) vehicle.Pose {
	r := s.Radius
	sin, cos := math.Sin(p.Theta), math.Cos(p.Theta)

	switch m {
	case Left:
		return vehicle.Pose{
			X:     p.X + r*(math.Sin(p.Theta+length)-sin),
			Y:     p.Y + r*(cos-math.Cos(p.Theta+length)),
			Theta: vehicle.NormalizeAngle(p.Theta + length),
		}
	case Right:
		return vehicle.Pose{
			X:     p.X + r*(sin-math.Sin(p.Theta-length)),
			Y:     p.Y + r*(math.Cos(p.Theta-length)-cos),
			Theta: vehicle.NormalizeAngle(p.Theta - length),
		}
	default:
		return vehicle.Pose{
			X:     p.X + r*length*cos,
			Y:     p.Y + r*length*sin,
			Theta: p.Theta,
		}
	}
}
