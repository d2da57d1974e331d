package reedsshepp

import (
	"math"

	"hybrid-planner/internal/vehicle"
)

const (
	eps      = 1e-10
	halfPi   = math.Pi / 2
	maxWords = 48
)

var (
	wordLRL   = []Motion{Left, Right, Left}
	wordRLR   = []Motion{Right, Left, Right}
	wordLRLR  = []Motion{Left, Right, Left, Right}
	wordRLRL  = []Motion{Right, Left, Right, Left}
	wordLRSL  = []Motion{Left, Right, Straight, Left}
	wordRLSR  = []Motion{Right, Left, Straight, Right}
	wordLSRL  = []Motion{Left, Straight, Right, Left}
	wordRSLR  = []Motion{Right, Straight, Left, Right}
	wordLRSR  = []Motion{Left, Right, Straight, Right}
	wordRLSL  = []Motion{Right, Left, Straight, Left}
	wordRSRL  = []Motion{Right, Straight, Right, Left}
	wordLSLR  = []Motion{Left, Straight, Left, Right}
	wordLSR   = []Motion{Left, Straight, Right}
	wordRSL   = []Motion{Right, Straight, Left}
	wordLSL   = []Motion{Left, Straight, Left}
	wordRSR   = []Motion{Right, Straight, Right}
	wordLRSLR = []Motion{Left, Right, Straight, Left, Right}
	wordRLSRL = []Motion{Right, Left, Straight, Right, Left}
)

// family solves one base word for a unit-radius goal (x, y, phi). The returned
// parameters are only meaningful when ok is true.
type family func(x, y, phi float64) (t, u, v float64, ok bool)

// lengths maps family parameters onto the segment lengths of a word.
type lengths func(t, u, v float64) []float64

func tuv(t, u, v float64) []float64 { return []float64{t, u, v} }
func vut(t, u, v float64) []float64 { return []float64{v, u, t} }

func mod2pi(a float64) float64 {
	return vehicle.NormalizeAngle(a)
}

// polar returns the radius and angle of (x, y), with angle 0 at the origin.
func polar(x, y float64) (r, theta float64) {
	r = math.Hypot(x, y)
	if r == 0 {
		return 0, 0
	}
	return r, math.Atan2(y, x)
}

func tauOmega(u, v, xi, eta, phi float64) (tau, omega float64) {
	delta := mod2pi(u - v)
	a := math.Sin(u) - math.Sin(delta)
	b := math.Cos(u) - math.Cos(delta) - 1
	t1 := math.Atan2(eta*a-xi*b, xi*a+eta*b)
	t2 := 2*(math.Cos(delta)-math.Cos(v)-math.Cos(u)) + 3
	if t2 < 0 {
		tau = mod2pi(t1 + math.Pi)
	} else {
		tau = mod2pi(t1)
	}
	omega = mod2pi(tau - u + v - phi)
	return tau, omega
}

// lpSpLp is formula 8.1.
func lpSpLp(x, y, phi float64) (t, u, v float64, ok bool) {
	u, t = polar(x-math.Sin(phi), y-1+math.Cos(phi))
	if t < -eps {
		return 0, 0, 0, false
	}
	v = mod2pi(phi - t)
	return t, u, v, v >= -eps
}

// lpSpRp is formula 8.2.
func lpSpRp(x, y, phi float64) (t, u, v float64, ok bool) {
	u1, t1 := polar(x+math.Sin(phi), y-1-math.Cos(phi))
	u1 *= u1
	if u1 < 4 {
		return 0, 0, 0, false
	}
	u = math.Sqrt(u1 - 4)
	t = mod2pi(t1 + math.Atan2(2, u))
	v = mod2pi(t - phi)
	return t, u, v, t >= -eps && v >= -eps
}

// lpRmL is formula 8.3.
func lpRmL(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x - math.Sin(phi)
	eta := y - 1 + math.Cos(phi)
	u1, theta := polar(xi, eta)
	if u1 > 4 {
		return 0, 0, 0, false
	}
	u = -2 * math.Asin(0.25*u1)
	t = mod2pi(theta + 0.5*u + math.Pi)
	v = mod2pi(phi - t + u)
	return t, u, v, t >= -eps && u <= eps
}

// lpRupLumRm is formula 8.7.
func lpRupLumRm(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x + math.Sin(phi)
	eta := y - 1 - math.Cos(phi)
	rho := 0.25 * (2 + math.Hypot(xi, eta))
	if rho > 1 {
		return 0, 0, 0, false
	}
	u = math.Acos(rho)
	t, v = tauOmega(u, -u, xi, eta, phi)
	return t, u, v, t >= -eps && v <= eps
}

// lpRumLumRp is formula 8.8.
func lpRumLumRp(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x + math.Sin(phi)
	eta := y - 1 - math.Cos(phi)
	rho := (20 - xi*xi - eta*eta) / 16
	if rho < 0 || rho > 1 {
		return 0, 0, 0, false
	}
	u = -math.Acos(rho)
	if u < -halfPi {
		return 0, 0, 0, false
	}
	t, v = tauOmega(u, u, xi, eta, phi)
	return t, u, v, t >= -eps && v >= -eps
}

// lpRmSmLm is formula 8.9.
func lpRmSmLm(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x - math.Sin(phi)
	eta := y - 1 + math.Cos(phi)
	rho, theta := polar(xi, eta)
	if rho < 2 {
		return 0, 0, 0, false
	}
	r := math.Sqrt(rho*rho - 4)
	u = 2 - r
	t = mod2pi(theta + math.Atan2(r, -2))
	v = mod2pi(phi - halfPi - t)
	return t, u, v, t >= -eps && u <= eps && v <= eps
}

// lpRmSmRm is formula 8.10.
func lpRmSmRm(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x + math.Sin(phi)
	eta := y - 1 - math.Cos(phi)
	rho, theta := polar(-eta, xi)
	if rho < 2 {
		return 0, 0, 0, false
	}
	t = theta
	u = 2 - rho
	v = mod2pi(t + halfPi - phi)
	return t, u, v, t >= -eps && u <= eps && v <= eps
}

// lpRmSLmRp is formula 8.11.
func lpRmSLmRp(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x + math.Sin(phi)
	eta := y - 1 - math.Cos(phi)
	rho, _ := polar(xi, eta)
	if rho < 2 {
		return 0, 0, 0, false
	}
	u = 4 - math.Sqrt(rho*rho-4)
	if u > eps {
		return 0, 0, 0, false
	}
	t = mod2pi(math.Atan2((4-u)*xi-2*eta, -2*xi+(u-4)*eta))
	v = mod2pi(t - phi)
	return t, u, v, t >= -eps && v >= -eps
}

type collector struct {
	paths []Path
}

// symmetric evaluates f on the goal and on its timeflip, reflect, and combined
// images. Timeflipped solutions have every segment negated; reflected ones use
// the mirrored word.
func (c *collector) symmetric(f family, x, y, phi float64, word, mirrored []Motion, lay lengths) {
	images := []struct {
		x, y, phi float64
		sign      float64
		word      []Motion
	}{
		{x, y, phi, 1, word},
		{-x, y, -phi, -1, word},
		{x, -y, -phi, 1, mirrored},
		{-x, -y, phi, -1, mirrored},
	}
	for _, im := range images {
		t, u, v, ok := f(im.x, im.y, im.phi)
		if !ok {
			continue
		}
		ls := lay(t, u, v)
		for i := range ls {
			ls[i] *= im.sign
		}
		c.paths = append(c.paths, newPath(im.word, ls...))
	}
}

// candidates returns every applicable path to the unit-radius goal (x, y, phi).
func candidates(x, y, phi float64) []Path {
	c := &collector{paths: make([]Path, 0, maxWords)}

	// backwards words are solved on the reversed problem
	xb := x*math.Cos(phi) + y*math.Sin(phi)
	yb := x*math.Sin(phi) - y*math.Cos(phi)

	// CSC
	c.symmetric(lpSpLp, x, y, phi, wordLSL, wordRSR, tuv)
	c.symmetric(lpSpRp, x, y, phi, wordLSR, wordRSL, tuv)

	// CCC
	c.symmetric(lpRmL, x, y, phi, wordLRL, wordRLR, tuv)
	c.symmetric(lpRmL, xb, yb, phi, wordLRL, wordRLR, vut)

	// CCCC
	c.symmetric(lpRupLumRm, x, y, phi, wordLRLR, wordRLRL, func(t, u, v float64) []float64 {
		return []float64{t, u, -u, v}
	})
	c.symmetric(lpRumLumRp, x, y, phi, wordLRLR, wordRLRL, func(t, u, v float64) []float64 {
		return []float64{t, u, u, v}
	})

	// CCSC
	turnFirst := func(t, u, v float64) []float64 { return []float64{t, -halfPi, u, v} }
	turnLast := func(t, u, v float64) []float64 { return []float64{v, u, -halfPi, t} }
	c.symmetric(lpRmSmLm, x, y, phi, wordLRSL, wordRLSR, turnFirst)
	c.symmetric(lpRmSmRm, x, y, phi, wordLRSR, wordRLSL, turnFirst)
	c.symmetric(lpRmSmLm, xb, yb, phi, wordLSRL, wordRSLR, turnLast)
	c.symmetric(lpRmSmRm, xb, yb, phi, wordRSRL, wordLSLR, turnLast)

	// CCSCC
	c.symmetric(lpRmSLmRp, x, y, phi, wordLRSLR, wordRLSRL, func(t, u, v float64) []float64 {
		return []float64{t, -halfPi, u, -halfPi, v}
	})

	return c.paths
}
