// Package terrain generates island shapes: a control curve of radii and
// heights around the island, and the closed triangle mesh derived from it.
package terrain

import "math"

// ControlCurve holds radius and height samples at equal angular steps
// (angle i = 2π·i/N). Index arithmetic wraps modulo N.
type ControlCurve struct {
	Radius []float64
	Height []float64
}

// Len returns the number of control points.
func (c ControlCurve) Len() int {
	return len(c.Radius)
}

// Angle returns the angle of control point i.
func (c ControlCurve) Angle(i int) float64 {
	return 2 * math.Pi * float64(i) / float64(c.Len())
}

// SampleRadius evaluates the radius at any angle.
func (c ControlCurve) SampleRadius(theta float64) float64 {
	return sample(c.Radius, theta)
}

// SampleHeight evaluates the height at any angle.
func (c ControlCurve) SampleHeight(theta float64) float64 {
	return sample(c.Height, theta)
}

// MaxRadius returns the largest control radius.
func (c ControlCurve) MaxRadius() float64 {
	return maxOf(c.Radius)
}

// MaxHeight returns the largest control height.
func (c ControlCurve) MaxHeight() float64 {
	return maxOf(c.Height)
}

// sample runs Catmull-Rom over points i-1..i+2 around theta, where
// i = floor(theta/2π · N). The spline passes through every control value,
// so the curve closes without a seam at 0/2π.
func sample(values []float64, theta float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	t := theta / (2 * math.Pi) * float64(n)
	i := math.Floor(t)
	local := t - i
	i1 := int(i)

	return catmullRom(
		values[wrap(i1-1, n)],
		values[wrap(i1, n)],
		values[wrap(i1+1, n)],
		values[wrap(i1+2, n)],
		local,
	)
}

func catmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * ((2 * p1) +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func maxOf(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}
