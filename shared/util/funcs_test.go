package util

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi float64
		want      float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{-5, -5, 90, -5},
	}

	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	tests := []mgl32.Vec3{
		{0, 0, 4},
		{1, 2, 3},
		{-3, 0.5, -2},
	}

	for _, v := range tests {
		r, phi, theta := CartesianToSpherical(v)
		got := SphericalToCartesian(r, phi, theta)
		if !got.ApproxEqualThreshold(v, 1e-5) {
			t.Errorf("round trip de %v = %v", v, got)
		}
	}
}

func TestSphericalToCartesianAxes(t *testing.T) {
	up := SphericalToCartesian(1, 0, 0)
	if !up.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6) {
		t.Errorf("phi=0 deveria apontar para +Y, obtido %v", up)
	}

	front := SphericalToCartesian(1, math.Pi/2, 0)
	if !front.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-6) {
		t.Errorf("phi=90°, theta=0 deveria apontar para +Z, obtido %v", front)
	}
}
