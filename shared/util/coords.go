package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SphericalToCartesian converte coordenadas esféricas (raio, phi polar a partir de +Y,
// theta azimute em torno de Y) para cartesianas.
// X = r * sin(phi) * sin(theta)
// Y = r * cos(phi)
// Z = r * sin(phi) * cos(theta)
func SphericalToCartesian(radius, phi, theta float64) mgl32.Vec3 {
	sinPhi := math.Sin(phi)
	return mgl32.Vec3{
		float32(radius * sinPhi * math.Sin(theta)),
		float32(radius * math.Cos(phi)),
		float32(radius * sinPhi * math.Cos(theta)),
	}
}

// CartesianToSpherical faz o caminho inverso de SphericalToCartesian.
// Retorna raio, phi e theta. Para o vetor nulo retorna zeros.
func CartesianToSpherical(v mgl32.Vec3) (radius, phi, theta float64) {
	x, y, z := float64(v.X()), float64(v.Y()), float64(v.Z())
	radius = math.Sqrt(x*x + y*y + z*z)
	if radius == 0 {
		return 0, 0, 0
	}
	theta = math.Atan2(x, z)
	phi = math.Acos(Clamp(y/radius, -1, 1))
	return radius, phi, theta
}
