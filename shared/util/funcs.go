package util

import "math"

// Clamp limita v ao intervalo [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp32 é a versão float32 de Clamp.
func Clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DegToRad converte graus para radianos.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
