package render

import rl "github.com/gen2brain/raylib-go/raylib"

// Clock lê o tempo do raylib (segundos desde InitWindow). Satisfaz clock.Clock.
type Clock struct{}

func (Clock) Elapsed() float64 {
	return rl.GetTime()
}
