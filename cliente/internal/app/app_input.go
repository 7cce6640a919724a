package app

import (
	"OceanTrailer/cliente/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// updateInput processa teclado e ponteiro. O painel tem prioridade sobre a câmera.
func (a *App) updateInput() {
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	mouse := rl.GetMousePosition()
	pressed := rl.IsMouseButtonPressed(rl.MouseLeftButton)
	down := rl.IsMouseButtonDown(rl.MouseLeftButton)

	captured := false
	if a.Config.ShowDebugInfo {
		captured = a.trailer.Panel().Pointer(float64(mouse.X), float64(mouse.Y), pressed, down)
	}
	if pressed {
		a.pressOnPanel = captured
	}
	if !down {
		a.pressOnPanel = false
	}
	if captured || a.pressOnPanel {
		return
	}

	var in camera.Input
	delta := rl.GetMouseDelta()
	if down {
		in.RotateX, in.RotateY = delta.X, delta.Y
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		in.PanX, in.PanY = delta.X, delta.Y
	}
	in.Wheel = rl.GetMouseWheelMove()

	if !in.IsZero() {
		a.trailer.Camera().Feed(in)
	}
}
