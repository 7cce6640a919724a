package app

import (
	"fmt"

	"OceanTrailer/cliente/internal/hud"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw avança o trailer (que desenha a cena 3D) e sobrepõe o HUD.
func (a *App) draw() {
	rl.BeginDrawing()
	a.trailer.Frame()

	a.drawLoadingBar()
	if a.Config.ShowDebugInfo {
		a.drawFPS()
		a.drawPanel()
	}

	rl.EndDrawing()
}

// layoutPanel prende o painel no canto superior direito.
func (a *App) layoutPanel() {
	p := a.trailer.Panel()
	p.X = float64(rl.GetScreenWidth()) - p.Width - 10
	p.Y = 10
}

func (a *App) drawFPS() {
	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawRectangle(10, 10, 150, 50, rl.NewColor(0, 0, 0, 180))
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), 18, 15, 20, fpsColor)
	rl.DrawText(fmt.Sprintf("Mapa de ambiente: %d", a.renderer.EnvironmentGenerations()), 18, 40, 12, rl.LightGray)
}

// drawLoadingBar desenha a barra central enquanto o modelo carrega, ou o erro da carga.
func (a *App) drawLoadingBar() {
	bar := a.trailer.LoadingBar()
	if !bar.Visible() {
		return
	}

	screenWidth := int32(rl.GetScreenWidth())
	screenHeight := int32(rl.GetScreenHeight())

	barWidth := int32(400)
	barHeight := int32(30)
	barX := (screenWidth - barWidth) / 2
	barY := screenHeight/2 + 20

	if bar.Failed() {
		msg := bar.Message()
		msgWidth := rl.MeasureText(msg, 18)
		rl.DrawRectangle((screenWidth-msgWidth)/2-10, barY, msgWidth+20, barHeight, rl.NewColor(0, 0, 0, 180))
		rl.DrawText(msg, (screenWidth-msgWidth)/2, barY+6, 18, rl.Red)
		return
	}

	rl.DrawRectangle(barX, barY, barWidth, barHeight, rl.DarkGray)
	rl.DrawRectangle(barX, barY, int32(float64(barWidth)*bar.Progress()), barHeight, rl.Orange)
	rl.DrawRectangleLines(barX, barY, barWidth, barHeight, rl.White)

	status := fmt.Sprintf("%s %d%%", bar.Message(), int(bar.Progress()*100))
	statusWidth := rl.MeasureText(status, 18)
	rl.DrawText(status, (screenWidth-statusWidth)/2, barY+45, 18, rl.LightGray)
}

// drawPanel desenha as pastas "Sky" e "Water" com seus sliders.
func (a *App) drawPanel() {
	p := a.trailer.Panel()
	b := p.Bounds()
	rl.DrawRectangle(int32(b.X), int32(b.Y), int32(b.W), int32(b.H), rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(int32(b.X), int32(b.Y), int32(b.W), int32(b.H), rl.NewColor(50, 50, 50, 255))

	mouse := rl.GetMousePosition()
	hoverAny := false
	for _, r := range p.Rows() {
		hover := r.Rect.Contains(float64(mouse.X), float64(mouse.Y))
		hoverAny = hoverAny || hover
		if r.Slider == nil {
			drawHeader(r, hover)
		} else {
			drawSlider(r, hover)
		}
	}

	if hoverAny || p.Dragging() {
		rl.SetMouseCursor(rl.MouseCursorPointingHand)
	} else {
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}
}

func drawHeader(r hud.Row, hover bool) {
	x, y := int32(r.Rect.X), int32(r.Rect.Y)
	w, h := int32(r.Rect.W), int32(r.Rect.H)

	bg := rl.NewColor(30, 30, 35, 255)
	if hover {
		bg.R += 30
		bg.G += 30
		bg.B += 30
	}
	rl.DrawRectangle(x, y, w, h, bg)

	marker := "+"
	if r.Folder.Open {
		marker = "-"
	}
	rl.DrawText(fmt.Sprintf("%s %s", marker, r.Folder.Title), x+8, y+(h-14)/2, 14, rl.Gold)
	rl.DrawLine(x, y+h-1, x+w, y+h-1, rl.NewColor(100, 100, 100, 100))
}

func drawSlider(r hud.Row, hover bool) {
	s := r.Slider
	x, y := int32(r.Rect.X), int32(r.Rect.Y)
	h := int32(r.Rect.H)
	v := s.Get()

	rl.DrawText(s.Name, x+8, y+(h-12)/2, 12, rl.LightGray)

	t := r.Track()
	color := rl.SkyBlue
	if hover {
		color.R += 30
		color.G += 10
	}
	rl.DrawRectangle(int32(t.X), int32(t.Y), int32(t.W), int32(t.H), rl.NewColor(50, 50, 50, 255))
	rl.DrawRectangle(int32(t.X), int32(t.Y), int32(t.W*s.Fraction(v)), int32(t.H), color)

	rl.DrawText(fmt.Sprintf("%.1f", v), int32(t.X+t.W)+6, y+(h-12)/2, 12, rl.White)
}
