package hud

import (
	"math"

	"OceanTrailer/cliente/internal/environment"
	"OceanTrailer/shared/util"
)

// Geometria do painel, em pixels de tela.
const (
	HeaderHeight = 24.0
	RowHeight    = 22.0
	LabelWidth   = 110.0
	ValueWidth   = 56.0
)

// Rect é um retângulo em pixels de tela.
type Rect struct {
	X, Y, W, H float64
}

// Contains indica se o ponto está dentro do retângulo.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Slider é um controle numérico ligado a um getter/setter.
type Slider struct {
	Name           string
	Min, Max, Step float64

	Get func() float64
	Set func(float64)
}

// Snap limita v à faixa e arredonda para o passo.
func (s *Slider) Snap(v float64) float64 {
	v = util.Clamp(v, s.Min, s.Max)
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
		// Corta o ruído de ponto flutuante para o valor exibido bater com o digitado
		v = math.Round(v*1e6) / 1e6
	}
	return util.Clamp(v, s.Min, s.Max)
}

// ValueAt converte a posição x do ponteiro sobre a trilha [left, left+width] em valor.
func (s *Slider) ValueAt(x, left, width float64) float64 {
	if width <= 0 {
		return s.Min
	}
	t := util.Clamp((x-left)/width, 0, 1)
	return s.Snap(s.Min + t*(s.Max-s.Min))
}

// Fraction é a posição relativa de v na faixa, usada para desenhar a trilha.
func (s *Slider) Fraction(v float64) float64 {
	if s.Max == s.Min {
		return 0
	}
	return util.Clamp((v-s.Min)/(s.Max-s.Min), 0, 1)
}

// Folder agrupa sliders sob um título que abre e fecha.
type Folder struct {
	Title   string
	Open    bool
	Sliders []*Slider
}

// Row é um item já posicionado: cabeçalho de pasta (Slider nil) ou slider.
type Row struct {
	Folder *Folder
	Slider *Slider
	Rect   Rect
}

// Track retorna a trilha arrastável de uma linha de slider.
func (r Row) Track() Rect {
	return Rect{
		X: r.Rect.X + LabelWidth,
		Y: r.Rect.Y + 5,
		W: r.Rect.W - LabelWidth - ValueWidth,
		H: r.Rect.H - 10,
	}
}

// Panel é o painel de debug. Guarda qual slider está sendo arrastado.
type Panel struct {
	X, Y, Width float64
	Folders     []*Folder

	active *Slider
	track  Rect
}

// NewEnvironmentPanel monta as pastas "Sky" e "Water" ligadas ao ambiente.
func NewEnvironmentPanel(env *environment.Environment) *Panel {
	sky := &Folder{Title: "Sky", Open: true, Sliders: []*Slider{
		{
			Name: "elevation", Min: environment.ElevationMin, Max: environment.ElevationMax, Step: 0.1,
			Get: func() float64 { return env.Parameters().Elevation },
			Set: env.SetElevation,
		},
		{
			Name: "azimuth", Min: environment.AzimuthMin, Max: environment.AzimuthMax, Step: 0.1,
			Get: func() float64 { return env.Parameters().Azimuth },
			Set: env.SetAzimuth,
		},
	}}
	water := &Folder{Title: "Water", Open: true, Sliders: []*Slider{
		{
			Name: "distortionScale", Min: environment.DistortionMin, Max: environment.DistortionMax, Step: 0.1,
			Get: func() float64 { return env.Parameters().DistortionScale },
			Set: env.SetDistortionScale,
		},
		{
			Name: "size", Min: environment.SizeMin, Max: environment.SizeMax, Step: 0.1,
			Get: func() float64 { return env.Parameters().Size },
			Set: env.SetSize,
		},
	}}
	return &Panel{Width: 300, Folders: []*Folder{sky, water}}
}

// Rows posiciona cabeçalhos e sliders visíveis, de cima para baixo.
func (p *Panel) Rows() []Row {
	var rows []Row
	y := p.Y
	for _, f := range p.Folders {
		rows = append(rows, Row{Folder: f, Rect: Rect{X: p.X, Y: y, W: p.Width, H: HeaderHeight}})
		y += HeaderHeight
		if !f.Open {
			continue
		}
		for _, s := range f.Sliders {
			rows = append(rows, Row{Folder: f, Slider: s, Rect: Rect{X: p.X, Y: y, W: p.Width, H: RowHeight}})
			y += RowHeight
		}
	}
	return rows
}

// Bounds é a área ocupada pelo painel.
func (p *Panel) Bounds() Rect {
	h := 0.0
	for _, r := range p.Rows() {
		h += r.Rect.H
	}
	return Rect{X: p.X, Y: p.Y, W: p.Width, H: h}
}

// Dragging indica que um slider está sendo arrastado.
func (p *Panel) Dragging() bool {
	return p.active != nil
}

// Pointer processa o ponteiro do frame. Retorna true quando o painel capturou o input
// (ponteiro sobre o painel ou arrasto em curso); nesse caso a câmera não deve recebê-lo.
func (p *Panel) Pointer(x, y float64, pressed, down bool) bool {
	if p.active != nil {
		if !down {
			p.active = nil
			return true
		}
		p.active.Set(p.active.ValueAt(x, p.track.X, p.track.W))
		return true
	}

	inside := p.Bounds().Contains(x, y)
	if !inside || !pressed {
		return inside
	}

	for _, r := range p.Rows() {
		if !r.Rect.Contains(x, y) {
			continue
		}
		if r.Slider == nil {
			r.Folder.Open = !r.Folder.Open
			return true
		}
		if t := r.Track(); t.Contains(x, y) {
			p.active, p.track = r.Slider, t
			r.Slider.Set(r.Slider.ValueAt(x, t.X, t.W))
		}
		return true
	}
	return true
}
