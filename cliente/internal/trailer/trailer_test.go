package trailer

import (
	"context"
	"errors"
	"math"
	"testing"

	"OceanTrailer/cliente/internal/camera"
	"OceanTrailer/cliente/internal/clock"
	"OceanTrailer/cliente/internal/environment"
	"OceanTrailer/cliente/internal/loader"
	"OceanTrailer/cliente/internal/scene"
	"OceanTrailer/shared/config"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeRenderer struct {
	built       []string
	regenerated int
	waterTime   float32
	renders     int
	resizes     [][2]int
	modelErr    error
	modelPanic  bool
	loaded      []loader.Fragment
}

func (f *fakeRenderer) SetSkyParameters(environment.SkyParameters) {}
func (f *fakeRenderer) SetSunPosition(mgl32.Vec3) {}
func (f *fakeRenderer) SetWaterSunDirection(mgl32.Vec3) {}
func (f *fakeRenderer) SetWaterDistortionScale(float32) {}
func (f *fakeRenderer) SetWaterSize(float32) {}
func (f *fakeRenderer) RegenerateEnvironmentMap() { f.regenerated++ }
func (f *fakeRenderer) SetWaterTime(t float32) { f.waterTime = t }
func (f *fakeRenderer) Resize(w, h int) { f.resizes = append(f.resizes, [2]int{w, h}) }
func (f *fakeRenderer) Render(*scene.Graph, *camera.CameraController) { f.renders++ }

func (f *fakeRenderer) Build(n *scene.Node) error {
	f.built = append(f.built, n.Name)
	return nil
}

func (f *fakeRenderer) LoadModel(frag loader.Fragment) (any, error) {
	if f.modelPanic {
		panic("modelo corrompido")
	}
	if f.modelErr != nil {
		return nil, f.modelErr
	}
	f.loaded = append(f.loaded, frag)
	return "handle", nil
}

type fakeSource struct {
	events    chan loader.Event
	requested []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan loader.Event, 16)}
}

func (s *fakeSource) Events() <-chan loader.Event { return s.events }
func (s *fakeSource) Load(_ context.Context, p string) { s.requested = append(s.requested, p) }

func newTestTrailer(t *testing.T) (*Trailer, *fakeRenderer, *fakeSource, *clock.Manual) {
	t.Helper()
	r := &fakeRenderer{}
	src := newFakeSource()
	clk := &clock.Manual{}

	tr, err := New(config.DefaultConfig(), r, clk, src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(tr.Close)
	return tr, r, src, clk
}

func TestNewBuildsStaticScene(t *testing.T) {
	tr, r, src, _ := newTestTrailer(t)

	want := []string{"water", "sky", "cube", "plane"}
	got := tr.Graph().Names()
	if len(got) != len(want) {
		t.Fatalf("cena = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("nó %d = %q, want %q", i, got[i], want[i])
		}
	}
	if len(r.built) != 4 {
		t.Errorf("nós construídos = %v", r.built)
	}
	if r.regenerated != 1 {
		t.Errorf("mapa de ambiente gerado %d vezes na construção, want 1", r.regenerated)
	}
	if len(src.requested) != 1 || src.requested[0] != "second.glb" {
		t.Errorf("carregamentos pedidos = %v", src.requested)
	}
	if !tr.Active() {
		t.Errorf("o loop deveria estar armado depois de New")
	}

	plane := tr.Graph().Find("plane")
	if !plane.DoubleSided || plane.Color != scene.Hex(0xff0000) {
		t.Errorf("plano = %+v", plane)
	}
	if tr.Cube().Color != scene.Hex(0xff0000) {
		t.Errorf("cubo deveria ser vermelho, cor = %+v", tr.Cube().Color)
	}
}

func TestCubeRotationAccumulatesDeltas(t *testing.T) {
	tests := []struct {
		name     string
		readings func(i int) float64
		frames   int
	}{
		{"irregular", func(i int) float64 { return []float64{0.016, 0.030, 0.1, 0.1, 0.75, 2.0}[i] }, 6},
		{"60 fps por 6 horas", func(i int) float64 { return float64(i+1) / 60 }, 6 * 3600 * 60},
	}

	for _, tt := range tests {
		tr, _, _, clk := newTestTrailer(t)
		var before float64
		for i := 0; i < tt.frames; i++ {
			before = tr.CubeAngle()
			clk.Set(tt.readings(i))
			tr.Frame()
		}

		// A soma dos deltas é a última leitura menos a leitura no Arm (0)
		want := tt.readings(tt.frames - 1)
		if got := tr.CubeAngle(); math.Abs(got-want) > 1e-6 {
			t.Errorf("%s: ângulo do cubo = %v, want %v", tt.name, got, want)
		}
		wantDelta := want - tt.readings(tt.frames-2)
		if step := tr.CubeAngle() - before; math.Abs(step-wantDelta) > 1e-9 {
			t.Errorf("%s: último passo = %v, want %v", tt.name, step, wantDelta)
		}

		rendered := float64(tr.Cube().Rotation.Y())
		if rendered < 0 || rendered >= 2*math.Pi+1e-6 {
			t.Errorf("%s: rotação do nó fora de [0, 2π): %v", tt.name, rendered)
		}
		if wantRendered := math.Mod(want, 2*math.Pi); math.Abs(rendered-wantRendered) > 1e-4 {
			t.Errorf("%s: rotação do nó = %v, want %v", tt.name, rendered, wantRendered)
		}
	}
}

func TestWaterTimeIsFixedStep(t *testing.T) {
	tests := []struct {
		name   string
		frames int
		dt     float64
	}{
		{"60 fps", 240, 1.0 / 60},
		{"144 fps", 100, 1.0 / 144},
		{"travado", 10, 2},
		{"sem avanço", 30, 0},
		{"60 fps por 6 horas", 6 * 3600 * 60, 1.0 / 60},
	}

	for _, tt := range tests {
		tr, r, _, clk := newTestTrailer(t)
		for i := 0; i < tt.frames; i++ {
			clk.Advance(tt.dt)
			tr.Frame()
		}
		want := float64(tt.frames) / 240
		if got := tr.WaterTime(); math.Abs(got-want) > 1e-9 {
			t.Errorf("%s: tempo da água = %v, want %v", tt.name, got, want)
		}
		if r.waterTime != float32(tr.WaterTime()) {
			t.Errorf("%s: uniform = %v, estado = %v", tt.name, r.waterTime, tr.WaterTime())
		}
		if r.renders != tt.frames || tr.Frames() != tt.frames {
			t.Errorf("%s: %d renders e %d frames contados para %d frames", tt.name, r.renders, tr.Frames(), tt.frames)
		}
	}
}

func TestFramesDoNotRegenerateEnvironment(t *testing.T) {
	tr, r, _, clk := newTestTrailer(t)
	for i := 0; i < 100; i++ {
		clk.Advance(0.016)
		tr.Frame()
	}
	if r.regenerated != 1 {
		t.Errorf("frames regeneraram o mapa de ambiente: %d gerações", r.regenerated)
	}

	tr.Environment().SetAzimuth(90)
	tr.Frame()
	if r.regenerated != 2 {
		t.Errorf("mudança de azimute deveria regerar uma vez, gerações = %d", r.regenerated)
	}
}

func TestProgressDrivesLoadingBar(t *testing.T) {
	tr, _, src, _ := newTestTrailer(t)
	bar := tr.LoadingBar()

	src.events <- loader.Event{Kind: loader.EventProgress, Progress: loader.Progress{Loaded: 50, Total: 200}}
	tr.Frame()
	if bar.Progress() != 0.25 || !bar.Visible() {
		t.Errorf("depois de 50/200: progress=%v visible=%v", bar.Progress(), bar.Visible())
	}

	src.events <- loader.Event{Kind: loader.EventProgress, Progress: loader.Progress{Loaded: 200, Total: 200}}
	tr.Frame()
	if bar.Progress() != 1 || bar.Visible() {
		t.Errorf("depois de 200/200: progress=%v visible=%v", bar.Progress(), bar.Visible())
	}
}

func TestSuccessAddsModelOnce(t *testing.T) {
	tr, r, src, _ := newTestTrailer(t)

	tr.Frame()
	if tr.Graph().Has("model") || tr.Model() != nil {
		t.Fatalf("o modelo não pode aparecer antes do sucesso")
	}

	frag := loader.Fragment{Source: "second.glb", LocalPath: "/tmp/second.glb", Format: loader.FormatGLB}
	src.events <- loader.Event{Kind: loader.EventSuccess, Source: "second.glb", Fragment: frag}
	tr.Frame()

	if tr.Graph().Len() != 5 || !tr.Graph().Has("model") {
		t.Fatalf("cena = %v, want modelo adicionado", tr.Graph().Names())
	}
	if tr.Model().Handle != "handle" || len(r.loaded) != 1 {
		t.Errorf("modelo carregado incorretamente: handle=%v loads=%d", tr.Model().Handle, len(r.loaded))
	}
	if tr.LoadingBar().Visible() {
		t.Errorf("a barra deveria sumir após o sucesso")
	}
	if !tr.Active() {
		t.Errorf("o loop deveria continuar armado")
	}
}

func TestFailureLeavesSceneUntouched(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeRenderer, *fakeSource)
	}{
		{"falha do loader", func(_ *fakeRenderer, s *fakeSource) {
			s.events <- loader.Event{Kind: loader.EventFailure, Source: "second.glb", Err: loader.ErrNotFound}
		}},
		{"erro do renderer", func(r *fakeRenderer, s *fakeSource) {
			r.modelErr = errors.New("nenhuma malha")
			s.events <- loader.Event{Kind: loader.EventSuccess, Source: "second.glb"}
		}},
		{"pânico do renderer", func(r *fakeRenderer, s *fakeSource) {
			r.modelPanic = true
			s.events <- loader.Event{Kind: loader.EventSuccess, Source: "second.glb"}
		}},
	}

	for _, tt := range tests {
		tr, r, src, clk := newTestTrailer(t)
		tt.setup(r, src)

		clk.Advance(1)
		tr.Frame()

		names := tr.Graph().Names()
		if len(names) != 4 || tr.Graph().Has("model") {
			t.Errorf("%s: cena = %v, want só cubo, plano, água e céu", tt.name, names)
		}
		for _, n := range []string{"cube", "plane", "water", "sky"} {
			if !tr.Graph().Has(n) {
				t.Errorf("%s: %s sumiu da cena", tt.name, n)
			}
		}
		if !tr.LoadingBar().Failed() || !tr.LoadingBar().Visible() {
			t.Errorf("%s: a barra deveria mostrar o erro", tt.name)
		}

		// A cena continua sendo desenhada e o erro expira
		clk.Advance(10)
		tr.Frame()
		if r.renders != 2 {
			t.Errorf("%s: renders = %d, want 2", tt.name, r.renders)
		}
		if tr.LoadingBar().Visible() {
			t.Errorf("%s: o erro deveria expirar depois do timeout", tt.name)
		}
	}
}

func TestResizeIsIdempotent(t *testing.T) {
	tr, r, _, _ := newTestTrailer(t)
	initial := len(r.resizes)

	tr.Resize(800, 600, 2)
	tr.Resize(800, 600, 2)

	if n := len(r.resizes) - initial; n != 1 {
		t.Fatalf("Resize repetido chegou %d vezes ao renderer, want 1", n)
	}
	if got := r.resizes[len(r.resizes)-1]; got != [2]int{1600, 1200} {
		t.Errorf("buffer = %v, want [1600 1200]", got)
	}
	if want := float32(800.0 / 600.0); tr.Camera().Projection.Aspect != want {
		t.Errorf("Aspect = %v, want %v", tr.Camera().Projection.Aspect, want)
	}

	tr.Resize(0, 600, 1)
	if len(r.resizes)-initial != 1 {
		t.Errorf("tamanho inválido não deveria chegar ao renderer")
	}
}

func TestArmIsNoOpWhenActive(t *testing.T) {
	tr, _, _, clk := newTestTrailer(t)
	clk.Set(1)
	tr.Frame()

	clk.Set(3)
	tr.Arm() // Não pode reiniciar o relógio de referência
	tr.Frame()

	if got := tr.CubeAngle(); math.Abs(got-3) > 1e-9 {
		t.Errorf("ângulo = %v, want 3", got)
	}
}
