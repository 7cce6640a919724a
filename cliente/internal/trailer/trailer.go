// Package trailer monta a cena (água, céu, cubo, plano e o modelo carregado) e a avança a cada frame.
// Não faz chamadas gráficas: tudo passa pela interface Renderer.
package trailer

import (
	"context"
	"fmt"
	"log"
	"math"

	"OceanTrailer/cliente/internal/camera"
	"OceanTrailer/cliente/internal/clock"
	"OceanTrailer/cliente/internal/environment"
	"OceanTrailer/cliente/internal/hud"
	"OceanTrailer/cliente/internal/loader"
	"OceanTrailer/cliente/internal/scene"
	"OceanTrailer/shared/config"

	"github.com/go-gl/mathgl/mgl32"
)

// WaterTimeStep é o avanço fixo da animação da água por frame, independente do delta.
const WaterTimeStep = 1.0 / 240.0

// Renderer é o backend gráfico. Todas as chamadas vêm da goroutine principal.
type Renderer interface {
	environment.Backend

	// Build cria os recursos de GPU do nó (malha, material).
	Build(node *scene.Node) error
	// LoadModel carrega o asset baixado; o retorno vira o Handle do nó do modelo.
	LoadModel(frag loader.Fragment) (any, error)
	SetWaterTime(t float32)
	Resize(width, height int)
	// Render desenha o grafo de forma síncrona.
	Render(graph *scene.Graph, cam *camera.CameraController)
}

// AssetSource é a origem assíncrona do modelo (implementada por loader.Loader).
type AssetSource interface {
	Events() <-chan loader.Event
	Load(ctx context.Context, p string)
}

// Trailer é o dono da cena e do loop de frames.
type Trailer struct {
	renderer Renderer
	clock    clock.Clock
	source   AssetSource

	env   *environment.Environment
	graph *scene.Graph
	cam   *camera.CameraController
	bar   *hud.LoadingBar
	panel *hud.Panel

	water *scene.Node
	sky   *scene.Node
	cube  *scene.Node
	plane *scene.Node
	model *scene.Node

	// Acumuladores em float64; o renderer recebe float32
	previous  float64
	cubeAngle float64
	frames    int
	active    bool

	width, height int
	dpr           float64

	cancel context.CancelFunc
}

// New monta a cena estática, constrói o ambiente, dispara o carregamento do modelo e arma o loop.
func New(cfg *config.Config, r Renderer, clk clock.Clock, src AssetSource) (*Trailer, error) {
	aspect := float32(cfg.WindowWidth) / float32(cfg.WindowHeight)
	cam := camera.New(mgl32.Vec3{0, 0, 4}, mgl32.Vec3{}, camera.NewProjection(cfg.FOV, aspect, cfg.Near, cfg.Far))
	cam.Damping = cfg.CameraDamping
	cam.RotateSpeed = cfg.CameraSensitivity
	cam.ZoomSpeed = cfg.ZoomSpeed
	cam.PanSpeed = cfg.PanSpeed

	env := environment.New(r,
		environment.Parameters{
			Elevation:       cfg.Elevation,
			Azimuth:         cfg.Azimuth,
			DistortionScale: cfg.DistortionScale,
			Size:            cfg.WaterSize,
		},
		environment.SkyParameters{
			Turbidity:       cfg.Turbidity,
			Rayleigh:        cfg.Rayleigh,
			MieCoefficient:  cfg.MieCoefficient,
			MieDirectionalG: cfg.MieDirectionalG,
		})
	env.OnParametersChanged(func(p environment.Parameters) {
		log.Printf("[Ambiente] elevation=%.1f azimuth=%.1f distortionScale=%.1f size=%.1f",
			p.Elevation, p.Azimuth, p.DistortionScale, p.Size)
	})

	t := &Trailer{
		renderer: r,
		clock:    clk,
		source:   src,
		env:      env,
		graph:    scene.NewGraph(),
		cam:      cam,
		bar:      hud.NewLoadingBar(cfg.LoadingErrorTimeout),
		panel:    hud.NewEnvironmentPanel(env),
	}

	t.water = scene.NewNode("water", scene.KindWater)
	t.water.Rotation = mgl32.Vec3{-math.Pi / 2, 0, 0}

	t.sky = scene.NewNode("sky", scene.KindSky)
	t.sky.Scale = mgl32.Vec3{10000, 10000, 10000}

	t.cube = scene.NewNode("cube", scene.KindCube)
	t.cube.Color = scene.Hex(0xff0000)

	t.plane = scene.NewNode("plane", scene.KindPlane)
	t.plane.Color = scene.Hex(0xff0000)
	t.plane.DoubleSided = true

	for _, n := range []*scene.Node{t.water, t.sky, t.cube, t.plane} {
		if err := r.Build(n); err != nil {
			return nil, fmt.Errorf("falha ao construir %s: %w", n.Name, err)
		}
	}
	env.Build()
	t.graph.Add(t.water, t.sky, t.cube, t.plane)

	t.Resize(int(cfg.WindowWidth), int(cfg.WindowHeight), 1)

	var ctx context.Context
	ctx, t.cancel = context.WithCancel(context.Background())
	src.Load(ctx, cfg.ModelPath)

	t.Arm()
	return t, nil
}

// Arm ativa o loop de frames. Chamar com o loop já ativo não faz nada.
func (t *Trailer) Arm() {
	if t.active {
		return
	}
	t.active = true
	t.previous = t.clock.Elapsed()
	log.Println("[Trailer] Loop de render ativo")
}

// Active indica se Frame está desenhando.
func (t *Trailer) Active() bool {
	return t.active
}

// Frame avança e desenha um frame. Nunca bloqueia.
func (t *Trailer) Frame() {
	if !t.active {
		return
	}
	t.processLoaderEvents()

	elapsed := t.clock.Elapsed()
	delta := elapsed - t.previous
	t.previous = elapsed

	t.frames++
	t.renderer.SetWaterTime(float32(t.WaterTime()))

	t.cam.Update()

	t.cubeAngle += delta
	t.cube.Rotation[1] = float32(math.Mod(t.cubeAngle, 2*math.Pi))

	t.bar.Update(elapsed)
	t.renderer.Render(t.graph, t.cam)
}

// processLoaderEvents drena os eventos pendentes sem bloquear.
func (t *Trailer) processLoaderEvents() {
	for {
		select {
		case ev := <-t.source.Events():
			t.handleEvent(ev)
		default:
			return
		}
	}
}

func (t *Trailer) handleEvent(ev loader.Event) {
	switch ev.Kind {
	case loader.EventProgress:
		t.bar.SetProgress(ev.Progress.Loaded, ev.Progress.Total)
	case loader.EventSuccess:
		handle, err := t.loadModel(ev.Fragment)
		if err != nil {
			t.fail(ev.Source, err)
			return
		}
		node := scene.NewNode("model", scene.KindModel)
		node.Handle = handle
		t.graph.Add(node)
		t.model = node
		t.bar.Complete()
		log.Printf("[Trailer] Modelo adicionado à cena: %s", ev.Fragment.LocalPath)
		t.Arm()
	case loader.EventFailure:
		t.fail(ev.Source, ev.Err)
	}
}

// loadModel isola pânicos do backend: uma falha no modelo não derruba a cena.
func (t *Trailer) loadModel(frag loader.Fragment) (handle any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pânico ao carregar %s: %v", frag.LocalPath, r)
		}
	}()
	return t.renderer.LoadModel(frag)
}

func (t *Trailer) fail(source string, err error) {
	log.Printf("[Loader] Erro ao carregar modelo %s: %v", source, err)
	t.bar.Fail(err, t.clock.Elapsed())
}

// Resize ajusta o buffer de saída (pixels físicos) e a projeção (pixels lógicos).
// Tamanhos repetidos não fazem nada.
func (t *Trailer) Resize(width, height int, dpr float64) {
	if width <= 0 || height <= 0 {
		return
	}
	if dpr <= 0 {
		dpr = 1
	}
	if width == t.width && height == t.height && dpr == t.dpr {
		return
	}
	t.width, t.height, t.dpr = width, height, dpr

	t.renderer.Resize(int(math.Round(float64(width)*dpr)), int(math.Round(float64(height)*dpr)))
	t.cam.Resize(width, height)
}

// Close cancela um carregamento em curso.
func (t *Trailer) Close() {
	if t.cancel != nil {
		t.cancel()
	}
}

func (t *Trailer) Graph() *scene.Graph { return t.graph }
func (t *Trailer) Camera() *camera.CameraController { return t.cam }
func (t *Trailer) Environment() *environment.Environment { return t.env }
func (t *Trailer) LoadingBar() *hud.LoadingBar { return t.bar }
func (t *Trailer) Panel() *hud.Panel { return t.panel }
func (t *Trailer) Cube() *scene.Node { return t.cube }
func (t *Trailer) Model() *scene.Node { return t.model }
func (t *Trailer) Frames() int { return t.frames }

// WaterTime é a fase da água: frames × WaterTimeStep, sem erro acumulado.
func (t *Trailer) WaterTime() float64 {
	return float64(t.frames) * WaterTimeStep
}

// CubeAngle é a soma dos deltas desde o Arm. O nó recebe o ângulo reduzido a [0, 2π).
func (t *Trailer) CubeAngle() float64 {
	return t.cubeAngle
}
