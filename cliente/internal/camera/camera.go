package camera

import (
	"math"

	"OceanTrailer/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// Input é o input de ponteiro acumulado entre dois frames.
type Input struct {
	RotateX, RotateY float32 // Arrasto de órbita, em pixels
	PanX, PanY       float32 // Arrasto de pan, em pixels
	Wheel            float32 // Positivo = aproximar
}

// IsZero indica que não houve input.
func (in Input) IsZero() bool {
	return in == Input{}
}

// Projection é uma projeção perspectiva.
type Projection struct {
	FovY   float32 // Graus
	Aspect float32
	Near   float32
	Far    float32

	matrix mgl32.Mat4
}

// NewProjection cria a projeção já com a matriz calculada.
func NewProjection(fovY, aspect, near, far float32) Projection {
	p := Projection{FovY: fovY, Aspect: aspect, Near: near, Far: far}
	p.UpdateProjectionMatrix()
	return p
}

// UpdateProjectionMatrix recalcula a matriz a partir de FovY/Aspect/Near/Far.
func (p *Projection) UpdateProjectionMatrix() {
	p.matrix = mgl32.Perspective(mgl32.DegToRad(p.FovY), p.Aspect, p.Near, p.Far)
}

// Matrix retorna a última matriz calculada.
func (p *Projection) Matrix() mgl32.Mat4 {
	return p.matrix
}

// CameraController é uma câmera orbital: gira, aproxima e desloca em torno de um alvo.
// O input é acumulado por Feed e consumido uma vez por frame em Update.
type CameraController struct {
	Projection Projection

	Target   mgl32.Vec3
	Position mgl32.Vec3

	// Configurações
	Damping     float32 // 0 = sem amortecimento; (0,1) = fração aplicada por frame
	RotateSpeed float32 // Radianos por pixel
	ZoomSpeed   float32 // Fator de distância por "clique" do scroll (< 1)
	PanSpeed    float32 // Unidades por pixel, escalado pela distância
	MinDistance float32
	MaxDistance float32
	MinPolar    float32
	MaxPolar    float32

	// Estado esférico atual (relativo ao alvo)
	radius  float32
	polar   float32
	azimuth float32

	// Deltas ainda não aplicados (amortecimento)
	deltaPolar   float32
	deltaAzimuth float32
	panOffset    mgl32.Vec3

	pending Input
	width   int
	height  int
}

// New cria o controlador a partir de uma posição e um alvo.
func New(position, target mgl32.Vec3, projection Projection) *CameraController {
	c := &CameraController{
		Projection:  projection,
		Target:      target,
		Position:    position,
		Damping:     0,
		RotateSpeed: 0.005,
		ZoomSpeed:   0.95,
		PanSpeed:    0.002,
		MinDistance: 0.5,
		MaxDistance: 1000,
		MinPolar:    1e-3,
		MaxPolar:    math.Pi - 1e-3,
	}

	r, phi, theta := util.CartesianToSpherical(position.Sub(target))
	c.radius = float32(r)
	c.polar = float32(phi)
	c.azimuth = float32(theta)
	return c
}

// Feed acumula input; pode ser chamado várias vezes entre frames.
func (c *CameraController) Feed(in Input) {
	c.pending.RotateX += in.RotateX
	c.pending.RotateY += in.RotateY
	c.pending.PanX += in.PanX
	c.pending.PanY += in.PanY
	c.pending.Wheel += in.Wheel
}

// Update consome o input acumulado e atualiza a posição. Deve ser chamado a cada frame.
// Retorna true se a câmera se moveu.
func (c *CameraController) Update() bool {
	in := c.pending
	c.pending = Input{}

	c.deltaAzimuth -= in.RotateX * c.RotateSpeed
	c.deltaPolar -= in.RotateY * c.RotateSpeed

	if in.PanX != 0 || in.PanY != 0 {
		right, up := c.basis()
		scale := c.PanSpeed * c.radius
		c.panOffset = c.panOffset.Add(right.Mul(-in.PanX * scale)).Add(up.Mul(in.PanY * scale))
	}

	// Zoom não é amortecido: aplica direto no raio
	if in.Wheel != 0 {
		c.radius *= float32(math.Pow(float64(c.ZoomSpeed), float64(in.Wheel)))
	}
	c.radius = util.Clamp32(c.radius, c.MinDistance, c.MaxDistance)

	factor := float32(1)
	if c.Damping > 0 && c.Damping < 1 {
		factor = c.Damping
	}

	c.azimuth += c.deltaAzimuth * factor
	c.polar = util.Clamp32(c.polar+c.deltaPolar*factor, c.MinPolar, c.MaxPolar)
	c.Target = c.Target.Add(c.panOffset.Mul(factor))

	if factor < 1 {
		c.deltaAzimuth *= 1 - factor
		c.deltaPolar *= 1 - factor
		c.panOffset = c.panOffset.Mul(1 - factor)
	} else {
		c.deltaAzimuth, c.deltaPolar = 0, 0
		c.panOffset = mgl32.Vec3{}
	}

	prev := c.Position
	c.Position = c.Target.Add(util.SphericalToCartesian(float64(c.radius), float64(c.polar), float64(c.azimuth)))
	return !prev.ApproxEqualThreshold(c.Position, 1e-6)
}

// basis retorna os vetores direita e cima da câmera no espaço do mundo.
func (c *CameraController) basis() (right, up mgl32.Vec3) {
	forward := c.Target.Sub(c.Position)
	if forward.Len() == 0 {
		return mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}
	}
	forward = forward.Normalize()
	right = forward.Cross(mgl32.Vec3{0, 1, 0})
	if right.Len() < 1e-6 {
		right = mgl32.Vec3{1, 0, 0}
	}
	right = right.Normalize()
	up = right.Cross(forward).Normalize()
	return right, up
}

// Distance retorna a distância atual até o alvo.
func (c *CameraController) Distance() float32 {
	return c.radius
}

// Azimuth retorna o ângulo horizontal atual (radianos).
func (c *CameraController) Azimuth() float32 {
	return c.azimuth
}

// Polar retorna o ângulo polar atual, medido a partir de +Y (radianos).
func (c *CameraController) Polar() float32 {
	return c.polar
}

// View retorna a matriz de visão.
func (c *CameraController) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, mgl32.Vec3{0, 1, 0})
}

// Resize ajusta o aspecto da projeção ao novo tamanho do viewport.
// Tamanhos inválidos são ignorados; tamanhos repetidos não mudam nada.
func (c *CameraController) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.Projection.Aspect = float32(width) / float32(height)
	c.Projection.UpdateProjectionMatrix()
}

// Viewport retorna o último tamanho recebido em Resize.
func (c *CameraController) Viewport() (width, height int) {
	return c.width, c.height
}
