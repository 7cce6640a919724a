// Package environment mantém os parâmetros do céu e da água e o acoplamento entre eles:
// a direção do sol alimenta o shader do céu, o shader da água e o mapa de ambiente.
package environment

import (
	"log"

	"OceanTrailer/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// Faixas dos controles do painel de debug.
const (
	ElevationMin = -5.0
	ElevationMax = 90.0
	AzimuthMin   = -180.0
	AzimuthMax   = 180.0

	DistortionMin = 0.0
	DistortionMax = 8.0
	SizeMin       = 0.1
	SizeMax       = 10.0
)

// Parameters são os valores ajustáveis do ambiente.
type Parameters struct {
	Elevation       float64 // Graus acima do horizonte
	Azimuth         float64 // Graus em torno do eixo vertical
	DistortionScale float64
	Size            float64
}

// SkyParameters são as constantes do modelo de céu (Preetham).
type SkyParameters struct {
	Turbidity       float32
	Rayleigh        float32
	MieCoefficient  float32
	MieDirectionalG float32
}

// DefaultSky retorna os valores do céu usados pela cena.
func DefaultSky() SkyParameters {
	return SkyParameters{
		Turbidity:       10,
		Rayleigh:        2,
		MieCoefficient:  0.005,
		MieDirectionalG: 0.8,
	}
}

// Backend recebe os uniforms derivados dos parâmetros.
// Implementado pelo renderer raylib; nos testes, por um fake.
type Backend interface {
	SetSkyParameters(p SkyParameters)
	SetSunPosition(sun mgl32.Vec3)
	SetWaterSunDirection(dir mgl32.Vec3)
	SetWaterDistortionScale(v float32)
	SetWaterSize(v float32)
	// RegenerateEnvironmentMap refaz o mapa de ambiente pré-filtrado a partir do céu atual.
	// Caro (render-to-texture): só deve rodar quando elevação/azimute mudam.
	RegenerateEnvironmentMap()
}

// SunDirection converte elevação/azimute (graus) em um vetor unitário.
// phi = 90 - elevação, theta = azimute, raio 1.
func SunDirection(elevation, azimuth float64) mgl32.Vec3 {
	phi := util.DegToRad(90 - elevation)
	theta := util.DegToRad(azimuth)
	return util.SphericalToCartesian(1, phi, theta)
}

// Environment é o dono dos parâmetros e notifica quem precisa saber quando mudam.
type Environment struct {
	params  Parameters
	sky     SkyParameters
	sun     mgl32.Vec3
	backend Backend

	observers []func(Parameters)
	built     bool
}

// New cria o ambiente. Nada é enviado ao backend até Build.
func New(backend Backend, params Parameters, sky SkyParameters) *Environment {
	params.Elevation = util.Clamp(params.Elevation, ElevationMin, ElevationMax)
	params.Azimuth = util.Clamp(params.Azimuth, AzimuthMin, AzimuthMax)
	params.DistortionScale = util.Clamp(params.DistortionScale, DistortionMin, DistortionMax)
	params.Size = util.Clamp(params.Size, SizeMin, SizeMax)
	return &Environment{
		params:  params,
		sky:     sky,
		backend: backend,
	}
}

// Build envia o estado inicial completo ao backend (céu, água e mapa de ambiente).
func (e *Environment) Build() {
	e.backend.SetSkyParameters(e.sky)
	e.backend.SetWaterDistortionScale(float32(e.params.DistortionScale))
	e.backend.SetWaterSize(float32(e.params.Size))
	e.updateSun()
	e.built = true
	log.Printf("[Ambiente] Céu e água construídos (elevação %.1f°, azimute %.1f°)", e.params.Elevation, e.params.Azimuth)
}

// Parameters retorna uma cópia dos parâmetros atuais.
func (e *Environment) Parameters() Parameters {
	return e.params
}

// Sun retorna a última direção do sol calculada.
func (e *Environment) Sun() mgl32.Vec3 {
	return e.sun
}

// OnParametersChanged registra um observador chamado após cada mudança efetiva.
func (e *Environment) OnParametersChanged(fn func(Parameters)) {
	e.observers = append(e.observers, fn)
}

// SetElevation altera a elevação do sol (limitada a [-5, 90]).
func (e *Environment) SetElevation(v float64) {
	v = util.Clamp(v, ElevationMin, ElevationMax)
	if v == e.params.Elevation {
		return
	}
	e.params.Elevation = v
	e.sunChanged()
}

// SetAzimuth altera o azimute do sol (limitado a [-180, 180]).
func (e *Environment) SetAzimuth(v float64) {
	v = util.Clamp(v, AzimuthMin, AzimuthMax)
	if v == e.params.Azimuth {
		return
	}
	e.params.Azimuth = v
	e.sunChanged()
}

// SetDistortionScale altera só o uniform da água; o mapa de ambiente não é refeito.
func (e *Environment) SetDistortionScale(v float64) {
	v = util.Clamp(v, DistortionMin, DistortionMax)
	if v == e.params.DistortionScale {
		return
	}
	e.params.DistortionScale = v
	e.backend.SetWaterDistortionScale(float32(v))
	e.notify()
}

// SetSize altera só o uniform da água; o mapa de ambiente não é refeito.
func (e *Environment) SetSize(v float64) {
	v = util.Clamp(v, SizeMin, SizeMax)
	if v == e.params.Size {
		return
	}
	e.params.Size = v
	e.backend.SetWaterSize(float32(v))
	e.notify()
}

func (e *Environment) sunChanged() {
	// Antes do Build o backend ainda não tem recursos; Build aplica o valor final.
	if e.built {
		e.updateSun()
	}
	e.notify()
}

// updateSun recalcula o sol e propaga para céu, água e mapa de ambiente.
func (e *Environment) updateSun() {
	e.sun = SunDirection(e.params.Elevation, e.params.Azimuth)
	e.backend.SetSunPosition(e.sun)
	e.backend.SetWaterSunDirection(e.sun.Normalize())
	e.backend.RegenerateEnvironmentMap()
}

func (e *Environment) notify() {
	for _, fn := range e.observers {
		fn(e.params)
	}
}
