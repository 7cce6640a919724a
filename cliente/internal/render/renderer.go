package render

import (
	"errors"
	"fmt"
	"log"
	"math"
	"unsafe"

	"OceanTrailer/cliente/internal/camera"
	"OceanTrailer/cliente/internal/environment"
	"OceanTrailer/cliente/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// WaterExtent é o lado do plano de água, em unidades de mundo.
const WaterExtent = 10000

// materialMapCount é o MAX_MATERIAL_MAPS do raylib.
const materialMapCount = 12

var ErrShader = errors.New("shader não compilou")

type waterLocations struct {
	time, size, distortion, sunDirection, sunColor, waterColor, eye, alpha int32
}

type litLocations struct {
	baseColor, sunDirection, viewPos int32
}

// drawable é o recurso de GPU de um nó primitivo (água, céu, cubo, plano).
type drawable struct {
	mesh     rl.Mesh
	material rl.Material
	base     mgl32.Mat4 // Corrige a orientação da malha gerada pelo raylib
	kind     scene.Kind
}

// modelHandle é o recurso de GPU do modelo carregado.
type modelHandle struct {
	model rl.Model
	path  string
}

// materials retorna os materiais do modelo (memória C, compartilhada com o raylib).
func (m *modelHandle) materials() []rl.Material {
	if m.model.MaterialCount == 0 {
		return nil
	}
	return unsafe.Slice(m.model.Materials, m.model.MaterialCount)
}

// textures lista as texturas de todos os maps de todos os materiais do modelo.
func (m *modelHandle) textures() []rl.Texture2D {
	var out []rl.Texture2D
	for _, mat := range m.materials() {
		if mat.Maps == nil {
			continue
		}
		for _, mm := range unsafe.Slice(mat.Maps, materialMapCount) {
			out = append(out, mm.Texture)
		}
	}
	return out
}

// ownedTextures filtra as texturas que pertencem ao modelo: sem repetição, sem ID 0
// e sem as texturas compartilhadas (mapa de ambiente, textura padrão do raylib).
func ownedTextures(all []rl.Texture2D, shared ...uint32) []rl.Texture2D {
	seen := make(map[uint32]bool, len(shared))
	for _, id := range shared {
		seen[id] = true
	}

	var owned []rl.Texture2D
	for _, tex := range all {
		if tex.ID == 0 || seen[tex.ID] {
			continue
		}
		seen[tex.ID] = true
		owned = append(owned, tex)
	}
	return owned
}

// Renderer é o backend raylib da cena. Deve ser usado só na goroutine principal,
// depois de rl.InitWindow.
type Renderer struct {
	SkyShader   rl.Shader
	SkyEnv      rl.Shader // Passe equiretangular do mapa de ambiente
	WaterShader rl.Shader
	LitShader   rl.Shader

	skyLocs      skyLocations
	skyEnvLocs   skyLocations
	skyCameraLoc int32
	waterLocs    waterLocations
	litLocs      litLocations

	// Mapa de ambiente pré-filtrado (mip chain)
	envMap         rl.RenderTexture2D
	envGenerations int
	white          rl.Texture2D // 1x1 usado para desenhar o quad do passe do céu

	waterNormals rl.Texture2D

	drawables []*drawable
	models    []*modelHandle

	width, height int
}

// NewRenderer compila os shaders e carrega a textura de normais da água.
func NewRenderer(waterNormalsPath string) (*Renderer, error) {
	r := &Renderer{}

	var err error
	if r.SkyShader, err = loadShader("céu", skyVertexShader, skyFragmentShader); err != nil {
		return nil, err
	}
	if r.SkyEnv, err = loadShader("mapa de ambiente", skyEquirectVertexShader, skyEquirectFragmentShader); err != nil {
		return nil, err
	}
	if r.WaterShader, err = loadShader("água", waterVertexShader, waterFragmentShader); err != nil {
		return nil, err
	}
	if r.LitShader, err = loadShader("material", litVertexShader, litFragmentShader); err != nil {
		return nil, err
	}

	r.skyLocs = locateSky(r.SkyShader)
	r.skyEnvLocs = locateSky(r.SkyEnv)
	r.skyCameraLoc = rl.GetShaderLocation(r.SkyShader, "cameraPos")

	r.waterLocs.time = rl.GetShaderLocation(r.WaterShader, "time")
	r.waterLocs.size = rl.GetShaderLocation(r.WaterShader, "size")
	r.waterLocs.distortion = rl.GetShaderLocation(r.WaterShader, "distortionScale")
	r.waterLocs.sunDirection = rl.GetShaderLocation(r.WaterShader, "sunDirection")
	r.waterLocs.sunColor = rl.GetShaderLocation(r.WaterShader, "sunColor")
	r.waterLocs.waterColor = rl.GetShaderLocation(r.WaterShader, "waterColor")
	r.waterLocs.eye = rl.GetShaderLocation(r.WaterShader, "eye")
	r.waterLocs.alpha = rl.GetShaderLocation(r.WaterShader, "alpha")

	r.litLocs.baseColor = rl.GetShaderLocation(r.LitShader, "baseColor")
	r.litLocs.sunDirection = rl.GetShaderLocation(r.LitShader, "sunDirection")
	r.litLocs.viewPos = rl.GetShaderLocation(r.LitShader, "viewPos")

	// Constantes da água
	setVec3(r.WaterShader, r.waterLocs.sunColor, mgl32.Vec3{1, 1, 1})
	setVec3(r.WaterShader, r.waterLocs.waterColor, colorVec3(scene.Hex(0x001e0f)))
	setFloat(r.WaterShader, r.waterLocs.alpha, 1)

	img := rl.GenImageColor(1, 1, rl.White)
	r.white = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	r.waterNormals = loadWaterNormals(waterNormalsPath)

	log.Println("[Renderer] Shaders de céu, água e material compilados")
	return r, nil
}

func loadShader(name, vs, fs string) (rl.Shader, error) {
	shader := rl.LoadShaderFromMemory(vs, fs)
	if !rl.IsShaderValid(shader) {
		return shader, fmt.Errorf("%w: %s", ErrShader, name)
	}
	return shader, nil
}

// Build cria malha e material do nó. Nós de modelo vêm de LoadModel.
func (r *Renderer) Build(node *scene.Node) error {
	d := &drawable{kind: node.Kind, base: mgl32.Ident4()}
	d.material = rl.LoadMaterialDefault()

	// GenMeshPlane gera no plano XZ; a cena espera planos em XY (normal +Z)
	toXY := mgl32.HomogRotate3DX(math.Pi / 2)

	switch node.Kind {
	case scene.KindWater:
		d.mesh = rl.GenMeshPlane(WaterExtent, WaterExtent, 1, 1)
		d.base = toXY
		d.material.Shader = r.WaterShader
		rl.SetMaterialTexture(&d.material, rl.MapDiffuse, r.waterNormals)
	case scene.KindSky:
		d.mesh = rl.GenMeshCube(1, 1, 1)
		d.material.Shader = r.SkyShader
	case scene.KindCube:
		d.mesh = rl.GenMeshCube(1, 1, 1)
		d.material.Shader = r.LitShader
	case scene.KindPlane:
		d.mesh = rl.GenMeshPlane(1, 1, 1, 1)
		d.base = toXY
		d.material.Shader = r.LitShader
	default:
		return fmt.Errorf("tipo de nó sem malha primitiva: %s", node.Kind)
	}

	if r.envMap.ID != 0 {
		rl.SetMaterialTexture(&d.material, rl.MapMetalness, r.envMap.Texture)
	}
	node.Handle = d
	r.drawables = append(r.drawables, d)
	log.Printf("[Renderer] Nó construído: %s (%s)", node.Name, node.Kind)
	return nil
}

// SetSkyParameters envia as constantes do céu para os dois shaders de céu.
func (r *Renderer) SetSkyParameters(p environment.SkyParameters) {
	for _, s := range []struct {
		shader rl.Shader
		locs   skyLocations
	}{{r.SkyShader, r.skyLocs}, {r.SkyEnv, r.skyEnvLocs}} {
		setFloat(s.shader, s.locs.turbidity, p.Turbidity)
		setFloat(s.shader, s.locs.rayleigh, p.Rayleigh)
		setFloat(s.shader, s.locs.mieCoefficient, p.MieCoefficient)
		setFloat(s.shader, s.locs.mieDirectionalG, p.MieDirectionalG)
	}
}

// SetSunPosition atualiza o sol do céu e a luz difusa dos materiais.
func (r *Renderer) SetSunPosition(sun mgl32.Vec3) {
	setVec3(r.SkyShader, r.skyLocs.sunPosition, sun)
	setVec3(r.SkyEnv, r.skyEnvLocs.sunPosition, sun)
	setVec3(r.LitShader, r.litLocs.sunDirection, sun.Normalize())
}

func (r *Renderer) SetWaterSunDirection(dir mgl32.Vec3) {
	setVec3(r.WaterShader, r.waterLocs.sunDirection, dir)
}

func (r *Renderer) SetWaterDistortionScale(v float32) {
	setFloat(r.WaterShader, r.waterLocs.distortion, v)
}

func (r *Renderer) SetWaterSize(v float32) {
	setFloat(r.WaterShader, r.waterLocs.size, v)
}

func (r *Renderer) SetWaterTime(t float32) {
	setFloat(r.WaterShader, r.waterLocs.time, t)
}

// Resize registra o tamanho do buffer de saída. O raylib já redimensiona o framebuffer da janela.
func (r *Renderer) Resize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	log.Printf("[Renderer] Buffer de saída: %dx%d", width, height)
}

// Render desenha o grafo com a câmera dada. Deve rodar entre BeginDrawing/EndDrawing.
func (r *Renderer) Render(graph *scene.Graph, cam *camera.CameraController) {
	setVec3(r.SkyShader, r.skyCameraLoc, cam.Position)
	setVec3(r.WaterShader, r.waterLocs.eye, cam.Position)
	setVec3(r.LitShader, r.litLocs.viewPos, cam.Position)

	rl.ClearBackground(rl.Black)

	rl3d := rl.Camera3D{
		Position:   toVector3(cam.Position),
		Target:     toVector3(cam.Target),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       cam.Projection.FovY,
		Projection: rl.CameraPerspective,
	}
	rl.BeginMode3D(rl3d)
	// Near/far do raylib são fixos; a projeção e a visão da câmera substituem as do BeginMode3D
	rl.SetMatrixProjection(toMatrix(cam.Projection.Matrix()))
	rl.SetMatrixModelview(toMatrix(cam.View()))

	for _, n := range graph.Nodes() {
		switch h := n.Handle.(type) {
		case *drawable:
			r.drawPrimitive(n, h)
		case *modelHandle:
			r.drawModel(n, h)
		}
	}

	rl.EndMode3D()
}

func (r *Renderer) drawPrimitive(n *scene.Node, d *drawable) {
	transform := toMatrix(n.Transform().Mul4(d.base))

	switch d.kind {
	case scene.KindSky:
		// Câmera fica dentro do cubo: sem culling e sem escrever profundidade
		rl.DisableBackfaceCulling()
		rl.DisableDepthMask()
		rl.DrawMesh(d.mesh, d.material, transform)
		rl.EnableDepthMask()
		rl.EnableBackfaceCulling()
		return
	case scene.KindCube, scene.KindPlane:
		setVec4(r.LitShader, r.litLocs.baseColor, colorVec4(n.Color))
	}

	if n.DoubleSided || d.kind == scene.KindWater {
		rl.DisableBackfaceCulling()
		defer rl.EnableBackfaceCulling()
	}
	rl.DrawMesh(d.mesh, d.material, transform)
}

func (r *Renderer) drawModel(n *scene.Node, m *modelHandle) {
	setVec4(r.LitShader, r.litLocs.baseColor, colorVec4(n.Color))
	m.model.Transform = toMatrix(n.Transform())
	rl.DrawModel(m.model, rl.Vector3{}, 1.0, rl.White)
}

// EnvironmentGenerations conta quantas vezes o mapa de ambiente foi gerado.
func (r *Renderer) EnvironmentGenerations() int {
	return r.envGenerations
}

// Unload libera todos os recursos de GPU.
func (r *Renderer) Unload() {
	for _, d := range r.drawables {
		rl.UnloadMesh(&d.mesh)
	}
	r.drawables = nil
	for _, m := range r.models {
		// UnloadModel só libera os arrays de maps; as texturas do arquivo ficam por nossa conta
		for _, tex := range ownedTextures(m.textures(), r.envMap.Texture.ID, rl.GetTextureIdDefault()) {
			rl.UnloadTexture(tex)
		}
		rl.UnloadModel(m.model)
	}
	r.models = nil

	if r.envMap.ID != 0 {
		rl.UnloadRenderTexture(r.envMap)
		r.envMap = rl.RenderTexture2D{}
	}
	rl.UnloadTexture(r.white)
	rl.UnloadTexture(r.waterNormals)

	rl.UnloadShader(r.SkyShader)
	rl.UnloadShader(r.SkyEnv)
	rl.UnloadShader(r.WaterShader)
	rl.UnloadShader(r.LitShader)
	log.Println("[Renderer] Recursos liberados")
}
