package render

import (
	"log"

	"OceanTrailer/cliente/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Resolução do mapa equiretangular (2:1).
const (
	envWidth  = 256
	envHeight = 128
)

type skyLocations struct {
	sunPosition, turbidity, rayleigh, mieCoefficient, mieDirectionalG int32
}

func locateSky(shader rl.Shader) skyLocations {
	return skyLocations{
		sunPosition:     rl.GetShaderLocation(shader, "sunPosition"),
		turbidity:       rl.GetShaderLocation(shader, "turbidity"),
		rayleigh:        rl.GetShaderLocation(shader, "rayleigh"),
		mieCoefficient:  rl.GetShaderLocation(shader, "mieCoefficient"),
		mieDirectionalG: rl.GetShaderLocation(shader, "mieDirectionalG"),
	}
}

// RegenerateEnvironmentMap renderiza o céu atual numa render texture equiretangular,
// gera o mip chain e troca o mapa usado pela água e pelos materiais. O alvo anterior é liberado.
func (r *Renderer) RegenerateEnvironmentMap() {
	target := rl.LoadRenderTexture(envWidth, envHeight)
	if target.ID == 0 {
		log.Println("[Renderer] FALHA ao criar render texture do mapa de ambiente")
		return
	}

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	rl.BeginShaderMode(r.SkyEnv)
	rl.DrawTexturePro(r.white,
		rl.Rectangle{X: 0, Y: 0, Width: 1, Height: 1},
		rl.Rectangle{X: 0, Y: 0, Width: envWidth, Height: envHeight},
		rl.Vector2{}, 0, rl.White)
	rl.EndShaderMode()
	rl.EndTextureMode()

	rl.GenTextureMipmaps(&target.Texture)
	rl.SetTextureFilter(target.Texture, rl.FilterTrilinear)
	rl.SetTextureWrap(target.Texture, rl.WrapRepeat)

	if r.envMap.ID != 0 {
		rl.UnloadRenderTexture(r.envMap)
	}
	r.envMap = target
	r.bindEnvironment()

	r.envGenerations++
	log.Printf("[Renderer] Mapa de ambiente gerado (%dx%d, %d níveis, geração %d)",
		envWidth, envHeight, target.Texture.Mipmaps, r.envGenerations)
}

// bindEnvironment aponta o slot 1 de todos os materiais para o mapa atual.
func (r *Renderer) bindEnvironment() {
	env := r.envMap.Texture
	for _, d := range r.drawables {
		if d.kind == scene.KindSky {
			continue
		}
		rl.SetMaterialTexture(&d.material, rl.MapMetalness, env)
	}
	for _, m := range r.models {
		materials := m.materials()
		for i := range materials {
			rl.SetMaterialTexture(&materials[i], rl.MapMetalness, env)
		}
	}
}
