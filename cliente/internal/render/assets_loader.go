package render

import (
	"errors"
	"fmt"
	"log"

	"OceanTrailer/cliente/internal/loader"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var ErrNoMeshes = errors.New("modelo sem malhas")

// loadWaterNormals carrega o normal map da água. Sem o arquivo, a água fica lisa
// (normal constante) mas continua refletindo o céu.
func loadWaterNormals(path string) rl.Texture2D {
	var tex rl.Texture2D
	if path != "" {
		tex = rl.LoadTexture(path)
	}
	if tex.ID != 0 {
		rl.GenTextureMipmaps(&tex)
		rl.SetTextureFilter(tex, rl.FilterTrilinear)
		rl.SetTextureWrap(tex, rl.WrapRepeat)
		log.Printf("[Renderer] Textura carregada: %s", path)
		return tex
	}

	log.Printf("[Renderer] FALHA ao carregar textura: %s (usando normal plana)", path)
	img := rl.GenImageColor(1, 1, rl.Color{R: 128, G: 128, B: 255, A: 255})
	tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureWrap(tex, rl.WrapRepeat)
	return tex
}

// LoadModel envia o asset baixado para a GPU. Os materiais do arquivo passam a usar o
// shader iluminado e o mapa de ambiente atual.
func (r *Renderer) LoadModel(frag loader.Fragment) (any, error) {
	model := rl.LoadModel(frag.LocalPath)
	if model.MeshCount == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMeshes, frag.Source)
	}

	m := &modelHandle{model: model, path: frag.LocalPath}
	materials := m.materials()
	for i := range materials {
		materials[i].Shader = r.LitShader
		if r.envMap.ID != 0 {
			rl.SetMaterialTexture(&materials[i], rl.MapMetalness, r.envMap.Texture)
		}
	}
	r.models = append(r.models, m)

	log.Printf("[Renderer] Modelo carregado: %s (%s, %d malhas, %d materiais)",
		frag.Source, frag.Format, model.MeshCount, model.MaterialCount)
	return m, nil
}
