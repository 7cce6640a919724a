package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"OceanTrailer/cliente/internal/loader"
	"OceanTrailer/cliente/internal/render"
	"OceanTrailer/cliente/internal/trailer"
	"OceanTrailer/shared/config"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const waterNormalsTimeout = 10 * time.Second

// App é a janela do OceanTrailer: cria o contexto GL, coleta input e desenha o HUD.
// A cena e o loop de frames ficam no trailer.
type App struct {
	Config *config.Config

	renderer *render.Renderer
	loader   *loader.Loader
	trailer  *trailer.Trailer

	// O botão foi pressionado sobre o painel; o arrasto não vai para a câmera até soltar
	pressOnPanel bool
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config) *App {
	return &App{Config: cfg}
}

// Run abre a janela e roda o loop principal até a janela fechar.
func (a *App) Run() error {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)
	defer rl.CloseWindow()

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}
	rl.SetTargetFPS(a.Config.TargetFPS)

	log.Println("[OceanTrailer] Janela inicializada com sucesso")
	log.Printf("[OceanTrailer] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	timeout := time.Duration(a.Config.FetchTimeout * float64(time.Second))
	a.loader = loader.New(a.Config.AssetBase, a.Config.CacheDir, timeout)
	log.Printf("[App] Modelo: %s", a.loader.Resolve(a.Config.ModelPath))

	renderer, err := render.NewRenderer(a.fetchWaterNormals())
	if err != nil {
		return fmt.Errorf("falha ao iniciar o renderer: %w", err)
	}
	a.renderer = renderer

	a.trailer, err = trailer.New(a.Config, renderer, render.Clock{}, a.loader)
	if err != nil {
		renderer.Unload()
		return fmt.Errorf("falha ao montar a cena: %w", err)
	}
	a.resize()

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}

	a.shutdown()
	return nil
}

// update trata redimensionamento e input antes do frame.
func (a *App) update() {
	if rl.IsWindowResized() {
		a.resize()
	}
	a.layoutPanel()
	a.updateInput()
}

func (a *App) resize() {
	dpr := float64(rl.GetWindowScaleDPI().X)
	a.trailer.Resize(rl.GetScreenWidth(), rl.GetScreenHeight(), dpr)
}

// shutdown realiza a limpeza de recursos. A configuração não é salva.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")
	a.trailer.Close()
	a.renderer.Unload()
}

// fetchWaterNormals busca a textura da água na mesma base do modelo (baixando para o
// cache quando a base é remota). Em caso de erro retorna "" e a água fica com normal plana.
func (a *App) fetchWaterNormals() string {
	ctx, cancel := context.WithTimeout(context.Background(), waterNormalsTimeout)
	defer cancel()

	frag, err := a.loader.Fetch(ctx, a.Config.WaterNormals)
	if err != nil {
		log.Printf("[App] Textura da água indisponível: %v", err)
		return ""
	}
	return frag.LocalPath
}
