package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"OceanTrailer/cliente/internal/app"
	"OceanTrailer/shared/config"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	configPath := flag.String("config", config.DefaultPath(), "Arquivo de configuração JSON")
	asset := flag.String("asset", "", "Modelo a carregar, relativo à base (padrão: second.glb)")
	base := flag.String("base", "", "Base dos assets: URL http(s) ou diretório local")
	fullscreen := flag.Bool("fullscreen", false, "Iniciar em tela cheia")
	debug := flag.Bool("debug", false, "Mostrar FPS e painel de debug")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	flag.Parse()

	// Configurar Log em Arquivo
	f, err := os.OpenFile("debug_trailer.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err == nil {
		defer f.Close()
		log.SetOutput(f)
		log.Println("--- INICIANDO OCEAN TRAILER ---")
	}

	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║         OceanTrailer v0.1.0          ║")
	log.Println("║   Oceano, céu e modelo GLTF em 3D    ║")
	log.Println("╚══════════════════════════════════════╝")

	cfg := config.Load(*configPath)

	// Flags sobrescrevem o arquivo
	if *asset != "" {
		cfg.ModelPath = *asset
	}
	if *base != "" {
		cfg.AssetBase = *base
	}
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}

	if err := app.New(cfg).Run(); err != nil {
		log.Printf("[OceanTrailer] %v", err)
		os.Exit(1)
	}
}
