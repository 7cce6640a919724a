package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config armazena as configurações do OceanTrailer.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width"`
	WindowHeight int32  `json:"window_height"`
	WindowTitle  string `json:"window_title"`
	Fullscreen   bool   `json:"fullscreen"`
	TargetFPS    int32  `json:"target_fps"`

	// Assets
	AssetBase           string  `json:"asset_base"` // URL (http://...) ou diretório local
	ModelPath           string  `json:"model_path"` // Relativo a AssetBase
	WaterNormals        string  `json:"water_normals"`
	CacheDir            string  `json:"cache_dir"`             // Destino dos downloads HTTP
	FetchTimeout        float64 `json:"fetch_timeout"`         // Segundos; 0 = sem limite (fica por conta do transporte)
	LoadingErrorTimeout float64 `json:"loading_error_timeout"` // Segundos com o erro visível; <= 0 = para sempre

	// Servidor de assets
	ServerAddr string `json:"server_addr"`
	ServerDir  string `json:"server_dir"`

	// Câmera
	FOV               float32 `json:"fov"`
	Near              float32 `json:"near"`
	Far               float32 `json:"far"`
	CameraDamping     float32 `json:"camera_damping"` // 0 = sem amortecimento
	CameraSensitivity float32 `json:"camera_sensitivity"`
	ZoomSpeed         float32 `json:"zoom_speed"`
	PanSpeed          float32 `json:"pan_speed"`

	// Céu
	Elevation       float64 `json:"elevation"`
	Azimuth         float64 `json:"azimuth"`
	Turbidity       float32 `json:"turbidity"`
	Rayleigh        float32 `json:"rayleigh"`
	MieCoefficient  float32 `json:"mie_coefficient"`
	MieDirectionalG float32 `json:"mie_directional_g"`

	// Água
	DistortionScale float64 `json:"distortion_scale"`
	WaterSize       float64 `json:"water_size"`

	// Debug
	ShowDebugInfo bool `json:"show_debug_info"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "OceanTrailer",
		Fullscreen:   false,
		TargetFPS:    60,

		AssetBase:           "assets",
		ModelPath:           "second.glb",
		WaterNormals:        "textures/waternormals.jpg",
		CacheDir:            filepath.Join(os.TempDir(), "oceantrailer-cache"),
		FetchTimeout:        0,
		LoadingErrorTimeout: 5.0,

		ServerAddr: ":8080",
		ServerDir:  "assets",

		FOV:               75.0,
		Near:              0.1,
		Far:               50.0,
		CameraDamping:     0.1,
		CameraSensitivity: 0.005,
		ZoomSpeed:         0.95,
		PanSpeed:          0.002,

		Elevation:       2,
		Azimuth:         180,
		Turbidity:       10,
		Rayleigh:        2,
		MieCoefficient:  0.005,
		MieDirectionalG: 0.8,

		DistortionScale: 3.7,
		WaterSize:       1.0,

		ShowDebugInfo: true,
	}
}

// DefaultPath retorna o caminho do arquivo de configuração ao lado do executável.
func DefaultPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações de um arquivo JSON.
// Se o arquivo não existir ou for inválido, retorna as configurações padrão.
// Campos ausentes no JSON mantêm o valor padrão.
func Load(path string) *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}
