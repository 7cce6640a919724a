package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

func main() {
	fmt.Println(ColorCyan + "╔══════════════════════════════════════╗" + ColorReset)
	fmt.Println(ColorCyan + "║    OceanTrailer Native Builder       ║" + ColorReset)
	fmt.Println(ColorCyan + "╚══════════════════════════════════════╝" + ColorReset)

	start := time.Now()

	skipTests := len(os.Args) > 1 && os.Args[1] == "-skip-tests"

	// 1. Configurar Ambiente
	setupEnvironment()

	// Pacotes sem raylib rodam sem contexto GL
	if !skipTests {
		if err := runTests(); err != nil {
			fatal(err)
		}
	}

	// 2. Compilar Servidor (só net/http, sem CGO)
	if err := buildComponent("SERVIDOR (Pure Go)", "servidor", "servidor/"+exe("server"), false, "-s -w"); err != nil {
		fatal(err)
	}

	// 3. Compilar Cliente (raylib exige CGO)
	if err := buildComponent("CLIENTE (CGO + GUI)", "cliente", "cliente/"+exe("client"), true, clientLdflags()); err != nil {
		fatal(err)
	}

	// 4. Compilar Launcher
	if err := buildComponent("LAUNCHER (Pure Go)", "launcher", exe("OceanTrailer"), false, "-s -w"); err != nil {
		fatal(err)
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada com sucesso em %v!"+ColorReset+"\n", time.Since(start).Round(time.Second))
	fmt.Println(ColorYellow + "Dica: Execute o 'OceanTrailer' para abrir o trailer." + ColorReset)

	fmt.Println("\nPressione Enter para sair...")
	fmt.Scanln()
}

func setupEnvironment() {
	fmt.Println(ColorYellow + "\n[0/3] Configurando ambiente de compilação..." + ColorReset)

	// Adicionar MSYS2 ao PATH se estiver no Windows
	if runtime.GOOS == "windows" {
		msysPath := `C:\msys64\mingw64\bin`
		currentPath := os.Getenv("PATH")
		if !strings.Contains(currentPath, msysPath) {
			os.Setenv("PATH", msysPath+";"+currentPath)
			fmt.Printf("  - PATH atualizado: %s adicionado.\n", msysPath)
		}
		os.Setenv("CC", "gcc")
		fmt.Println("  - Compilador C: gcc (MSYS2)")
	}
}

func exe(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// clientLdflags liga o link estático e o subsistema GUI só no Windows (MSYS2).
func clientLdflags() string {
	if runtime.GOOS == "windows" {
		return "-extldflags=-static -s -w -H=windowsgui"
	}
	return "-s -w"
}

func buildComponent(name, dir, output string, useCgo bool, ldflags string) error {
	fmt.Printf(ColorYellow+"\n[+] Compilando %s..."+ColorReset+"\n", name)

	cgoValue := "0"
	if useCgo {
		cgoValue = "1"
	}
	os.Setenv("CGO_ENABLED", cgoValue)

	args := []string{"build", "-ldflags", ldflags, "-o", output, "./" + dir}
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("falha ao compilar %s: %v", name, err)
	}

	fmt.Printf(ColorGreen+"  - %s compilado com sucesso -> %s"+ColorReset+"\n", name, output)
	return nil
}

// runTests roda os testes dos pacotes que não dependem de janela.
func runTests() error {
	fmt.Println(ColorYellow + "\n[+] Rodando testes..." + ColorReset)

	pkgs := []string{
		"./shared/...",
		"./servidor/...",
		"./cliente/internal/camera/...",
		"./cliente/internal/clock/...",
		"./cliente/internal/environment/...",
		"./cliente/internal/hud/...",
		"./cliente/internal/loader/...",
		"./cliente/internal/scene/...",
		"./cliente/internal/trailer/...",
	}
	os.Setenv("CGO_ENABLED", "0")
	cmd := exec.Command("go", append([]string{"test"}, pkgs...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("testes falharam: %v", err)
	}

	fmt.Println(ColorGreen + "  - Testes OK" + ColorReset)
	return nil
}

func fatal(err error) {
	fmt.Printf("\n"+ColorRed+"[ERRO FATAL] %v"+ColorReset+"\n", err)
	fmt.Println("Pressione Enter para sair...")
	fmt.Scanln()
	os.Exit(1)
}
