package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"OceanTrailer/shared/config"
)

func main() {
	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║       OceanTrailer Launcher          ║")
	fmt.Println("╚══════════════════════════════════════╝")

	cfg := config.DefaultConfig()
	baseURL := "http://localhost" + cfg.ServerAddr

	// 1. Iniciar o Servidor de assets
	fmt.Println("[1/2] Iniciando Servidor de assets...")
	server, err := startServer()
	if err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	// 2. Aguardar o servidor responder
	fmt.Println("Aguardando o servidor...")
	if !waitForServer(baseURL, 5*time.Second) {
		fmt.Println("Aviso: o servidor não respondeu a tempo; o cliente mostrará o erro de carga.")
	}

	// 3. Iniciar o Cliente apontando para o servidor
	fmt.Println("[2/2] Abrindo Cliente...")

	absClientPath, err := filepath.Abs(filepath.Join("cliente", binaryName("client")))
	if err != nil {
		log.Fatalf("Erro ao resolver caminho do cliente: %v", err)
	}

	clientCmd := exec.Command(absClientPath, "-base", baseURL)
	clientCmd.Dir = "cliente"

	if err := clientCmd.Start(); err != nil {
		fmt.Printf("ERRO CRÍTICO: Não foi possível executar o cliente em %s\n", absClientPath)
		fmt.Printf("Detalhes: %v\n", err)
		fmt.Println("Pressione Enter para sair...")
		fmt.Scanln()
		return
	}

	fmt.Println("\nSucesso! OceanTrailer foi iniciado.")

	// Fora do Windows o servidor é filho do launcher: espera o cliente e derruba o servidor
	if server != nil {
		clientCmd.Wait()
		server.Process.Kill()
		return
	}
	fmt.Println("O Launcher fechará automaticamente em 2 segundos...")
	time.Sleep(2 * time.Second)
}

// startServer abre o servidor numa janela própria no Windows (para ver os logs).
// Nos outros sistemas retorna o processo filho.
func startServer() (*exec.Cmd, error) {
	if runtime.GOOS == "windows" {
		cmd := exec.Command("cmd", "/c", "start", "OceanTrailer SERVER", "server.exe")
		cmd.Dir = "servidor"
		return nil, cmd.Run()
	}

	cmd := exec.Command("./server")
	cmd.Dir = "servidor"
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, cmd.Start()
}

func waitForServer(url string, timeout time.Duration) bool {
	client := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Head(url)
		if err == nil {
			resp.Body.Close()
			return true
		}
		time.Sleep(200 * time.Millisecond)
	}
	return false
}

func binaryName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
