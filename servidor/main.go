package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"OceanTrailer/shared/config"
)

func main() {
	defaults := config.DefaultConfig()
	addr := flag.String("addr", defaults.ServerAddr, "Endereço HTTP")
	dir := flag.String("dir", defaults.ServerDir, "Diretório de assets servido")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║     OceanTrailer Asset Server        ║")
	log.Println("╚══════════════════════════════════════╝")

	if info, err := os.Stat(*dir); err != nil || !info.IsDir() {
		log.Fatalf("[Servidor] Diretório de assets inválido: %s", *dir)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newAssetHandler(*dir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt)
		<-stop
		log.Println("[Servidor] Encerrando...")
		srv.Close()
	}()

	log.Printf("[Servidor] Servindo %s em %s", *dir, *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[Servidor] Erro no servidor HTTP: %v", err)
	}
}
