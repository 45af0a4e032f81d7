package main

import (
	"log"

	"ticket-intake/internal/shared/config"
	"ticket-intake/internal/shared/server"
)

func main() {
	cfg := config.Load()
	r := server.NewRouter(cfg)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting intake API server on %s (provider=%s model=%s)", addr, cfg.LLMProvider, cfg.LLMModel)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
