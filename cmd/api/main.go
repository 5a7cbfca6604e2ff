package main

import (
	"log"

	"casefile-backend/internal/shared/config"
	"casefile-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()
	if err := server.Serve(cfg); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
