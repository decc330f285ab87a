package main

import (
	"context"
	"log"

	"github.com/CS-Kiran/Manana/internal/server"
	"github.com/CS-Kiran/Manana/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
