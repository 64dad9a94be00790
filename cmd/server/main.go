package main

import (
	"context"
	"log"

	"github.com/dkurochkin/courier/internal/server"
	"github.com/dkurochkin/courier/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
