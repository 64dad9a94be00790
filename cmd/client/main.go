package main

import (
	"context"

	"github.com/dkurochkin/courier/internal/client/cli"
	"github.com/dkurochkin/courier/internal/client/config"
)

func main() {

	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	app.Run(context.Background())

}
