package main

import (
	"context"
	"log"

	"github.com/matchforge/gatherer/internal/gatherer"
	"github.com/matchforge/gatherer/internal/gatherer/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := gatherer.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
