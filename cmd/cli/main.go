package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/flatcms/internal/cli"
	"github.com/dmitrijs2005/flatcms/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx, cli.CommandArgs(os.Args[1:])); err != nil {
		log.Fatalf("%v", err)
	}

}
