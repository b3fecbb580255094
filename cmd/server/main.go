package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/gophsnap/internal/buildinfo"
	"github.com/dmitrijs2005/gophsnap/internal/common"
	"github.com/dmitrijs2005/gophsnap/internal/server"
	"github.com/dmitrijs2005/gophsnap/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		if errors.Is(err, common.ErrPathUnwritable) {
			log.Fatalf("database path %q is not writable: %v", cfg.DatabasePath, err)
		}
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
