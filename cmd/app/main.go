package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"

	"fiado-ledger/internal/adapters/cli"
	"fiado-ledger/internal/adapters/repl"
	"fiado-ledger/internal/app"
	"fiado-ledger/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	svc, closeStore, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	if args := flag.Args(); len(args) > 0 {
		if err := cli.Run(ctx, svc, args, os.Stdout); err != nil {
			closeStore()
			log.Fatal(err)
		}
		return
	}

	repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout)
}
