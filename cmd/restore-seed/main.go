// restore-seed is a one-shot tool to restore the starter product catalog.
// Run it when the catalog has been emptied or edited beyond repair. Debtors
// and transactions are not touched.
//
// Usage: go run ./cmd/restore-seed [--config fiado.yaml]
package main

import (
	"context"
	"flag"
	"log"

	"fiado-ledger/internal/app"
	"fiado-ledger/internal/config"
	"fiado-ledger/internal/core"
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
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	log.Printf("Restoring starter catalog in %s store...", cfg.Store.Driver)
	result, err := svc.RestoreStarterCatalog(ctx)
	if err != nil {
		closeStore()
		log.Fatalf("Failed to restore catalog: %v", err)
	}
	for _, p := range result.Products {
		log.Printf("  %s  %-20s R$ %s", p.ID, p.Name, core.FormatBRL(p.DefaultPrice))
	}
	log.Println("Catalog restored.")
}
