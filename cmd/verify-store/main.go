// verify-store opens the configured storage backend and prints what it holds.
// It is safe to run against production data: nothing is written except the
// version marker.
package main

import (
	"context"
	"flag"
	"log"

	"fiado-ledger/internal/app"
	"fiado-ledger/internal/config"
	"fiado-ledger/internal/core"
	"fiado-ledger/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	st, err := store.OpenConfigured(ctx, cfg.Store, app.AppVersion)
	if err != nil {
		log.Fatalf("[FAIL] %v", err)
	}
	defer st.Close()

	snap := st.Snapshot()
	prev := st.PreviousVersion()
	if prev == "" {
		prev = "(none)"
	}

	log.Printf("[OK] driver=%s previous_version=%s current_version=%s", cfg.Store.Driver, prev, app.AppVersion)
	log.Printf("[OK] debtors=%d products=%d transactions=%d", len(snap.Debtors), len(snap.Products), len(snap.Transactions))

	orphans := 0
	known := make(map[string]bool, len(snap.Debtors))
	for _, d := range snap.Debtors {
		known[d.ID] = true
	}
	for _, t := range snap.Transactions {
		if !known[t.DebtorID] {
			orphans++
		}
	}
	if orphans > 0 {
		log.Printf("[WARN] %d transactions reference unknown debtors", orphans)
	}

	total := core.TotalOutstanding(snap.Debtors, snap.Transactions)
	log.Printf("[DONE] outstanding R$ %s", core.FormatBRL(total))
}
