package app

import (
	"context"
	"log"

	"fiado-ledger/internal/ai"
	"fiado-ledger/internal/config"
	"fiado-ledger/internal/core"
	"fiado-ledger/internal/store"
)

// AppVersion is written to storage as the data version marker.
const AppVersion = "1.3.0"

// Bootstrap opens the configured store and wires the service the entry points
// share. The returned close function releases the storage backend.
func Bootstrap(ctx context.Context, cfg *config.Config) (ApplicationService, func() error, error) {
	st, err := store.OpenConfigured(ctx, cfg.Store, AppVersion)
	if err != nil {
		return nil, nil, err
	}

	if cfg.AI.APIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set; reminders and analyses will return fallback text")
	}
	agent := ai.NewAgent(cfg.AI.APIKey, cfg.AI.Model)

	svc := NewAppService(st, core.NewBuilder(cfg.Ledger.PaymentMethods), agent, Options{
		Version:            AppVersion,
		TopDebtors:         cfg.Ledger.TopDebtors,
		RecentTransactions: cfg.Ledger.RecentTransactions,
	})
	return svc, st.Close, nil
}
