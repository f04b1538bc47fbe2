// verify-agent sends one reminder and one analysis request to the configured
// model and prints the answers. It exits non-zero when either call fell back.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"fiado-ledger/internal/ai"
	"fiado-ledger/internal/config"

	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.AI.APIKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	agent := ai.NewAgent(cfg.AI.APIKey, cfg.AI.Model)
	ctx := context.Background()

	reminder := agent.Reminder(ctx, ai.ReminderRequest{
		DebtorName: "Seu Zé",
		TotalDebt:  decimal.RequireFromString("87.50"),
		Tone:       ai.ToneFunny,
	})
	fmt.Printf("--- REMINDER (%s) ---\n%s\n", cfg.AI.Model, reminder)

	day := func(n int) time.Time { return time.Now().AddDate(0, 0, -n) }
	analysis := agent.Analyze(ctx, ai.AnalysisRequest{
		DebtorName: "Seu Zé",
		Debts: []ai.HistoryEntry{
			{Date: day(30), Amount: decimal.RequireFromString("45.00")},
			{Date: day(12), Amount: decimal.RequireFromString("62.50")},
		},
		Payments: []ai.HistoryEntry{
			{Date: day(20), Amount: decimal.RequireFromString("20.00")},
		},
	})
	fmt.Printf("\n--- ANALYSIS ---\n%s\n", analysis.Text)
	if analysis.ExtendCredit != nil {
		fmt.Printf("Extend credit: %v\n", *analysis.ExtendCredit)
	}

	if reminder == ai.ReminderFailedText || analysis.Text == ai.AnalysisFailedText {
		log.Fatal("agent verification failed; see log above")
	}
}
