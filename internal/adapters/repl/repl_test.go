package repl_test

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"fiado-ledger/internal/adapters/repl"
	"fiado-ledger/internal/ai"
	"fiado-ledger/internal/app"
	"fiado-ledger/internal/core"
	"fiado-ledger/internal/store"

	"github.com/shopspring/decimal"
)

type echoAgent struct{}

func (echoAgent) Reminder(_ context.Context, req ai.ReminderRequest) string {
	return "Cobrança para " + req.DebtorName + ": R$ " + core.FormatBRL(req.TotalDebt)
}

func (echoAgent) Analyze(context.Context, ai.AnalysisRequest) ai.Analysis {
	yes := true
	return ai.Analysis{Text: "Paga em dia.", ExtendCredit: &yes}
}

func newSession(t *testing.T) (app.ApplicationService, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), store.NewMemoryBackend(), "1.3.0")
	if err != nil {
		t.Fatal(err)
	}
	b := core.NewBuilder(nil)
	b.Now = func() time.Time { return time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC) }
	return app.NewAppService(st, b, echoAgent{}, app.Options{Version: "1.3.0"}), st
}

func runScript(t *testing.T, svc app.ApplicationService, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	repl.Run(context.Background(), svc, in, &out)
	return out.String()
}

func TestREPL_NewDebtorAndCart(t *testing.T) {
	svc, st := newSession(t)

	out := runScript(t, svc,
		"/new-debtor",
		"Maria",
		"21 95555-0000",
		"bom",
		"",
	)
	if !strings.Contains(out, "Debtor created: Maria") {
		t.Fatalf("debtor not created:\n%s", out)
	}
	d := st.Snapshot().Debtors[0]

	out = runScript(t, svc,
		"/debt "+d.ID,
		"1 2",   // 2x Cerveja Lata
		"9",     // unknown catalog number
		"2 0",   // invalid quantity
		"2",     // 1x Refrigerante 2L
		"done",
		"",      // today
		"/pay "+d.ID+" 3,00 PIX",
		"/exit",
	)
	for _, want := range []string{
		"Unknown catalog number.",
		"Quantity must be a whole number",
		"Sale recorded: R$ 18,00. New balance: R$ 18,00",
		"Payment of R$ 3,00 recorded (PIX). New balance: R$ 15,00",
		"Goodbye!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	txs := st.Snapshot().Transactions
	if len(txs) != 2 || !core.Balance(txs, d.ID).Equal(decimal.RequireFromString("15")) {
		t.Errorf("unexpected log: %+v", txs)
	}
}

func TestREPL_CancelledCartWritesNothing(t *testing.T) {
	svc, st := newSession(t)
	d, _ := svc.CreateDebtor(context.Background(), app.DebtorInput{Name: "José", Phone: "1"})

	out := runScript(t, svc, "/debt "+d.ID, "1 3", "cancel", "/debt "+d.ID, "done")
	if !strings.Contains(out, "Sale cancelled.") || !strings.Contains(out, "Cart is empty.") {
		t.Errorf("output:\n%s", out)
	}
	if n := len(st.Snapshot().Transactions); n != 0 {
		t.Errorf("cancelled sale wrote %d transactions", n)
	}
}

func TestREPL_ErrorsAndAI(t *testing.T) {
	svc, _ := newSession(t)
	d, _ := svc.CreateDebtor(context.Background(), app.DebtorInput{Name: "José", Phone: "1"})

	out := runScript(t, svc,
		"hello",
		"/pay "+d.ID+" -5",
		"/pay "+d.ID+" 5 Cheque",
		"/statement nobody",
		"/remind "+d.ID+" firm",
		"/remind "+d.ID+" rude",
		"/analyze "+d.ID,
		"/frobnicate",
	)
	for _, want := range []string{
		"Commands start with '/'",
		"Error: amount: amount must be a number greater than zero",
		"Error: paymentMethod: unknown payment method",
		"not found",
		"Cobrança para José: R$ 0,00",
		"Error: tone:",
		"Paga em dia.",
		"Keep selling on credit: yes",
		"Unknown command: /frobnicate",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
