package core_test

import (
	"testing"
	"time"

	"fiado-ledger/internal/core"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func debt(id, debtorID, amount string, at time.Time, seq uint64) core.Transaction {
	return core.Transaction{ID: id, DebtorID: debtorID, Type: core.TransactionDebt, TotalAmount: dec(amount), Date: at, Seq: seq}
}

func payment(id, debtorID, amount string, at time.Time, seq uint64) core.Transaction {
	return core.Transaction{ID: id, DebtorID: debtorID, Type: core.TransactionPayment, TotalAmount: dec(amount), Date: at, Seq: seq, PaymentMethod: "PIX"}
}

func TestBalance(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		debt("t1", "ana", "18.00", at, 1),
		debt("t2", "ana", "7.35", at, 2),
		payment("t3", "ana", "10.10", at, 3),
		debt("t4", "bia", "99.99", at, 4),
		payment("t5", "bia", "120.00", at, 5),
	}

	tests := []struct {
		name     string
		debtorID string
		want     string
	}{
		{"debts minus payments", "ana", "15.25"},
		{"overpaid debtor goes negative", "bia", "-20.01"},
		{"no transactions is exactly zero", "caio", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.Balance(txs, tt.debtorID)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Balance(%s) = %s, want %s", tt.debtorID, got, tt.want)
			}
		})
	}
}

func TestBalance_NoRoundingDuringAccumulation(t *testing.T) {
	txs := []core.Transaction{
		debt("t1", "ana", "0.005", time.Time{}, 1),
		debt("t2", "ana", "0.005", time.Time{}, 2),
	}
	if got := core.Balance(txs, "ana"); !got.Equal(dec("0.01")) {
		t.Errorf("Balance = %s, want 0.01", got)
	}
}

func TestTopDebtors_StableOnTies(t *testing.T) {
	balances := []string{"120", "300", "0", "-40", "300", "50"}
	ids := []string{"a", "b", "c", "d", "e", "f"}

	var debtors []core.Debtor
	var txs []core.Transaction
	for i, id := range ids {
		debtors = append(debtors, core.Debtor{ID: id, Name: id})
		b := dec(balances[i])
		switch {
		case b.IsPositive():
			txs = append(txs, debt("d-"+id, id, balances[i], time.Time{}, uint64(i+1)))
		case b.IsNegative():
			txs = append(txs, payment("p-"+id, id, b.Neg().String(), time.Time{}, uint64(i+1)))
		}
	}

	top := core.TopDebtors(debtors, txs, 5)
	wantIDs := []string{"b", "e", "a", "f", "c"}
	if len(top) != len(wantIDs) {
		t.Fatalf("got %d debtors, want %d", len(top), len(wantIDs))
	}
	for i, want := range wantIDs {
		if top[i].Debtor.ID != want {
			t.Errorf("position %d: got %s, want %s", i, top[i].Debtor.ID, want)
		}
	}
}

func TestTotalOutstanding_ExcludesOrphans(t *testing.T) {
	debtors := []core.Debtor{{ID: "ana"}, {ID: "bia"}}
	txs := []core.Transaction{
		debt("t1", "ana", "50", time.Time{}, 1),
		debt("t2", "bia", "25.5", time.Time{}, 2),
		payment("t3", "bia", "5.5", time.Time{}, 3),
		debt("t4", "deleted", "1000", time.Time{}, 4),
	}
	if got := core.TotalOutstanding(debtors, txs); !got.Equal(dec("70")) {
		t.Errorf("TotalOutstanding = %s, want 70", got)
	}
}

func TestStatement_NewestFirstWithSequenceTieBreak(t *testing.T) {
	day := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	txs := []core.Transaction{
		debt("old", "ana", "1", day.AddDate(0, 0, -3), 1),
		debt("same-1", "ana", "1", day, 2),
		debt("other", "bia", "1", day, 3),
		payment("same-2", "ana", "1", day, 4),
		debt("later", "ana", "1", day.Add(time.Minute), 5),
	}

	got := core.Statement(txs, "ana")
	want := []string{"later", "same-2", "same-1", "old"}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestRecentHistory(t *testing.T) {
	var txs []core.Transaction
	for i := 1; i <= 7; i++ {
		txs = append(txs, debt(string(rune('a'+i)), "ana", "1", time.Time{}, uint64(i)))
	}
	txs = append(txs, payment("p1", "ana", "1", time.Time{}, 8))

	debts := core.RecentHistory(txs, "ana", core.TransactionDebt, 5)
	if len(debts) != 5 || debts[0].Seq != 3 || debts[4].Seq != 7 {
		t.Errorf("unexpected debt history: %+v", debts)
	}
	payments := core.RecentHistory(txs, "ana", core.TransactionPayment, 5)
	if len(payments) != 1 || payments[0].ID != "p1" {
		t.Errorf("unexpected payment history: %+v", payments)
	}
}
