package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DebtorBalance pairs a debtor with its balance recomputed from the log.
type DebtorBalance struct {
	Debtor  Debtor          `json:"debtor"`
	Balance decimal.Decimal `json:"balance"`
}

// Balance returns the signed sum of the debtor's transactions: DEBT adds,
// PAYMENT subtracts. No rounding is applied. A debtor with no transactions
// has a balance of exactly zero.
func Balance(txs []Transaction, debtorID string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.DebtorID == debtorID {
			total = total.Add(t.Signed())
		}
	}
	return total
}

// Balances returns every debtor with its balance, in the debtors' order.
// Transactions referencing unknown debtors do not contribute.
func Balances(debtors []Debtor, txs []Transaction) []DebtorBalance {
	byDebtor := make(map[string]decimal.Decimal, len(debtors))
	for _, t := range txs {
		byDebtor[t.DebtorID] = byDebtor[t.DebtorID].Add(t.Signed())
	}
	out := make([]DebtorBalance, len(debtors))
	for i, d := range debtors {
		out[i] = DebtorBalance{Debtor: d, Balance: byDebtor[d.ID]}
	}
	return out
}

// TotalOutstanding is the sum of every known debtor's balance.
func TotalOutstanding(debtors []Debtor, txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, b := range Balances(debtors, txs) {
		total = total.Add(b.Balance)
	}
	return total
}

// TopDebtors returns at most n debtors ordered by descending balance.
// Equal balances keep the debtors' original order.
func TopDebtors(debtors []Debtor, txs []Transaction, n int) []DebtorBalance {
	ranked := Balances(debtors, txs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Balance.GreaterThan(ranked[j].Balance)
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Statement returns the debtor's transactions, newest first. Same-instant
// entries fall back to insertion sequence.
func Statement(txs []Transaction, debtorID string) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if t.DebtorID == debtorID {
			out = append(out, t)
		}
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders txs by timestamp descending, then by Seq descending.
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].Seq > txs[j].Seq
	})
}

// RecentHistory returns the last n transactions of the given type for a debtor,
// in append order.
func RecentHistory(txs []Transaction, debtorID string, typ TransactionType, n int) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if t.DebtorID == debtorID && t.Type == typ {
			out = append(out, t)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// FindDebtor returns the debtor with the given id.
func FindDebtor(debtors []Debtor, id string) (Debtor, bool) {
	for _, d := range debtors {
		if d.ID == id {
			return d, true
		}
	}
	return Debtor{}, false
}

// FindProduct returns the product with the given id.
func FindProduct(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
