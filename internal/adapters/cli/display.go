package cli

import (
	"fmt"
	"io"
	"strings"

	"fiado-ledger/internal/app"
	"fiado-ledger/internal/core"

	"github.com/shopspring/decimal"
)

const timestampLayout = "02/01/2006 15:04"

func money(d decimal.Decimal) string {
	return "R$ " + core.FormatBRL(d)
}

func rule(w io.Writer, ch string, n int) {
	fmt.Fprintln(w, strings.Repeat(ch, n))
}

// PrintDebtors renders the debtor list with balances.
func PrintDebtors(w io.Writer, result *app.DebtorListResult) {
	fmt.Fprintln(w)
	rule(w, "=", 86)
	fmt.Fprintf(w, "  %-36s %-22s %-10s %12s\n", "ID", "NAME", "STATUS", "BALANCE")
	rule(w, "-", 86)
	if len(result.Debtors) == 0 {
		fmt.Fprintln(w, "  No debtors found.")
	}
	for _, b := range result.Debtors {
		fmt.Fprintf(w, "  %-36s %-22s %-10s %12s\n", b.Debtor.ID, truncate(b.Debtor.Name, 22), b.Debtor.Status.Label(), money(b.Balance))
	}
	rule(w, "=", 86)
}

// PrintProducts renders the catalog.
func PrintProducts(w io.Writer, result *app.ProductListResult) {
	fmt.Fprintln(w)
	rule(w, "=", 72)
	fmt.Fprintf(w, "  %-36s %-20s %12s\n", "ID", "NAME", "PRICE")
	rule(w, "-", 72)
	if len(result.Products) == 0 {
		fmt.Fprintln(w, "  No products found.")
	}
	for _, p := range result.Products {
		fmt.Fprintf(w, "  %-36s %-20s %12s\n", p.ID, truncate(p.Name, 20), money(p.DefaultPrice))
	}
	rule(w, "=", 72)
}

// PrintDashboard renders the totals, the top debtors and the latest entries.
func PrintDashboard(w io.Writer, d *core.Dashboard) {
	fmt.Fprintln(w)
	rule(w, "=", 62)
	fmt.Fprintf(w, "  Debtors           : %d\n", d.TotalDebtors)
	fmt.Fprintf(w, "  Products          : %d\n", d.TotalProducts)
	fmt.Fprintf(w, "  Total outstanding : %s\n", money(d.TotalOutstanding))
	rule(w, "=", 62)
	fmt.Fprintln(w, "  TOP DEBTORS")
	rule(w, "-", 62)
	for i, b := range d.TopDebtors {
		fmt.Fprintf(w, "  %d. %-40s %15s\n", i+1, truncate(b.Debtor.Name, 40), money(b.Balance))
	}
	rule(w, "-", 62)
	fmt.Fprintln(w, "  RECENT ACTIVITY")
	rule(w, "-", 62)
	if len(d.RecentTransactions) == 0 {
		fmt.Fprintln(w, "  No transactions yet.")
	}
	for _, t := range d.RecentTransactions {
		fmt.Fprintf(w, "  %s  %-7s %-24s %13s\n", t.Date.Format(timestampLayout), t.Type, truncate(t.DebtorName, 24), money(t.Signed()))
	}
	rule(w, "=", 62)
}

// PrintStatement renders one debtor's ledger, newest first.
func PrintStatement(w io.Writer, result *app.DebtorResult) {
	d := result.Debtor
	fmt.Fprintln(w)
	rule(w, "=", 70)
	fmt.Fprintf(w, "  %s  (%s)  %s\n", d.Name, d.Phone, d.Status.Label())
	if d.Notes != "" {
		fmt.Fprintf(w, "  Notes: %s\n", d.Notes)
	}
	fmt.Fprintf(w, "  Balance: %s\n", money(result.Balance))
	rule(w, "=", 70)
	if len(result.Statement) == 0 {
		fmt.Fprintln(w, "  No transactions.")
	}
	for _, t := range result.Statement {
		switch t.Type {
		case core.TransactionDebt:
			fmt.Fprintf(w, "  %s  DEBT     %15s\n", t.Date.Format(timestampLayout), money(t.TotalAmount))
			for _, it := range t.Items {
				fmt.Fprintf(w, "      %3dx %-30s %12s\n", it.Quantity, truncate(it.ProductName, 30), money(it.Total))
			}
		case core.TransactionPayment:
			fmt.Fprintf(w, "  %s  PAYMENT  %15s  %s\n", t.Date.Format(timestampLayout), money(t.TotalAmount.Neg()), t.PaymentMethod)
		}
	}
	rule(w, "=", 70)
}

// PrintAnalysis renders an analysis and, when available, the credit recommendation.
func PrintAnalysis(w io.Writer, result *app.AnalysisResult) {
	fmt.Fprintln(w, result.Text)
	if result.ExtendCredit != nil {
		verdict := "no"
		if *result.ExtendCredit {
			verdict = "yes"
		}
		fmt.Fprintf(w, "Keep selling on credit: %s\n", verdict)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
