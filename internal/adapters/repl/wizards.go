package repl

import (
	"fmt"
	"strconv"
	"strings"

	"fiado-ledger/internal/app"
	"fiado-ledger/internal/core"
)

func (s *session) prompt(label string) string {
	fmt.Fprint(s.out, label)
	line, _ := s.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// newDebtor asks for the debtor fields one by one.
func (s *session) newDebtor() error {
	req := app.DebtorInput{
		Name:   s.prompt("Name: "),
		Phone:  s.prompt("Phone: "),
		Status: s.prompt("Status [OTIMO|BOM|REGULAR|CALOTEIRO] (blank for REGULAR): "),
		Notes:  s.prompt("Notes (optional): "),
	}
	d, err := s.svc.CreateDebtor(s.ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Debtor created: %s (ID: %s)\n", d.Name, d.ID)
	return nil
}

func (s *session) newProduct() error {
	req := app.ProductInput{
		Name:         s.prompt("Product name: "),
		DefaultPrice: s.prompt("Price (e.g. 4,50): "),
	}
	p, err := s.svc.CreateProduct(s.ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Product created: %s at R$ %s (ID: %s)\n", p.Name, core.FormatBRL(p.DefaultPrice), p.ID)
	return nil
}

// newDebt runs the cart session for a sale on credit. Nothing is written until
// the cart is confirmed with 'done'.
func (s *session) newDebt(debtorID string) error {
	debtor, err := s.svc.GetDebtor(s.ctx, debtorID)
	if err != nil {
		return err
	}
	products, err := s.svc.ListProducts(s.ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "New sale on credit for %s (current balance R$ %s)\n",
		debtor.Debtor.Name, core.FormatBRL(debtor.Balance))
	fmt.Fprintln(s.out, "Catalog:")
	for i, p := range products.Products {
		fmt.Fprintf(s.out, "  %d) %-28s R$ %s\n", i+1, p.Name, core.FormatBRL(p.DefaultPrice))
	}
	fmt.Fprintln(s.out, "Add lines as: <catalog-number> [quantity]. Type 'done' to finish, 'cancel' to abort.")

	var lines []app.CartLineInput
	for {
		raw := s.prompt(fmt.Sprintf("  Item %d: ", len(lines)+1))
		switch strings.ToLower(raw) {
		case "cancel":
			fmt.Fprintln(s.out, "Sale cancelled.")
			return nil
		case "done":
			if len(lines) == 0 {
				fmt.Fprintln(s.out, "Cart is empty. Sale not recorded.")
				return nil
			}
			date := s.prompt("Date (YYYY-MM-DD, blank for today): ")
			result, err := s.svc.RecordDebt(s.ctx, app.RecordDebtRequest{DebtorID: debtorID, Date: date, Items: lines})
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "Sale recorded: R$ %s. New balance: R$ %s\n",
				core.FormatBRL(result.Transaction.TotalAmount), core.FormatBRL(result.Balance))
			return nil
		case "":
			// blank line: ask again unless input is exhausted
			if _, err := s.in.Peek(1); err != nil {
				fmt.Fprintln(s.out, "\nSale cancelled.")
				return nil
			}
			continue
		}

		parts := strings.Fields(raw)
		n, err := strconv.Atoi(parts[0])
		if err != nil || n < 1 || n > len(products.Products) {
			fmt.Fprintln(s.out, "  Unknown catalog number.")
			continue
		}
		qty := 1
		if len(parts) >= 2 {
			qty, err = strconv.Atoi(parts[1])
			if err != nil || qty < 1 {
				fmt.Fprintln(s.out, "  Quantity must be a whole number of at least 1.")
				continue
			}
		}
		p := products.Products[n-1]
		lines = append(lines, app.CartLineInput{ProductID: p.ID, Quantity: qty})
		fmt.Fprintf(s.out, "  + %dx %s\n", qty, p.Name)
	}
}
