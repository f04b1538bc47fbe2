package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize trims form input.
func (d *Debtor) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Notes = strings.TrimSpace(d.Notes)
	d.Status = DebtorStatus(strings.ToUpper(strings.TrimSpace(string(d.Status))))
}

// Validate checks the fields a customer form requires.
func (d *Debtor) Validate() error {
	if d.Name == "" {
		return invalid("name", "name is required")
	}
	if d.Phone == "" {
		return invalid("phone", "phone is required")
	}
	if !d.Status.Valid() {
		return invalid("status", "unknown status %q", d.Status)
	}
	return nil
}

// Matches reports whether the debtor's name (case-insensitive) or phone
// contains term. An empty term matches everything.
func (d *Debtor) Matches(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Name), strings.ToLower(term)) ||
		strings.Contains(d.Phone, term)
}

func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
}

// Validate requires a name and a strictly positive default price.
func (p *Product) Validate() error {
	if p.Name == "" {
		return invalid("name", "name is required")
	}
	if !p.DefaultPrice.GreaterThan(decimal.Zero) {
		return invalid("defaultPrice", "price must be greater than zero")
	}
	return nil
}
