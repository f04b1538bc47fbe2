package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type DebtorStatus string

const (
	StatusOtimo     DebtorStatus = "OTIMO"
	StatusBom       DebtorStatus = "BOM"
	StatusRegular   DebtorStatus = "REGULAR"
	StatusCaloteiro DebtorStatus = "CALOTEIRO"
)

// Valid reports whether s is one of the known classifications. The blank status
// is accepted for records created before classifications existed.
func (s DebtorStatus) Valid() bool {
	switch s {
	case "", StatusOtimo, StatusBom, StatusRegular, StatusCaloteiro:
		return true
	}
	return false
}

// Label returns the status, or REGULAR when unset.
func (s DebtorStatus) Label() string {
	if s == "" {
		return string(StatusRegular)
	}
	return string(s)
}

type TransactionType string

const (
	TransactionDebt    TransactionType = "DEBT"
	TransactionPayment TransactionType = "PAYMENT"
)

type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DefaultPrice decimal.Decimal `json:"defaultPrice"`
}

type Debtor struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Phone     string       `json:"phone"`
	Status    DebtorStatus `json:"status,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// LineItem is a snapshot of a product at the moment of sale. Later edits or
// deletion of the product never touch it.
type LineItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// Transaction is an append-only ledger record.
// DEBT carries Items and TotalAmount = sum(Items.Total); PAYMENT carries
// PaymentMethod and no Items.
type Transaction struct {
	ID            string          `json:"id"`
	DebtorID      string          `json:"debtorId"`
	Type          TransactionType `json:"type"`
	Date          time.Time       `json:"date"`
	Seq           uint64          `json:"seq,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Items         []LineItem      `json:"items,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
}

// Signed returns the transaction's contribution to the debtor balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionPayment {
		return t.TotalAmount.Neg()
	}
	return t.TotalAmount
}

// DefaultPaymentMethods is the starter set of payment labels. The set is
// extended through configuration.
var DefaultPaymentMethods = []string{"Dinheiro", "PIX", "Cartão", "Serviço"}

// DefaultProducts returns the starter catalog used when no catalog was ever saved.
func DefaultProducts() []Product {
	return []Product{
		{ID: "1", Name: "Cerveja Lata", DefaultPrice: decimal.RequireFromString("4.50")},
		{ID: "2", Name: "Refrigerante 2L", DefaultPrice: decimal.RequireFromString("9.00")},
		{ID: "3", Name: "Salgadinho", DefaultPrice: decimal.RequireFromString("7.00")},
		{ID: "4", Name: "Pão (kg)", DefaultPrice: decimal.RequireFromString("12.00")},
	}
}
