package app

// DebtorInput is the input for creating or updating a debtor.
type DebtorInput struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// ProductInput is the input for creating or updating a catalog product.
// DefaultPrice accepts "4.50" or "4,50".
type ProductInput struct {
	Name         string `json:"name"`
	DefaultPrice string `json:"defaultPrice"`
}

// RecordDebtRequest is the input for a sale on credit.
type RecordDebtRequest struct {
	DebtorID string          `json:"-"`
	Date     string          `json:"date"` // YYYY-MM-DD, blank for today
	Items    []CartLineInput `json:"items"`
}

// CartLineInput references a catalog product by id.
type CartLineInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// RecordPaymentRequest is the input for a payment received.
type RecordPaymentRequest struct {
	DebtorID      string `json:"-"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
}
