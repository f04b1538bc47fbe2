package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// CartLine is one product line of a sale on credit.
type CartLine struct {
	Product  Product
	Quantity int
}

// Builder validates input and constructs new transactions. It never persists
// anything; a rejected build leaves no trace.
type Builder struct {
	Now            func() time.Time
	PaymentMethods []string
}

// NewBuilder returns a Builder using the wall clock and the given payment
// methods (DefaultPaymentMethods when empty).
func NewBuilder(methods []string) *Builder {
	if len(methods) == 0 {
		methods = DefaultPaymentMethods
	}
	return &Builder{Now: time.Now, PaymentMethods: methods}
}

// BuildDebt snapshots each cart line at the product's current default price.
func (b *Builder) BuildDebt(debtorID, date string, cart []CartLine) (Transaction, error) {
	if len(cart) == 0 {
		return Transaction{}, ErrEmptyCart
	}
	ts, err := b.stamp(date)
	if err != nil {
		return Transaction{}, err
	}

	items := make([]LineItem, 0, len(cart))
	total := decimal.Zero
	for _, line := range cart {
		if line.Quantity < 1 {
			return Transaction{}, ErrInvalidQuantity
		}
		if line.Product.DefaultPrice.IsNegative() {
			return Transaction{}, invalid("unitPrice", "price of %q cannot be negative", line.Product.Name)
		}
		lineTotal := line.Product.DefaultPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, LineItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.Product.DefaultPrice,
			Total:       lineTotal,
		})
		total = total.Add(lineTotal)
	}

	return Transaction{
		ID:          uuid.NewString(),
		DebtorID:    debtorID,
		Type:        TransactionDebt,
		Date:        ts,
		TotalAmount: total,
		Items:       items,
	}, nil
}

// BuildPayment parses amount ("25.00" or "25,00") and checks method against the
// configured set. A blank method means the first configured one.
func (b *Builder) BuildPayment(debtorID, date, amount, method string) (Transaction, error) {
	amt, err := ParseAmount(amount)
	if err != nil {
		return Transaction{}, err
	}
	method = strings.TrimSpace(method)
	if method == "" {
		method = b.methods()[0]
	}
	if !b.knownMethod(method) {
		return Transaction{}, ErrUnknownPaymentMethod
	}
	ts, err := b.stamp(date)
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{
		ID:            uuid.NewString(),
		DebtorID:      debtorID,
		Type:          TransactionPayment,
		Date:          ts,
		TotalAmount:   amt,
		PaymentMethod: method,
	}, nil
}

// ParseAmount accepts a positive decimal with either '.' or ',' as separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	amt, err := decimal.NewFromString(s)
	if err != nil || !amt.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amt, nil
}

// stamp combines the user-chosen calendar date with the current time of day,
// so same-day entries keep their entry order when sorted by timestamp.
func (b *Builder) stamp(date string) (time.Time, error) {
	now := b.clock()
	date = strings.TrimSpace(date)
	if date == "" {
		return now.Truncate(time.Second), nil
	}
	day, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, now.Location()), nil
}

func (b *Builder) clock() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *Builder) methods() []string {
	if len(b.PaymentMethods) == 0 {
		return DefaultPaymentMethods
	}
	return b.PaymentMethods
}

func (b *Builder) knownMethod(method string) bool {
	for _, m := range b.methods() {
		if m == method {
			return true
		}
	}
	return false
}
