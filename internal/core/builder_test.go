package core_test

import (
	"errors"
	"testing"
	"time"

	"fiado-ledger/internal/core"
)

func fixedBuilder(now time.Time) *core.Builder {
	b := core.NewBuilder(nil)
	b.Now = func() time.Time { return now }
	return b
}

func TestBuildDebt_SnapshotsLines(t *testing.T) {
	b := fixedBuilder(time.Date(2024, 6, 1, 14, 5, 9, 500, time.UTC))
	beer := core.Product{ID: "1", Name: "Cerveja Lata", DefaultPrice: dec("4.50")}
	soda := core.Product{ID: "2", Name: "Refrigerante 2L", DefaultPrice: dec("9.00")}

	tx, err := b.BuildDebt("ana", "", []core.CartLine{{Product: beer, Quantity: 2}, {Product: soda, Quantity: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Type != core.TransactionDebt || tx.DebtorID != "ana" || tx.ID == "" {
		t.Errorf("unexpected header: %+v", tx)
	}
	if !tx.TotalAmount.Equal(dec("18.00")) {
		t.Errorf("TotalAmount = %s, want 18.00", tx.TotalAmount)
	}
	if len(tx.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(tx.Items))
	}
	for i, item := range tx.Items {
		if !item.Total.Equal(dec("9.00")) {
			t.Errorf("item %d total = %s, want 9.00", i, item.Total)
		}
	}
	if tx.Items[0].ProductName != "Cerveja Lata" || !tx.Items[0].UnitPrice.Equal(dec("4.50")) || tx.Items[0].Quantity != 2 {
		t.Errorf("first item not snapshotted: %+v", tx.Items[0])
	}
	if tx.PaymentMethod != "" {
		t.Errorf("debt must not carry a payment method, got %q", tx.PaymentMethod)
	}
}

func TestBuildDebt_Rejections(t *testing.T) {
	b := fixedBuilder(time.Now())
	p := core.Product{ID: "1", Name: "Pão", DefaultPrice: dec("12")}

	tests := []struct {
		name string
		date string
		cart []core.CartLine
		want error
	}{
		{"empty cart", "", nil, core.ErrEmptyCart},
		{"zero quantity", "", []core.CartLine{{Product: p, Quantity: 0}}, core.ErrInvalidQuantity},
		{"negative quantity", "", []core.CartLine{{Product: p, Quantity: -2}}, core.ErrInvalidQuantity},
		{"bad date", "01/02/2024", []core.CartLine{{Product: p, Quantity: 1}}, core.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.BuildDebt("ana", tt.date, tt.cart)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if !errors.Is(err, core.ErrValidation) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestBuildPayment(t *testing.T) {
	b := fixedBuilder(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))

	tx, err := b.BuildPayment("ana", "", "25.00", "PIX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.TotalAmount.Equal(dec("25.00")) || tx.PaymentMethod != "PIX" || tx.Items != nil || tx.Type != core.TransactionPayment {
		t.Errorf("unexpected payment: %+v", tx)
	}

	tx, err = b.BuildPayment("ana", "", "7,50", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.TotalAmount.Equal(dec("7.5")) || tx.PaymentMethod != "Dinheiro" {
		t.Errorf("comma amount or default method not applied: %+v", tx)
	}
}

func TestBuildPayment_Rejections(t *testing.T) {
	b := fixedBuilder(time.Now())

	tests := []struct {
		name   string
		amount string
		method string
		want   error
	}{
		{"missing amount", "", "PIX", core.ErrInvalidAmount},
		{"non numeric", "abc", "PIX", core.ErrInvalidAmount},
		{"zero", "0", "PIX", core.ErrInvalidAmount},
		{"negative", "-5", "PIX", core.ErrInvalidAmount},
		{"unknown method", "10", "Cheque", core.ErrUnknownPaymentMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.BuildPayment("ana", "", tt.amount, tt.method); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildPayment_ExtendedMethods(t *testing.T) {
	b := core.NewBuilder([]string{"Dinheiro", "Boleto"})
	if _, err := b.BuildPayment("ana", "", "10", "Boleto"); err != nil {
		t.Errorf("configured method rejected: %v", err)
	}
	if _, err := b.BuildPayment("ana", "", "10", "PIX"); !errors.Is(err, core.ErrUnknownPaymentMethod) {
		t.Errorf("method outside the configured set accepted: %v", err)
	}
}

func TestBuilder_BackdatedUsesClockTimeOfDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	b := fixedBuilder(time.Date(2024, 6, 20, 16, 42, 7, 999, loc))

	tx, err := b.BuildPayment("ana", "2024-06-03", "10", "PIX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 6, 3, 16, 42, 7, 0, loc)
	if !tx.Date.Equal(want) {
		t.Errorf("Date = %s, want %s", tx.Date, want)
	}
}

func TestBuilder_SameDayEntriesKeepEntryOrder(t *testing.T) {
	now := time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC)
	b := core.NewBuilder(nil)
	b.Now = func() time.Time { return now }

	first, _ := b.BuildPayment("ana", "2024-06-01", "1", "PIX")
	now = now.Add(3 * time.Second)
	second, _ := b.BuildPayment("ana", "2024-06-01", "1", "PIX")

	if !second.Date.After(first.Date) {
		t.Errorf("second entry %s not after first %s", second.Date, first.Date)
	}
}

func TestDebtorValidate(t *testing.T) {
	tests := []struct {
		name    string
		debtor  core.Debtor
		wantErr bool
	}{
		{"valid", core.Debtor{Name: " José ", Phone: "11 9999", Status: "bom"}, false},
		{"blank status", core.Debtor{Name: "José", Phone: "1"}, false},
		{"missing name", core.Debtor{Name: "  ", Phone: "1"}, true},
		{"missing phone", core.Debtor{Name: "José"}, true},
		{"unknown status", core.Debtor{Name: "José", Phone: "1", Status: "VIP"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.debtor
			d.Normalize()
			err := d.Validate()
			if tt.wantErr != (err != nil) {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProductValidate(t *testing.T) {
	for _, price := range []string{"0", "-1"} {
		p := core.Product{Name: "Bala", DefaultPrice: dec(price)}
		if err := p.Validate(); !errors.Is(err, core.ErrValidation) {
			t.Errorf("price %s accepted: %v", price, err)
		}
	}
	p := core.Product{Name: "Bala", DefaultPrice: dec("0.10")}
	if err := p.Validate(); err != nil {
		t.Errorf("valid product rejected: %v", err)
	}
}
