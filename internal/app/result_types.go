package app

import (
	"fiado-ledger/internal/core"

	"github.com/shopspring/decimal"
)

// DebtorListResult is returned by ListDebtors.
type DebtorListResult struct {
	Debtors []core.DebtorBalance `json:"debtors"`
}

// DebtorResult is returned by GetDebtor.
type DebtorResult struct {
	Debtor    core.Debtor        `json:"debtor"`
	Balance   decimal.Decimal    `json:"balance"`
	Statement []core.Transaction `json:"statement"`
}

// ProductListResult is returned by ListProducts and RestoreStarterCatalog.
type ProductListResult struct {
	Products []core.Product `json:"products"`
}

// TransactionResult is returned by RecordDebt and RecordPayment.
type TransactionResult struct {
	Transaction core.Transaction `json:"transaction"`
	Balance     decimal.Decimal  `json:"balance"` // debtor balance after the write
}

// ExportResult is returned by Export.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReminderResult is returned by GenerateReminder.
type ReminderResult struct {
	DebtorID string `json:"debtorId"`
	Tone     string `json:"tone"`
	Text     string `json:"text"`
}

// AnalysisResult is returned by AnalyzeDebtor. ExtendCredit is nil when the
// model could not be consulted.
type AnalysisResult struct {
	DebtorID     string `json:"debtorId"`
	Text         string `json:"text"`
	ExtendCredit *bool  `json:"extendCredit,omitempty"`
}
