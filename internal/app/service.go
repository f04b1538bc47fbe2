package app

import (
	"context"

	"fiado-ledger/internal/core"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// Every write goes through it, so each adapter sees the same validation and the
// same persistence rules. Implementations contain no display logic.
type ApplicationService interface {
	// ListDebtors returns debtors with their balances, in insertion order,
	// filtered by a case-insensitive name or phone substring.
	ListDebtors(ctx context.Context, search string) (*DebtorListResult, error)

	// GetDebtor returns a debtor, its balance and its statement (newest first).
	GetDebtor(ctx context.Context, id string) (*DebtorResult, error)

	CreateDebtor(ctx context.Context, req DebtorInput) (*core.Debtor, error)

	// UpdateDebtor replaces name, phone, status and notes; id and createdAt are kept.
	UpdateDebtor(ctx context.Context, id string, req DebtorInput) (*core.Debtor, error)

	// DeleteDebtor removes a debtor with no transactions. A debtor with history
	// yields core.ErrConflict.
	DeleteDebtor(ctx context.Context, id string) error

	ListProducts(ctx context.Context) (*ProductListResult, error)
	CreateProduct(ctx context.Context, req ProductInput) (*core.Product, error)
	UpdateProduct(ctx context.Context, id string, req ProductInput) (*core.Product, error)

	// DeleteProduct removes a catalog entry. Line items already sold keep their snapshot.
	DeleteProduct(ctx context.Context, id string) error

	// RestoreStarterCatalog replaces the catalog with the four starter products.
	RestoreStarterCatalog(ctx context.Context) (*ProductListResult, error)

	// RecordDebt appends a DEBT built from the cart at current catalog prices.
	RecordDebt(ctx context.Context, req RecordDebtRequest) (*TransactionResult, error)

	// RecordPayment appends a PAYMENT.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*TransactionResult, error)

	GetDashboard(ctx context.Context) (*core.Dashboard, error)

	// Export renders the balances report as "csv" or "xlsx".
	Export(ctx context.Context, format string) (*ExportResult, error)

	// GenerateReminder drafts a collection message for the debtor's current balance.
	GenerateReminder(ctx context.Context, debtorID, tone string) (*ReminderResult, error)

	// AnalyzeDebtor summarizes the debtor's recent debts and payments.
	AnalyzeDebtor(ctx context.Context, debtorID string) (*AnalysisResult, error)

	PaymentMethods() []string
	Version() string
}
