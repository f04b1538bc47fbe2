package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"fiado-ledger/internal/ai"
	"fiado-ledger/internal/core"
	"fiado-ledger/internal/store"

	"github.com/google/uuid"
)

// historyWindow is how many debts and payments feed a debtor analysis.
const historyWindow = 5

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Options carries the tunables read from configuration.
type Options struct {
	Version            string
	TopDebtors         int
	RecentTransactions int
}

type appService struct {
	store   *store.Store
	builder *core.Builder
	agent   ai.Service
	opts    Options
	now     func() time.Time
}

// NewAppService constructs an appService that satisfies ApplicationService.
// The builder's clock is also used for creation timestamps and export names.
func NewAppService(st *store.Store, builder *core.Builder, agent ai.Service, opts Options) ApplicationService {
	if opts.TopDebtors <= 0 {
		opts.TopDebtors = 5
	}
	if opts.RecentTransactions <= 0 {
		opts.RecentTransactions = 5
	}
	now := time.Now
	if builder.Now != nil {
		now = builder.Now
	}
	return &appService{store: st, builder: builder, agent: agent, opts: opts, now: now}
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %q: %w", what, id, core.ErrNotFound)
}

// ── Debtors ───────────────────────────────────────────────────────────────────

func (s *appService) ListDebtors(ctx context.Context, search string) (*DebtorListResult, error) {
	snap := s.store.Snapshot()
	out := []core.DebtorBalance{}
	for _, b := range core.Balances(snap.Debtors, snap.Transactions) {
		if b.Debtor.Matches(search) {
			out = append(out, b)
		}
	}
	return &DebtorListResult{Debtors: out}, nil
}

func (s *appService) GetDebtor(ctx context.Context, id string) (*DebtorResult, error) {
	snap := s.store.Snapshot()
	d, ok := core.FindDebtor(snap.Debtors, id)
	if !ok {
		return nil, notFound("debtor", id)
	}
	statement := core.Statement(snap.Transactions, id)
	if statement == nil {
		statement = []core.Transaction{}
	}
	return &DebtorResult{
		Debtor:    d,
		Balance:   core.Balance(snap.Transactions, id),
		Statement: statement,
	}, nil
}

func (s *appService) CreateDebtor(ctx context.Context, req DebtorInput) (*core.Debtor, error) {
	d := core.Debtor{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Phone:     req.Phone,
		Status:    core.DebtorStatus(req.Status),
		Notes:     req.Notes,
		CreatedAt: s.now(),
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.Status == "" {
		d.Status = core.StatusRegular
	}

	err := s.store.Mutate(ctx, store.KindDebtors, func(snap *store.Snapshot) error {
		snap.Debtors = append(snap.Debtors, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *appService) UpdateDebtor(ctx context.Context, id string, req DebtorInput) (*core.Debtor, error) {
	var updated core.Debtor
	err := s.store.Mutate(ctx, store.KindDebtors, func(snap *store.Snapshot) error {
		for i := range snap.Debtors {
			if snap.Debtors[i].ID != id {
				continue
			}
			d := snap.Debtors[i]
			d.Name, d.Phone, d.Status, d.Notes = req.Name, req.Phone, core.DebtorStatus(req.Status), req.Notes
			d.Normalize()
			if err := d.Validate(); err != nil {
				return err
			}
			if d.Status == "" {
				d.Status = core.StatusRegular
			}
			snap.Debtors[i] = d
			updated = d
			return nil
		}
		return notFound("debtor", id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *appService) DeleteDebtor(ctx context.Context, id string) error {
	return s.store.Mutate(ctx, store.KindDebtors, func(snap *store.Snapshot) error {
		idx := -1
		for i, d := range snap.Debtors {
			if d.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return notFound("debtor", id)
		}
		for _, t := range snap.Transactions {
			if t.DebtorID == id {
				return fmt.Errorf("debtor %q has transactions and cannot be deleted: %w", id, core.ErrConflict)
			}
		}
		snap.Debtors = append(snap.Debtors[:idx], snap.Debtors[idx+1:]...)
		return nil
	})
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	return &ProductListResult{Products: s.store.Snapshot().Products}, nil
}

func productFromInput(id string, req ProductInput) (core.Product, error) {
	p := core.Product{ID: id, Name: req.Name}
	p.Normalize()
	if p.Name == "" {
		return p, &core.ValidationError{Field: "name", Message: "name is required"}
	}
	price, err := core.ParseAmount(req.DefaultPrice)
	if err != nil {
		return p, &core.ValidationError{Field: "defaultPrice", Message: "price must be a number greater than zero"}
	}
	p.DefaultPrice = price
	return p, p.Validate()
}

func (s *appService) CreateProduct(ctx context.Context, req ProductInput) (*core.Product, error) {
	p, err := productFromInput(uuid.NewString(), req)
	if err != nil {
		return nil, err
	}
	err = s.store.Mutate(ctx, store.KindProducts, func(snap *store.Snapshot) error {
		snap.Products = append(snap.Products, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *appService) UpdateProduct(ctx context.Context, id string, req ProductInput) (*core.Product, error) {
	p, err := productFromInput(id, req)
	if err != nil {
		return nil, err
	}
	err = s.store.Mutate(ctx, store.KindProducts, func(snap *store.Snapshot) error {
		for i := range snap.Products {
			if snap.Products[i].ID == id {
				snap.Products[i] = p
				return nil
			}
		}
		return notFound("product", id)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *appService) DeleteProduct(ctx context.Context, id string) error {
	return s.store.Mutate(ctx, store.KindProducts, func(snap *store.Snapshot) error {
		for i, p := range snap.Products {
			if p.ID == id {
				snap.Products = append(snap.Products[:i], snap.Products[i+1:]...)
				return nil
			}
		}
		return notFound("product", id)
	})
}

func (s *appService) RestoreStarterCatalog(ctx context.Context) (*ProductListResult, error) {
	err := s.store.Mutate(ctx, store.KindProducts, func(snap *store.Snapshot) error {
		snap.Products = core.DefaultProducts()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.ListProducts(ctx)
}

// ── Transactions ──────────────────────────────────────────────────────────────

func (s *appService) RecordDebt(ctx context.Context, req RecordDebtRequest) (*TransactionResult, error) {
	return s.appendTransaction(ctx, req.DebtorID, func(snap *store.Snapshot) (core.Transaction, error) {
		cart := make([]core.CartLine, 0, len(req.Items))
		for _, line := range req.Items {
			p, ok := core.FindProduct(snap.Products, line.ProductID)
			if !ok {
				return core.Transaction{}, notFound("product", line.ProductID)
			}
			cart = append(cart, core.CartLine{Product: p, Quantity: line.Quantity})
		}
		return s.builder.BuildDebt(req.DebtorID, req.Date, cart)
	})
}

func (s *appService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*TransactionResult, error) {
	return s.appendTransaction(ctx, req.DebtorID, func(*store.Snapshot) (core.Transaction, error) {
		return s.builder.BuildPayment(req.DebtorID, req.Date, req.Amount, req.PaymentMethod)
	})
}

// appendTransaction is the only path that grows the transaction log. The debtor
// must exist; build runs against the same snapshot that gets persisted.
func (s *appService) appendTransaction(ctx context.Context, debtorID string,
	build func(*store.Snapshot) (core.Transaction, error)) (*TransactionResult, error) {

	var res TransactionResult
	err := s.store.Mutate(ctx, store.KindTransactions, func(snap *store.Snapshot) error {
		if _, ok := core.FindDebtor(snap.Debtors, debtorID); !ok {
			return notFound("debtor", debtorID)
		}
		tx, err := build(snap)
		if err != nil {
			return err
		}
		tx.Seq = uint64(len(snap.Transactions)) + 1
		snap.Transactions = append(snap.Transactions, tx)

		res.Transaction = tx
		res.Balance = core.Balance(snap.Transactions, debtorID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ── Reporting ─────────────────────────────────────────────────────────────────

func (s *appService) GetDashboard(ctx context.Context) (*core.Dashboard, error) {
	snap := s.store.Snapshot()
	d := core.BuildDashboard(snap.Debtors, snap.Products, snap.Transactions,
		s.opts.TopDebtors, s.opts.RecentTransactions)
	return &d, nil
}

func (s *appService) Export(ctx context.Context, format string) (*ExportResult, error) {
	snap := s.store.Snapshot()
	rows := core.ExportRows(snap.Debtors, snap.Transactions)

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}

	var buf bytes.Buffer
	res := &ExportResult{Filename: core.ExportFilename(s.now(), format)}
	switch format {
	case "csv":
		res.ContentType = contentTypeCSV
		if err := core.WriteCSV(&buf, rows); err != nil {
			return nil, fmt.Errorf("failed to export csv: %w", err)
		}
	case "xlsx":
		res.ContentType = contentTypeXLSX
		if err := core.WriteXLSX(&buf, rows); err != nil {
			return nil, fmt.Errorf("failed to export xlsx: %w", err)
		}
	default:
		return nil, &core.ValidationError{Field: "format", Message: fmt.Sprintf("unsupported export format %q", format)}
	}
	res.Data = buf.Bytes()
	return res, nil
}

// ── Text generation ───────────────────────────────────────────────────────────

func (s *appService) GenerateReminder(ctx context.Context, debtorID, tone string) (*ReminderResult, error) {
	t, err := ai.ParseTone(tone)
	if err != nil {
		return nil, err
	}
	snap := s.store.Snapshot()
	d, ok := core.FindDebtor(snap.Debtors, debtorID)
	if !ok {
		return nil, notFound("debtor", debtorID)
	}

	text := s.agent.Reminder(ctx, ai.ReminderRequest{
		DebtorName: d.Name,
		TotalDebt:  core.Balance(snap.Transactions, debtorID),
		Tone:       t,
	})
	return &ReminderResult{DebtorID: debtorID, Tone: string(t), Text: text}, nil
}

func (s *appService) AnalyzeDebtor(ctx context.Context, debtorID string) (*AnalysisResult, error) {
	snap := s.store.Snapshot()
	d, ok := core.FindDebtor(snap.Debtors, debtorID)
	if !ok {
		return nil, notFound("debtor", debtorID)
	}

	analysis := s.agent.Analyze(ctx, ai.AnalysisRequest{
		DebtorName: d.Name,
		Debts:      history(core.RecentHistory(snap.Transactions, debtorID, core.TransactionDebt, historyWindow)),
		Payments:   history(core.RecentHistory(snap.Transactions, debtorID, core.TransactionPayment, historyWindow)),
	})
	return &AnalysisResult{DebtorID: debtorID, Text: analysis.Text, ExtendCredit: analysis.ExtendCredit}, nil
}

func history(txs []core.Transaction) []ai.HistoryEntry {
	out := make([]ai.HistoryEntry, len(txs))
	for i, t := range txs {
		out[i] = ai.HistoryEntry{Date: t.Date, Amount: t.TotalAmount}
	}
	return out
}

// ── Misc ──────────────────────────────────────────────────────────────────────

func (s *appService) PaymentMethods() []string {
	return append([]string(nil), s.builder.PaymentMethods...)
}

func (s *appService) Version() string {
	return s.opts.Version
}
