package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fiado-ledger/internal/app"
)

const usage = `Available commands:
  debtors [search]             list debtors and balances
  products                     list the product catalog
  dashboard                    totals, top debtors, recent activity
  statement <debtor-id>        one debtor's transactions, newest first
  export [csv|xlsx] [dir]      write the balance report to dir (default .)
  remind <debtor-id> [tone]    draft a reminder (polite, firm, funny)
  analyze <debtor-id>          summarize a debtor's payment behavior`

// Run executes a one-shot CLI command and writes its output to out.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given\n%s", usage)
	}

	switch args[0] {
	case "debtors", "ls":
		result, err := svc.ListDebtors(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		PrintDebtors(out, result)

	case "products":
		result, err := svc.ListProducts(ctx)
		if err != nil {
			return err
		}
		PrintProducts(out, result)

	case "dashboard", "dash":
		result, err := svc.GetDashboard(ctx)
		if err != nil {
			return err
		}
		PrintDashboard(out, result)

	case "statement", "st":
		if len(args) < 2 {
			return fmt.Errorf("usage: app statement <debtor-id>")
		}
		result, err := svc.GetDebtor(ctx, args[1])
		if err != nil {
			return err
		}
		PrintStatement(out, result)

	case "export":
		format, dir := "csv", "."
		if len(args) >= 2 {
			format = args[1]
		}
		if len(args) >= 3 {
			dir = args[2]
		}
		path, err := ExportToDir(ctx, svc, format, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", path)

	case "remind":
		if len(args) < 2 {
			return fmt.Errorf("usage: app remind <debtor-id> [polite|firm|funny]")
		}
		tone := ""
		if len(args) >= 3 {
			tone = args[2]
		}
		result, err := svc.GenerateReminder(ctx, args[1], tone)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result.Text)

	case "analyze":
		if len(args) < 2 {
			return fmt.Errorf("usage: app analyze <debtor-id>")
		}
		result, err := svc.AnalyzeDebtor(ctx, args[1])
		if err != nil {
			return err
		}
		PrintAnalysis(out, result)

	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
	return nil
}

// ExportToDir renders the report and writes it under dir with its dated filename.
func ExportToDir(ctx context.Context, svc app.ApplicationService, format, dir string) (string, error) {
	result, err := svc.Export(ctx, format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, result.Filename)
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
