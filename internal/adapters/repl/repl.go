package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fiado-ledger/internal/adapters/cli"
	"fiado-ledger/internal/app"
	"fiado-ledger/internal/core"
)

var errExit = errors.New("exit")

// Run starts the interactive REPL loop. It reads commands from reader and
// writes everything to out. It returns when the user exits or input ends.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer) {
	s := &session{ctx: ctx, svc: svc, in: reader, out: out}

	fmt.Fprintf(out, "Fiado Digital %s\n", svc.Version())
	fmt.Fprintln(out, "Type /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	for {
		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				fmt.Fprintln(out)
				return
			}
			continue
		}

		if !strings.HasPrefix(input, "/") {
			fmt.Fprintln(out, "Commands start with '/'. Type /help for the list.")
			continue
		}
		if dispErr := s.dispatch(input); dispErr != nil {
			if errors.Is(dispErr, errExit) {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			fmt.Fprintf(out, "Error: %v\n", dispErr)
		}
		if err != nil {
			return
		}
	}
}

type session struct {
	ctx context.Context
	svc app.ApplicationService
	in  *bufio.Reader
	out io.Writer
}

func (s *session) dispatch(input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]
	ctx, svc := s.ctx, s.svc

	switch cmd {
	case "debtors", "ls":
		result, err := svc.ListDebtors(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		cli.PrintDebtors(s.out, result)

	case "products":
		result, err := svc.ListProducts(ctx)
		if err != nil {
			return err
		}
		cli.PrintProducts(s.out, result)

	case "dashboard", "dash":
		result, err := svc.GetDashboard(ctx)
		if err != nil {
			return err
		}
		cli.PrintDashboard(s.out, result)

	case "statement", "st":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /statement <debtor-id>")
			return nil
		}
		result, err := svc.GetDebtor(ctx, args[0])
		if err != nil {
			return err
		}
		cli.PrintStatement(s.out, result)

	case "new-debtor":
		return s.newDebtor()

	case "new-product":
		return s.newProduct()

	case "debt":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /debt <debtor-id>")
			return nil
		}
		return s.newDebt(args[0])

	case "pay":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: /pay <debtor-id> <amount> [method] [YYYY-MM-DD]")
			fmt.Fprintf(s.out, "  Methods: %s\n", strings.Join(svc.PaymentMethods(), ", "))
			return nil
		}
		req := app.RecordPaymentRequest{DebtorID: args[0], Amount: args[1]}
		if len(args) >= 3 {
			req.PaymentMethod = args[2]
		}
		if len(args) >= 4 {
			req.Date = args[3]
		}
		result, err := svc.RecordPayment(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Payment of R$ %s recorded (%s). New balance: R$ %s\n",
			core.FormatBRL(result.Transaction.TotalAmount), result.Transaction.PaymentMethod, core.FormatBRL(result.Balance))

	case "remind":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /remind <debtor-id> [polite|firm|funny]")
			return nil
		}
		tone := ""
		if len(args) >= 2 {
			tone = args[1]
		}
		fmt.Fprintln(s.out, "[AI] Writing reminder...")
		result, err := svc.GenerateReminder(ctx, args[0], tone)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "\n%s\n", result.Text)

	case "analyze":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /analyze <debtor-id>")
			return nil
		}
		fmt.Fprintln(s.out, "[AI] Analyzing...")
		result, err := svc.AnalyzeDebtor(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out)
		cli.PrintAnalysis(s.out, result)

	case "export":
		format := "csv"
		if len(args) >= 1 {
			format = args[0]
		}
		path, err := cli.ExportToDir(ctx, svc, format, ".")
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Report written to %s\n", path)

	case "help", "h":
		printHelp(s.out)

	case "exit", "quit", "q":
		return errExit

	default:
		fmt.Fprintf(s.out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `
  /debtors [search]                       list debtors and balances
  /products                               list the product catalog
  /dashboard                              totals, top debtors, recent activity
  /statement <id>                         one debtor's transactions
  /new-debtor                             register a debtor
  /new-product                            add a product to the catalog
  /debt <id>                              record a sale on credit (cart)
  /pay <id> <amount> [method] [date]      record a payment
  /remind <id> [polite|firm|funny]        draft a collection message
  /analyze <id>                           summarize payment behavior
  /export [csv|xlsx]                      write the balance report here
  /help, /exit
`)
}
