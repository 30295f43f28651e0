package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/service"
)

var transactionHeaders = []string{"ID", "Proposal", "Policy", "Agent Code", "Amount", "Status", "Date"}

func newTransactionsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List, search and inspect transactions",
	}
	cmd.AddCommand(
		newTransactionsListCommand(rt),
		newTransactionsSearchCommand(rt),
		newTransactionsViewCommand(rt),
		newTransactionsExportCommand(rt),
	)
	return cmd
}

func newTransactionsListCommand(rt *runtime) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a page of transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.authed(cmd, func(ctx context.Context, app *App, p *Printer) error {
				if _, err := app.Transactions.List(ctx, page); err != nil {
					return err
				}
				return printTransactions(p, app.Transactions.View(), app)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "1-based page")
	return cmd
}

func newTransactionsSearchCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search transactions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := firstArg(args)
			return rt.authed(cmd, func(ctx context.Context, app *App, p *Printer) error {
				_, notice, err := app.Transactions.Search(ctx, keyword)
				p.Notify(notice)
				if errors.Is(err, domain.ErrEmptyKeyword) {
					return nil
				}
				if err != nil {
					return err
				}
				return printTransactions(p, app.Transactions.View(), app)
			})
		},
	}
}

func newTransactionsViewCommand(rt *runtime) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "view <id>",
		Short: "Show every field of a listed transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return rt.authed(cmd, func(ctx context.Context, app *App, p *Printer) error {
				if _, err := app.Transactions.List(ctx, page); err != nil {
					return err
				}
				fields, err := app.Transactions.Detail(id)
				if err != nil {
					return fmt.Errorf("page %d: %w", page, err)
				}
				rows := make([][]string, 0, len(fields))
				for _, f := range fields {
					rows = append(rows, []string{f.Label, f.Value})
				}
				p.Header(fmt.Sprintf("Transaction %d", id))
				return p.Table([]string{"Field", "Value"}, rows)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page the transaction is listed on")
	return cmd
}

func newTransactionsExportCommand(rt *runtime) *cobra.Command {
	var (
		page    int
		keyword string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the listed transactions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.authed(cmd, func(ctx context.Context, app *App, p *Printer) error {
				if keyword != "" {
					_, notice, err := app.Transactions.Search(ctx, keyword)
					if err != nil {
						p.Notify(notice)
						return err
					}
				} else if _, err := app.Transactions.List(ctx, page); err != nil {
					return err
				}
				return writeCSV(cmd, output, func(w io.Writer) error {
					return service.WriteTransactionsCSV(w, app.Transactions.View().Rows(), app.Location)
				})
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "1-based page")
	cmd.Flags().StringVar(&keyword, "search", "", "export search results instead of a page")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func printTransactions(p *Printer, view *service.ResourceView[domain.Transaction], app *App) error {
	if mode, kw := view.SearchMode(); mode {
		p.Header(domain.SearchBanner(kw))
	}
	txs := view.Rows()
	rows := make([][]string, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.ProposalNumber,
			t.PolicyID,
			t.AgentCodeUsed,
			t.Amount.Display(),
			p.Status(string(t.Status)),
			domain.FormatTimestamp(t.TransactionDate, app.Location),
		})
	}
	if err := p.Table(transactionHeaders, rows); err != nil {
		return err
	}
	if mode, _ := view.SearchMode(); !mode {
		p.Print("%s", p.Controls(view.Controls()))
	}
	return nil
}
