package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/service"
)

var agentHeaders = []string{"ID", "Name", "Handle", "Email", "Phone", "Designation", "Status", "Created"}

func newAgentsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agents",
		Aliases: []string{"agent"},
		Short:   "List, search and manage agents",
	}
	cmd.AddCommand(
		newAgentsListCommand(rt),
		newAgentsSearchCommand(rt),
		newAgentsActivateCommand(rt),
		newAgentsUpdateCommand(rt),
		newAgentsDeleteCommand(rt),
		newAgentsExportCommand(rt),
	)
	return cmd
}

func newAgentsListCommand(rt *runtime) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a page of agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.authed(cmd, func(ctx context.Context, app *App, p *Printer) error {
				if _, err := app.Agents.List(ctx, page); err != nil {
					return err
				}
				return printAgents(p, app.Agents.View(), app)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "1-based page")
	return cmd
}

func newAgentsSearchCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search agents by name, email or username",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := firstArg(args)
			return rt.authed(cmd, func(ctx context.Context, app *App, p *Printer) error {
				_, notice, err := app.Agents.Search(ctx, keyword)
				p.Notify(notice)
				if errors.Is(err, domain.ErrEmptyKeyword) {
					return nil
				}
				if err != nil {
					return err
				}
				return printAgents(p, app.Agents.View(), app)
			})
		},
	}
}

func newAgentsActivateCommand(rt *runtime) *cobra.Command {
	var (
		page int
		yes  bool
	)
	cmd := &cobra.Command{
		Use:   "activate <id>",
		Short: "Activate a pending agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return rt.authed(cmd, func(ctx context.Context, app *App, p *Printer) error {
				agent, err := displayedAgent(ctx, app, page, id)
				if err != nil {
					return err
				}
				if err := agent.CanActivate(); err == nil {
					ok, err := confirm(cmd, yes, fmt.Sprintf("Activate %s?", agent.FullName()))
					if err != nil || !ok {
						return err
					}
				}
				out, err := app.Agents.Activate(ctx, agent)
				return finishMutation(p, app, out, err)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page the agent is listed on")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newAgentsUpdateCommand(rt *runtime) *cobra.Command {
	var (
		page                       int
		yes                        bool
		firstName, lastName, phone string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an active agent's name or phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return rt.authed(cmd, func(ctx context.Context, app *App, p *Printer) error {
				agent, err := displayedAgent(ctx, app, page, id)
				if err != nil {
					return err
				}
				payload := domain.NewAgentUpdate(agent)
				if cmd.Flags().Changed("first-name") {
					payload.FirstName = firstName
				}
				if cmd.Flags().Changed("last-name") {
					payload.LastName = lastName
				}
				if cmd.Flags().Changed("phone") {
					payload.Phone = phone
				}
				if err := agent.CanUpdate(); err == nil {
					ok, err := confirm(cmd, yes, fmt.Sprintf("Update %s?", agent.FullName()))
					if err != nil || !ok {
						return err
					}
				}
				out, err := app.Agents.Update(ctx, agent, payload)
				return finishMutation(p, app, out, err)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page the agent is listed on")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	cmd.Flags().StringVar(&firstName, "first-name", "", "new first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "new last name")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone number")
	return cmd
}

func newAgentsDeleteCommand(rt *runtime) *cobra.Command {
	var (
		page int
		yes  bool
	)
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return rt.authed(cmd, func(ctx context.Context, app *App, p *Printer) error {
				agent, err := displayedAgent(ctx, app, page, id)
				if err != nil {
					return err
				}
				ok, err := confirm(cmd, yes, fmt.Sprintf("Delete %s? This cannot be undone.", agent.FullName()))
				if err != nil || !ok {
					return err
				}
				out, err := app.Agents.Delete(ctx, id)
				return finishMutation(p, app, out, err)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page the agent is listed on")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newAgentsExportCommand(rt *runtime) *cobra.Command {
	var (
		page    int
		keyword string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the listed agents as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.authed(cmd, func(ctx context.Context, app *App, p *Printer) error {
				if keyword != "" {
					_, notice, err := app.Agents.Search(ctx, keyword)
					if err != nil {
						p.Notify(notice)
						return err
					}
				} else if _, err := app.Agents.List(ctx, page); err != nil {
					return err
				}
				return writeCSV(cmd, output, func(w io.Writer) error {
					return service.WriteAgentsCSV(w, app.Agents.View().Rows(), app.Location)
				})
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "1-based page")
	cmd.Flags().StringVar(&keyword, "search", "", "export search results instead of a page")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

// displayedAgent loads page and finds id on it, so the client-side rules
// see the agent as listed.
func displayedAgent(ctx context.Context, app *App, page int, id int64) (domain.Agent, error) {
	if _, err := app.Agents.List(ctx, page); err != nil {
		return domain.Agent{}, err
	}
	agent, ok := app.Agents.View().Find(id)
	if !ok {
		return domain.Agent{}, fmt.Errorf("agent %d is not listed on page %d: %w", id, page, domain.ErrNotFound)
	}
	return agent, nil
}

// finishMutation shows the outcome notice and, on success, the refetched
// page.
func finishMutation(p *Printer, app *App, out service.MutationOutcome, err error) error {
	p.Notify(out.Notice)
	if err != nil {
		return err
	}
	return printAgents(p, app.Agents.View(), app)
}

func printAgents(p *Printer, view *service.ResourceView[domain.Agent], app *App) error {
	if mode, kw := view.SearchMode(); mode {
		p.Header(domain.SearchBanner(kw))
	}
	agents := view.Rows()
	rows := make([][]string, 0, len(agents))
	for _, a := range agents {
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			a.FullName(),
			a.Handle(),
			a.Email,
			deref(a.Phone),
			deref(a.Designation),
			p.Status(string(a.Status)),
			domain.FormatTimestamp(&a.CreatedAt, app.Location),
		})
	}
	if err := p.Table(agentHeaders, rows); err != nil {
		return err
	}
	if mode, _ := view.SearchMode(); !mode {
		p.Print("%s", p.Controls(view.Controls()))
	}
	return nil
}

// writeCSV sends fn's output to path, or to stdout when path is empty.
func writeCSV(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
