// Package cli implements the adminconsole command tree.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/ports"
	"github.com/insureadmin/admin-console/internal/pkg/config"
	"github.com/insureadmin/admin-console/pkg/logger"
)

var errNotSignedIn = errors.New("not signed in: run `adminconsole login` first")

// Builder wires an App for one command. mode tags log entries.
type Builder func(ctx context.Context, notifier ports.Notifier, mode string) (*App, error)

// DefaultBuilder loads configuration from the environment and connects the
// configured backends.
func DefaultBuilder(verbose *bool) Builder {
	return func(ctx context.Context, notifier ports.Notifier, mode string) (*App, error) {
		cfg, err := config.Load(ctx)
		if err != nil {
			return nil, err
		}
		level := cfg.LogLevel
		if *verbose {
			level = "debug"
		}
		log := logger.Init(logger.Options{Level: level, Pretty: cfg.LogPretty, Mode: mode})
		return NewApp(ctx, cfg, notifier, log)
	}
}

type runtime struct {
	build   Builder
	noColor bool
}

// NewRootCommand builds the command tree. A nil build uses DefaultBuilder.
func NewRootCommand(build Builder, version string) *cobra.Command {
	var verbose bool
	if build == nil {
		build = DefaultBuilder(&verbose)
	}
	rt := &runtime{build: build}

	root := &cobra.Command{
		Use:   "adminconsole",
		Short: "Insurance admin console",
		Long: `adminconsole manages agents and transactions of the insurance admin API.

The signed-in session is persisted (encrypted when ADMIN_STORAGE_SECRET is
set) and reused by every command until logout or until the API rejects it.

Example usage:
  adminconsole login --email ops@example.com
  adminconsole agents list --page 2
  adminconsole agents activate 42 --page 2
  adminconsole transactions view 7
  adminconsole serve`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&rt.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(
		newLoginCommand(rt),
		newLogoutCommand(rt),
		newWhoamiCommand(rt),
		newAgentsCommand(rt),
		newTransactionsCommand(rt),
		newServeCommand(rt),
	)
	return root
}

// run wires an App for cmd, runs fn and releases the App.
func (rt *runtime) run(cmd *cobra.Command, fn func(ctx context.Context, app *App, p *Printer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p := NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), rt.noColor)
	app, err := rt.build(ctx, p, "cli")
	if err != nil {
		return err
	}
	defer app.Close(context.WithoutCancel(ctx))
	return fn(ctx, app, p)
}

// authed is run for commands behind the auth gate.
func (rt *runtime) authed(cmd *cobra.Command, fn func(ctx context.Context, app *App, p *Printer) error) error {
	return rt.run(cmd, func(ctx context.Context, app *App, p *Printer) error {
		if !app.Session.IsTokenValid() {
			return errNotSignedIn
		}
		return fn(ctx, app, p)
	})
}

// confirm asks a yes/no question on stdin. yes skips the prompt.
func confirm(cmd *cobra.Command, yes bool, question string) (bool, error) {
	if yes {
		return true, nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Describe turns err into the line printed before a non-zero exit.
func Describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return "session expired: run `adminconsole login` again"
	case errors.Is(err, domain.ErrNotAuthenticated):
		return errNotSignedIn.Error()
	}
	return err.Error()
}
