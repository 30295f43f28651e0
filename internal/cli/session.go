package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/service"
)

func newLoginCommand(rt *runtime) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				password = strings.TrimRight(line, "\r\n")
			}
			return rt.run(cmd, func(ctx context.Context, app *App, p *Printer) error {
				user, err := app.Auth.Login(ctx, email, password)
				if err != nil {
					return err
				}
				p.Notify(domain.Success(fmt.Sprintf("Signed in as %s", user.Email)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.run(cmd, func(ctx context.Context, app *App, p *Printer) error {
				app.Auth.Logout(ctx)
				p.Notify(domain.Info(domain.MsgLoggedOut))
				return nil
			})
		},
	}
}

func newWhoamiCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.run(cmd, func(_ context.Context, app *App, p *Printer) error {
				st := app.Session.Snapshot()
				if !st.IsAuthenticated || st.User == nil {
					return errNotSignedIn
				}
				u := st.User
				rows := [][]string{
					{"Name", u.Name},
					{"Email", u.Email},
					{"Role", u.Role},
					{"Designation", orDash(u.Designation)},
					{"Token type", st.Type()},
				}
				if info, ok := service.DescribeToken(st.Token()); ok && info.ExpiresAt != nil {
					rows = append(rows, []string{"Token expires", info.ExpiresAt.In(app.Location).Format(time.RFC1123)})
				}
				return p.Table([]string{"Field", "Value"}, rows)
			})
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
