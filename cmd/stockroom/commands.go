package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/naveenspark/stockroom/internal/auth"
	"github.com/naveenspark/stockroom/internal/tui"
	"github.com/naveenspark/stockroom/internal/validate"
	"github.com/naveenspark/stockroom/pkg/client"
	"github.com/naveenspark/stockroom/pkg/domain"
)

const expiredNotice = "Your session has expired. Please sign in again."

// Interactive prompts. Commands fall back to these when a value was not
// given by flag or stdin.
var (
	askInput = func(message, def string) (string, error) {
		var v string
		err := survey.AskOne(&survey.Input{Message: message, Default: def}, &v, survey.WithValidator(survey.Required))
		return v, err
	}
	askPassword = func(message string) (string, error) {
		var v string
		err := survey.AskOne(&survey.Password{Message: message}, &v, survey.WithValidator(survey.Required))
		return v, err
	}
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stockroom",
		Short: "Terminal client for the stockroom inventory backend",
		Long: `stockroom browses inventory, invoices, stock, orders and discrepancies
from the terminal. Run it without arguments to open the interactive UI.`,
		Example: `  # Open the interactive UI
  $ stockroom

  # Sign in once, then check who you are
  $ stockroom login -u alice --admin
  $ stockroom whoami`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newPasswordCmd(),
		newUsersCmd(),
		newVersionCmd(),
	)

	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != root {
			defaultHelp(cmd, args)
			return
		}
		printUsage(cmd.OutOrStdout(), commandList(root))
	})
	return root
}

// commandList flattens the command tree into usage rows.
func commandList(root *cobra.Command) []field {
	rows := []field{{root.Name(), "Open the interactive UI"}}
	var walk func(c *cobra.Command, prefix string)
	walk = func(c *cobra.Command, prefix string) {
		for _, sub := range c.Commands() {
			if !sub.IsAvailableCommand() {
				continue
			}
			name := prefix + " " + sub.Name()
			if sub.Runnable() {
				rows = append(rows, field{name, sub.Short})
			}
			walk(sub, name)
		}
	}
	walk(root, root.Name())
	return rows
}

func runTUI(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close() //nolint:errcheck

	app := tui.NewApp(e.auth, tui.Options{
		WebURL:         e.cfg.WebURL,
		Version:        version,
		PollInterval:   e.cfg.PollInterval,
		SearchDebounce: e.cfg.SearchDebounce,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func newLoginCmd() *cobra.Command {
	var (
		username      string
		admin         bool
		remember      bool
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Long: `Sign in to the stockroom backend and save the session locally.

The token is kept in the session store under STOCKROOM_HOME and reused by
every later command until it expires or you log out. With --remember the
username and password are kept too, encrypted, to prefill the next login.`,
		Example: `  # Prompt for username and password
  $ stockroom login

  # Admin login, password from a secret manager
  $ pass show stockroom | stockroom login -u alice --admin --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			saved := e.auth.SavedCredentials(ctx)
			lt := auth.LoginEmployee
			switch {
			case admin:
				lt = auth.LoginAdmin
			case !cmd.Flags().Changed("admin") && saved != nil && saved.LoginType == string(auth.LoginAdmin):
				lt = auth.LoginAdmin
			}
			if !cmd.Flags().Changed("remember") {
				remember = e.auth.RememberMe(ctx)
			}

			if username == "" {
				def := ""
				if saved != nil {
					def = saved.Username
				}
				if username, err = askInput("Username:", def); err != nil {
					return fmt.Errorf("read username: %w", err)
				}
			}
			var password string
			if passwordStdin {
				lines, err := readLines(cmd.InOrStdin(), 1)
				if err != nil {
					return err
				}
				password = lines[0]
			} else if password, err = askPassword("Password:"); err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			printInfo(cmd.OutOrStdout(), "Connecting to %s...", e.cfg.APIURL)
			res := e.auth.Login(ctx, username, password, lt, remember)
			if !res.Success {
				printError(cmd.ErrOrStderr(), "%s", res.Error)
				return errReported
			}
			printSuccess(cmd.OutOrStdout(), "Signed in as %s (%s)", res.User.DisplayName(), res.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username to sign in with")
	cmd.Flags().BoolVar(&admin, "admin", false, "use the admin login")
	cmd.Flags().BoolVar(&remember, "remember", false, "remember username and password for next time")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	var forget bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Long: `End the session on the backend and remove the local token.

Remembered credentials are kept when remember-me is on; --forget wipes them
along with everything else in the session store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			signedIn := e.auth.State() == auth.StateAuthenticated
			if forget {
				if err := e.auth.Forget(ctx); err != nil {
					return fmt.Errorf("clear session store: %w", err)
				}
				printSuccess(cmd.OutOrStdout(), "Signed out and forgot saved credentials")
				return nil
			}
			if !signedIn {
				printWarning(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			e.auth.Logout(ctx)
			printSuccess(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
	cmd.Flags().BoolVar(&forget, "forget", false, "also remove remembered credentials")
	return cmd
}

// requireSession fails with a hint when nobody is signed in.
func requireSession(cmd *cobra.Command, e *env) error {
	if e.auth.State() == auth.StateAuthenticated {
		return nil
	}
	printWarning(cmd.ErrOrStderr(), "Not signed in. Run: stockroom login")
	return errReported
}

// reportAPIError prints err, logging out first when the token was rejected.
func reportAPIError(ctx context.Context, cmd *cobra.Command, e *env, err error) error {
	if e.auth.HandleError(ctx, err) {
		printWarning(cmd.ErrOrStderr(), expiredNotice)
		return errReported
	}
	msg := client.Message(err)
	if msg == "" {
		msg = err.Error()
	}
	printError(cmd.ErrOrStderr(), "%s", msg)
	return errReported
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck
			if err := requireSession(cmd, e); err != nil {
				return err
			}

			u, err := e.auth.Refresh(ctx)
			if err != nil {
				return reportAPIError(ctx, cmd, e, err)
			}
			printBox(cmd.OutOrStdout(), u.DisplayName(), userFields(u, e.cfg.APIURL))
			return nil
		},
	}
}

func userFields(u *domain.User, server string) []field {
	active := "yes"
	if !u.IsActive {
		active = "no"
	}
	last := ""
	if u.LastLogin != nil {
		last = u.LastLogin.Local().Format("2006-01-02 15:04")
	}
	return []field{
		{"username", u.Username},
		{"email", u.Email},
		{"role", string(u.Role)},
		{"active", active},
		{"last login", last},
		{"server", server},
	}
}

func newPasswordCmd() *cobra.Command {
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Long: `Change the signed-in user's password.

With --password-stdin three lines are read: the current password, the new
password and its confirmation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck
			if err := requireSession(cmd, e); err != nil {
				return err
			}

			var form validate.ChangePasswordForm
			if passwordStdin {
				lines, err := readLines(cmd.InOrStdin(), 3)
				if err != nil {
					return err
				}
				form = validate.ChangePasswordForm{Current: lines[0], New: lines[1], Confirm: lines[2]}
			} else {
				for _, p := range []struct {
					msg string
					dst *string
				}{
					{"Current password:", &form.Current},
					{"New password:", &form.New},
					{"Confirm new password:", &form.Confirm},
				} {
					if *p.dst, err = askPassword(p.msg); err != nil {
						return fmt.Errorf("read password: %w", err)
					}
				}
			}
			if err := validate.Struct(form); err != nil {
				printError(cmd.ErrOrStderr(), "%s", validate.First(err))
				return errReported
			}

			err = e.auth.Client().Auth().ChangePassword(ctx, client.ChangePasswordRequest{
				CurrentPassword: form.Current,
				NewPassword:     form.New,
			})
			if err != nil {
				return reportAPIError(ctx, cmd, e, err)
			}
			printSuccess(cmd.OutOrStdout(), "Password changed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read passwords from stdin, one per line")
	return cmd
}

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (admin)",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newUsersListCmd(), newUsersCreateCmd())
	return cmd
}

// requireAdmin extends requireSession with a role check.
func requireAdmin(cmd *cobra.Command, e *env) error {
	if err := requireSession(cmd, e); err != nil {
		return err
	}
	if !e.auth.Session().User.IsAdmin() {
		printError(cmd.ErrOrStderr(), "Only administrators can manage users")
		return errReported
	}
	return nil
}

func newUsersListCmd() *cobra.Command {
	var (
		search string
		role   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck
			if err := requireAdmin(cmd, e); err != nil {
				return err
			}

			list, err := e.auth.Client().Users().List(ctx, client.UserListParams{Search: search, Role: domain.Role(role)})
			if err != nil {
				return reportAPIError(ctx, cmd, e, err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-20s %-24s %-9s %s\n", "USERNAME", "NAME", "ROLE", "ACTIVE")
			for _, u := range list.Users {
				active := "yes"
				if !u.IsActive {
					active = "no"
				}
				fmt.Fprintf(w, "%-20s %-24s %-9s %s\n", u.Username, u.FullName, u.Role, active)
			}
			st := list.Stats
			dimColor.Fprintf(w, "\n%d users · %d active · %d inactive · %d admins · %d employees\n", //nolint:errcheck
				st.Total, st.Active, st.Inactive, st.Admins, st.Employees)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by username, name or email")
	cmd.Flags().StringVar(&role, "role", "", "filter by role (admin or employee)")
	return cmd
}

func newUsersCreateCmd() *cobra.Command {
	var (
		form          validate.CreateUserForm
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Long: `Create a user account. The password must be at least 8 characters and
mix upper case, lower case and digits.

With --password-stdin two lines are read: the password and its confirmation.`,
		Example: `  $ stockroom users create -u bob --name "Bob B" --email bob@example.com --role employee`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck
			if err := requireAdmin(cmd, e); err != nil {
				return err
			}

			if passwordStdin {
				lines, err := readLines(cmd.InOrStdin(), 2)
				if err != nil {
					return err
				}
				form.Password, form.ConfirmPassword = lines[0], lines[1]
			} else {
				if form.Password, err = askPassword("Password:"); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				if form.ConfirmPassword, err = askPassword("Confirm password:"); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}
			if err := validate.Struct(form); err != nil {
				printError(cmd.ErrOrStderr(), "%s", validate.First(err))
				return errReported
			}

			u, err := e.auth.Client().Users().Create(ctx, client.CreateUserRequest{
				Username: form.Username,
				Email:    form.Email,
				Password: form.Password,
				FullName: form.FullName,
				Role:     domain.Role(form.Role),
			})
			if err != nil {
				return reportAPIError(ctx, cmd, e, err)
			}
			printSuccess(cmd.OutOrStdout(), "Created %s (%s)", u.Username, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "username for the new account")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&form.Role, "role", string(domain.RoleEmployee), "role: admin or employee")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "\n  %s  %s\n\n", wordmark(), version)
		},
	}
}

// readLines reads n lines from r, stripping line endings.
func readLines(r io.Reader, n int) ([]string, error) {
	sc := bufio.NewScanner(r)
	lines := make([]string, 0, n)
	for len(lines) < n && sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(lines) < n {
		return nil, fmt.Errorf("read stdin: want %d line(s), got %d", n, len(lines))
	}
	return lines, nil
}
