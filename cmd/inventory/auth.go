package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RaviGowdaS/InventoryManagement/internal/client"
	"github.com/RaviGowdaS/InventoryManagement/internal/session"
)

// sessionStorage returns where the login session is kept.
func (a *app) sessionStorage() (session.Storage, error) {
	if a.storage != nil {
		return a.storage, nil
	}
	path := a.cfg.Client.SessionFile
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return &session.FileStorage{Path: path}, nil
}

// serverURL picks the server for cmd: an explicit --server wins, then the
// server the session was created against, then the configured default.
func (a *app) serverURL(cmd *cobra.Command, s *session.Session) string {
	if s != nil && s.Server != "" && !cmd.Flags().Changed("server") {
		return s.Server
	}
	return a.cfg.Client.Server
}

// authedClient loads the session and returns a client carrying its token.
func (a *app) authedClient(cmd *cobra.Command) (*client.Client, *session.Session, error) {
	st, err := a.sessionStorage()
	if err != nil {
		return nil, nil, err
	}
	s, err := st.Load()
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil, errors.New("not logged in, run `inventory login` first")
	}
	if err != nil {
		return nil, nil, err
	}
	return client.New(a.serverURL(cmd, s), s.Token, a.cfg.Client.Timeout), s, nil
}

// saveLogin stores the session returned by a login or registration.
func (a *app) saveLogin(c *client.Client, s *session.Session) error {
	st, err := a.sessionStorage()
	if err != nil {
		return err
	}
	s.Server = c.BaseURL()
	return st.Save(s)
}

// readPassword takes the password from the flag or, failing that, the first
// line of stdin.
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func registerCmd(a *app) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}

			c := client.New(a.serverURL(cmd, nil), "", a.cfg.Client.Timeout)
			user, token, err := c.Register(cmd.Context(), name, email, pw)
			if err != nil {
				return err
			}
			if err := a.saveLogin(c, &session.Session{Token: token, User: user}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when omitted)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	return cmd
}

func loginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}

			c := client.New(a.serverURL(cmd, nil), "", a.cfg.Client.Timeout)
			user, token, err := c.Login(cmd.Context(), email, pw)
			if err != nil {
				return err
			}
			if err := a.saveLogin(c, &session.Session{Token: token, User: user}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when omitted)")
	cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session token and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.authedClient(cmd)
			if err != nil {
				return err
			}
			// The local session is cleared even if the server is unreachable.
			serverErr := c.Logout(cmd.Context())

			st, err := a.sessionStorage()
			if err != nil {
				return err
			}
			if err := st.Clear(); err != nil {
				return err
			}
			if serverErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: server logout failed: %v\n", serverErr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.authedClient(cmd)
			if err != nil {
				return err
			}
			user, err := c.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s) on %s\n", user.Name, user.Email, user.Role, c.BaseURL())
			return nil
		},
	}
}
