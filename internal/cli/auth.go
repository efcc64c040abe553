package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/hcadmin/internal/session"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

// prompter reads answers from stdin, hiding secrets when it is a terminal.
type prompter struct {
	in  io.Reader
	out io.Writer
	br  *bufio.Reader
}

func (e *env) prompter() *prompter {
	return &prompter{in: e.opt.Stdin, out: e.opt.Stderr, br: bufio.NewReader(e.opt.Stdin)}
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (p *prompter) secret(label string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(f.Fd()) {
		fmt.Fprint(p.out, label)
		b, err := term.ReadPassword(f.Fd())
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return p.line(label)
}

func (e *env) loginCmd() *cobra.Command {
	var (
		email    string
		remember bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a portal account",
		Args:  exactArgs(0, "login [--email e] [--remember]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.open(); err != nil {
				return err
			}
			p := e.prompter()
			if email == "" {
				email = e.sess.RememberedEmail()
			}
			if email == "" {
				var err error
				if email, err = p.line("Email: "); err != nil {
					return err
				}
			}
			password, err := p.secret("Password: ")
			if err != nil {
				return err
			}
			msg, err := e.sess.Login(cmd.Context(), email, password, remember)
			if err != nil {
				return err
			}
			ui.OK(e.opt.Stdout, msg)
			snap := e.sess.Snapshot()
			ui.Info(e.opt.Stdout, fmt.Sprintf("signed in as %s (%s)", snap.User.FullName(), snap.User.Role))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (defaults to the remembered one)")
	cmd.Flags().BoolVar(&remember, "remember", false, "remember the email for next time")
	return cmd
}

func (e *env) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credentials",
		Args:  exactArgs(0, "logout"),
		RunE: func(*cobra.Command, []string) error {
			if err := e.open(); err != nil {
				return err
			}
			if e.sess.Snapshot().Source == "env" {
				ui.OK(e.opt.Stdout, "token is provided by "+session.TokenEnv+" env var (nothing to delete)")
				return nil
			}
			if err := e.sess.Logout(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK(e.opt.Stdout, "logged out")
			return nil
		},
	}
}

func (e *env) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  exactArgs(0, "status"),
		RunE: func(*cobra.Command, []string) error {
			if err := e.open(); err != nil {
				return err
			}
			w := e.opt.Stdout
			fmt.Fprintf(w, "api: %s\n", e.cfg.BaseURL)
			snap := e.sess.Snapshot()
			if !snap.LoggedIn() {
				fmt.Fprintln(w, ui.Current().Muted.Render("not logged in"))
				fmt.Fprintln(w, "Run: hcadmin login")
				return nil
			}
			fmt.Fprintf(w, "source: %s\n", snap.Source)
			if snap.ExpiresAt != nil {
				state := ""
				if snap.Expired(e.opt.Now()) {
					state = " (expired)"
				}
				fmt.Fprintf(w, "expires: %s%s\n", snap.ExpiresAt.UTC().Format(time.RFC3339), state)
			} else {
				fmt.Fprintln(w, "expires: (unknown)")
			}
			fmt.Fprintf(w, "env override: %s\n", session.TokenEnv)
			return nil
		},
	}
}

// whoami shows the signed-in user and, for JWTs, the decoded claims.
func (e *env) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and their permissions",
		Args:  exactArgs(0, "whoami"),
		RunE: func(*cobra.Command, []string) error {
			snap, err := e.loggedIn()
			if err != nil {
				return err
			}
			t := ui.Current()
			yes := func(b bool) string {
				if b {
					return t.Success.Render("yes")
				}
				return t.Muted.Render("no")
			}
			lines := []string{
				t.Title.Render(orDash(snap.User.FullName())),
				"email:      " + orDash(snap.User.Email),
				"role:       " + orDash(snap.User.Role),
				"department: " + orDash(snap.User.Department),
				fmt.Sprintf("can read:   %s   write: %s   delete: %s", yes(snap.Perms.Read), yes(snap.Perms.Write), yes(snap.Perms.Delete)),
			}
			if claims := session.Claims(snap.Token); claims != nil {
				if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
					lines = append(lines, "expires:    "+exp.UTC().Format(time.RFC3339))
				}
				if sub, err := claims.GetSubject(); err == nil && sub != "" {
					lines = append(lines, "subject:    "+sub)
				}
			} else {
				lines = append(lines, t.Muted.Render("Opaque token (cannot introspect locally)."))
			}
			lines = append(lines, t.Muted.Render("source: "+snap.Source))
			fmt.Fprintln(e.opt.Stdout, ui.Panel(lines))
			return nil
		},
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
