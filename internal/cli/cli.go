// Package cli is the hcadmin command tree. Run is the whole contract: it
// takes the arguments after the program name and returns an exit code
// (0 ok, 1 error, 2 usage).
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/hcadmin/internal/resource"
	"github.com/idilsaglam/hcadmin/internal/session"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

// Options carry the process plumbing so tests can swap it.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
	// NoTUI makes the bare command print help instead of starting the TUI.
	NoTUI bool
}

func (o Options) withDefaults() Options {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error { return usageError{fmt.Sprintf(format, args...)} }

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt = opt.withDefaults()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e := newEnv(opt)
	defer e.close()
	root := e.rootCmd()
	root.SetArgs(args)
	root.SetIn(opt.Stdin)
	root.SetOut(opt.Stdout)
	root.SetErr(opt.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !e.out.reported() && !errors.Is(err, context.Canceled) {
		ui.Fail(opt.Stderr, err.Error())
	}
	return exitCode(err)
}

func exitCode(err error) int {
	var ue usageError
	switch {
	case errors.As(err, &ue),
		errors.Is(err, resource.ErrValidation),
		errors.Is(err, resource.ErrNotConfirmed),
		errors.Is(err, session.ErrInvalid),
		errors.Is(err, session.ErrNotLoggedIn):
		return 2
	}
	return 1
}

func (e *env) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hcadmin",
		Short:         "HealthConnect administration console",
		Long:          "hcadmin manages the HealthConnect platform: app users, portal administrators,\nthe specialization and ailment catalog, FAQs, transactions, issues and notifications.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if e.opt.NoTUI {
				_ = cmd.Help()
				return usagef("no command given")
			}
			return e.runTUI(cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err.Error()} })

	pf := root.PersistentFlags()
	pf.StringVar(&e.cfgPath, "config", "", "config file (default <data-dir>/config.yaml)")
	pf.String("base-url", "", "API base URL, e.g. http://localhost:4000/api")
	pf.String("theme", "", "color theme: classic, neon or mono")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("data-dir", "", "directory for credentials, logs and config")
	for key, flag := range map[string]string{
		"base_url":  "base-url",
		"theme":     "theme",
		"log_level": "log-level",
		"data_dir":  "data-dir",
	} {
		_ = e.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		e.loginCmd(), e.logoutCmd(), e.whoamiCmd(), e.statusCmd(),
		e.tuiCmd(),
		e.dashboardCmd(), e.monitorCmd(),
		e.lsCmd(), e.showCmd(), e.addCmd(), e.editCmd(), e.rmCmd(),
		e.doCmd(), e.usersCmd(), e.issuesCmd(), e.notificationsCmd(),
		e.reportCmd(),
		e.profileCmd(),
		e.configCmd(),
	)
	return root
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: hcadmin %s", usage)
		}
		return nil
	}
}
