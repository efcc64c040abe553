package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/hcadmin/internal/dashboard"
	"github.com/idilsaglam/hcadmin/internal/monitor"
	"github.com/idilsaglam/hcadmin/internal/tui"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

func (e *env) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show platform totals, registrations and top regions",
		Args:  exactArgs(0, "dashboard"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := e.loggedIn(); err != nil {
				return err
			}
			st, err := dashboard.New(e.client, e.log).Load(cmd.Context(), nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.opt.Stdout, ui.Panel([]string{tui.RenderDashboard(st, e.width(), "")}))
			failed := 0
			for _, m := range st.Metrics {
				if m.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d figures could not be loaded", failed, len(st.Metrics))
			}
			return nil
		},
	}
}

func (e *env) monitorCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Follow online users and consultation requests",
		Long:  "monitor listens for presence pushes and polls request statistics until interrupted.\nWith --once it prints one statistics snapshot and exits.",
		Args:  exactArgs(0, "monitor [--once]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := e.loggedIn(); err != nil {
				return err
			}
			if once {
				st := monitor.Reduce(monitor.State{}, monitor.PollStarted{})
				stats, err := e.client.RequestStats(cmd.Context())
				st = monitor.Reduce(st, monitor.PollDone{Stats: stats, Err: err, At: e.opt.Now()})
				if err != nil {
					e.log.Warn().Err(err).Msg("request stats")
					return errors.New(monitor.PollFailed)
				}
				fmt.Fprintln(e.opt.Stdout, ui.Panel([]string{tui.RenderMonitor(st, e.opt.Now(), e.width())}))
				return nil
			}

			m := monitor.New(e.client, e.cfg.SocketURL, e.cfg.PollInterval,
				monitor.WithLogger(e.log), monitor.WithClock(e.opt.Now))
			defer m.Close()
			done := make(chan error, 1)
			go func() { done <- m.Run(cmd.Context()) }()

			ui.Info(e.opt.Stderr, "watching; press Ctrl-C to stop")
			var last string
			for st := range m.Updates() {
				if line := e.monitorLine(st); line != last {
					fmt.Fprintln(e.opt.Stdout, line)
					last = line
				}
			}
			return <-done
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "print one statistics snapshot and exit")
	return cmd
}

// monitorLine is the one-line form of a monitor state used when following.
func (e *env) monitorLine(st monitor.State) string {
	t := ui.Current()
	sock := ui.Badge("connected")
	if !st.Connected {
		sock = ui.Badge("disconnected")
	}
	line := fmt.Sprintf("%s  %s  %s %d  %s %d  %s %d  %s %d",
		t.Muted.Render(e.opt.Now().Format(time.TimeOnly)), sock,
		t.Muted.Render("online"), st.Online.Total,
		t.Muted.Render("sockets"), st.Online.TotalSockets,
		t.Muted.Render("requests"), st.Requests.Total,
		t.Muted.Render("searching"), st.Requests.Searching,
	)
	if st.PollErr != nil {
		line += "  " + t.Error.Render(monitor.PollFailed)
	}
	return line
}
