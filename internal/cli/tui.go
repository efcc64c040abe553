package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/hcadmin/internal/tui"
)

func (e *env) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive console (the default)",
		Args:  exactArgs(0, "tui"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.runTUI(cmd)
		},
	}
}

func (e *env) runTUI(cmd *cobra.Command) error {
	if err := e.open(); err != nil {
		return err
	}
	return tui.Run(cmd.Context(), tui.Deps{
		Session: e.sess,
		Client:  e.client,
		Config:  e.cfg,
		Log:     e.log,
		Now:     e.opt.Now,
		In:      e.opt.Stdin,
		Out:     e.opt.Stdout,
	})
}
