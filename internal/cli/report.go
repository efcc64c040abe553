package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/hcadmin/internal/report"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

func (e *env) reportCmd() *cobra.Command {
	var dir, query string
	cmd := &cobra.Command{
		Use:   "report <kind>",
		Short: "Download a CSV report (" + strings.Join(report.Kinds, ", ") + ")",
		Args:  exactArgs(1, "report <kind> [-o dir] [-q query]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := strings.ToLower(args[0])
			if !slices.Contains(report.Kinds, kind) {
				return usagef("unknown report %q (want one of %s)", args[0], strings.Join(report.Kinds, ", "))
			}
			if _, err := e.loggedIn(); err != nil {
				return err
			}
			v, err := e.view(kind)
			if err != nil {
				return err
			}
			path, n, err := report.Export(cmd.Context(), v, dir, query, e.opt.Now())
			if err != nil {
				return err
			}
			ui.OK(e.opt.Stdout, fmt.Sprintf("%q report downloaded successfully!", kind))
			fmt.Fprintf(e.opt.Stdout, "%s (%d rows)\n", path, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "output", "o", ".", "directory to write the CSV into")
	cmd.Flags().StringVarP(&query, "query", "q", "", "only export rows matching this search")
	return cmd
}
