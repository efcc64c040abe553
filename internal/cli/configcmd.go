package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/hcadmin/internal/config"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

func (e *env) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the resolved settings to the config file",
		Args:  exactArgs(0, "config init [--force]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := e.cfgPath
			if _, err := os.Stat(path); path != "" && errors.Is(err, fs.ErrNotExist) {
				// nothing to read yet
				e.cfgPath = ""
			}
			cfg, err := e.config()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Path()
			}
			if err := config.WriteFile(*cfg, path, force); err != nil {
				return err
			}
			ui.OK(e.opt.Stdout, "wrote "+path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the settings in effect",
		Args:  exactArgs(0, "config show"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("yaml marshal: %w", err)
			}
			fmt.Fprint(e.opt.Stdout, string(b))
			return nil
		},
	}

	cmd.AddCommand(initCmd, show)
	return cmd
}
