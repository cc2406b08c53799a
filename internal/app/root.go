package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bethropolis/gitree/internal/config"
)

// Execute builds the root command, parses arguments and runs the app.
func Execute() error {
	root := &cobra.Command{
		Use:           "gitree [paths...]",
		Short:         "Print a directory tree that respects .gitignore",
		Long:          "gitree prints directory trees while honoring .gitignore rules,\nwith filtering, export, archive and clipboard support.",
		Version:       config.Default().Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initConfig, _ := cmd.Flags().GetBool("init-config"); initConfig {
				path, err := config.InitFile()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "config file at %s\n", path)
				return nil
			}

			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			cfg.Paths = args
			if err := cfg.Validate(); err != nil {
				return err
			}
			return New(cfg).Run()
		},
	}
	config.RegisterFlags(root.Flags())
	return root.Execute()
}
