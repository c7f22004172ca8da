package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekarev/label-mockup/internal/config"
	"github.com/ekarev/label-mockup/internal/utils"
	"github.com/ekarev/label-mockup/pkg/errors"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

// newConfigInitCmd creates the config init command, which writes a config
// file populated with the default settings.
func newConfigInitCmd() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			if path == "" {
				path = config.GetConfigPath()
			}
			if utils.FileExists(path) && !force {
				return errors.New(errors.ErrCodeInvalidConfig, "config file %s already exists, use --force to overwrite", path)
			}
			if err := config.Default().SaveToFile(path); err != nil {
				return err
			}
			logger.Info("wrote config", "path", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "destination (default: the user config directory)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// newConfigPathCmd creates the config path command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigPath())
		},
	}
}
