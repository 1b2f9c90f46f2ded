package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hisab-dev/hisab/internal/buildinfo"
	"github.com/hisab-dev/hisab/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:     "hisab",
		Short:   "Plain-text shop accounting",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Setup(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newCoaCommand())
	rootCmd.AddCommand(newRecordCommand())
	rootCmd.AddCommand(newDaybookCommand())
	rootCmd.AddCommand(newAdjustCommand())
	rootCmd.AddCommand(newImportCommand())

	return rootCmd
}
