// Package cmd implements the moviematch command line.
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/moviematch/internal/logger"
)

const defaultDataDir = "data"

// newRootCmd builds a fresh command tree so tests never share flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "moviematch",
		Short:        "moviematch: content-based movie recommendations",
		Long:         "Recommend MovieLens movies similar to a title or matching free-text keywords.",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log progress to stderr")

	root.AddCommand(newRecommendCmd())
	root.AddCommand(newDownloadCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// cliLogger writes to the command's stderr, quietly unless --verbose is set.
func cliLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logpkg.NewCLI(cmd.ErrOrStderr(), verbose)
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
