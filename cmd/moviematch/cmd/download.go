package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/moviematch/internal/transport/movielens"
)

func newDownloadCmd() *cobra.Command {
	var dataDir string

	c := &cobra.Command{
		Use:   "download",
		Short: "Download the MovieLens bundle, replacing cached files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, err := ensureDataset(cmd.Context(), datasetURL, dataDir, true, movielens.DefaultTimeout, cliLogger(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s and %s\n", files.Movies, files.Ratings)
			return nil
		},
	}

	c.Flags().StringVar(&dataDir, "data", defaultDataDir, "dataset directory")
	return c
}
