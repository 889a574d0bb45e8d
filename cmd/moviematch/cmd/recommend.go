package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/moviematch"
	"github.com/kailas-cloud/moviematch/internal/transport/movielens"
)

type recommendOptions struct {
	dataDir  string
	download bool
	title    string
	keywords string
	topN     int
	asJSON   bool
}

func newRecommendCmd() *cobra.Command {
	opts := &recommendOptions{}

	c := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend movies similar to a title or matching keywords",
		Example: "  moviematch recommend --title \"toy story\" --topn 5\n" +
			"  moviematch recommend --keywords \"space adventure\"",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, opts)
		},
	}

	f := c.Flags()
	f.StringVar(&opts.dataDir, "data", defaultDataDir, "dataset directory")
	f.BoolVar(&opts.download, "download", false, "force a fresh dataset download")
	f.StringVar(&opts.title, "title", "", "movie title to find similar movies for")
	f.StringVar(&opts.keywords, "keywords", "", "free-text keywords to match")
	f.IntVar(&opts.topN, "topn", moviematch.DefaultTopN, "number of recommendations")
	f.BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	return c
}

func runRecommend(cmd *cobra.Command, opts *recommendOptions) error {
	out := cmd.OutOrStdout()
	title := strings.TrimSpace(opts.title)
	keywords := strings.TrimSpace(opts.keywords)
	if title == "" && keywords == "" {
		fmt.Fprintln(out, "Use --title or --keywords.")
		return nil
	}

	logger := cliLogger(cmd)
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	files, err := ensureDataset(ctx, datasetURL, opts.dataDir, opts.download, movielens.DefaultTimeout, logger)
	if err != nil {
		return err
	}

	rec := moviematch.New(moviematch.WithLogger(logger))
	if err := rec.FitFile(ctx, files.Movies); err != nil {
		return err
	}
	logger.Debug("Catalog fitted", zap.Int("movies", rec.Size()))

	var res moviematch.Result
	if title != "" {
		res, err = rec.RecommendByTitle(ctx, title, opts.topN)
	} else {
		res, err = rec.RecommendByKeywords(ctx, keywords, opts.topN)
	}
	if err != nil {
		var nm *moviematch.NoMatchError
		if errors.As(err, &nm) {
			return fmt.Errorf("no movie title close to %q (best guess %q, score %.1f)", nm.Title, nm.BestMatch, nm.Score)
		}
		return err
	}

	if res.Unmatched() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: none of the keywords appear in the catalog; similarities are all zero.")
	}
	if opts.asJSON {
		return writeJSON(out, res)
	}
	if res.MatchedTitle != "" {
		fmt.Fprintf(out, "Matched %q (score %.1f)\n\n", res.MatchedTitle, res.MatchScore)
	}
	return writeTable(out, res.Items)
}
