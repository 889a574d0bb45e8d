package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	json "github.com/goccy/go-json"

	"github.com/kailas-cloud/moviematch"
)

func writeTable(w io.Writer, items []moviematch.Item) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "movieId\ttitle\tgenres\tsimilarity")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\n", it.MovieID, it.Title, it.Genres, it.Similarity)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, res moviematch.Result) error {
	if res.Items == nil {
		res.Items = []moviematch.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
