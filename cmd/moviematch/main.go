// moviematch recommends movies by title or keywords from the MovieLens catalog.
package main

import (
	"os"

	"github.com/kailas-cloud/moviematch/cmd/moviematch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
