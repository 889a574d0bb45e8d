// Package sdk is a Go client for the moviematch HTTP API.
//
//	c, _ := sdk.New("http://localhost:8080", sdk.WithAPIKey(os.Getenv("MOVIEMATCH_API_KEY")))
//	res, err := c.ByTitle(ctx, "toy story", 5)
//	if errors.Is(err, sdk.ErrNoMatch) {
//	    // no catalog title was close enough
//	}
//	for _, it := range res.Items {
//	    fmt.Println(it.Title, it.Similarity)
//	}
package sdk
