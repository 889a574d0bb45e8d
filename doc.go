// Package moviematch is a content-based movie recommender.
//
// A Recommender is fitted on a catalog of movies and then answers two kinds
// of query: movies similar to a (fuzzily matched) title, and movies matching
// free-text keywords. Similarity is cosine over TF-IDF vectors built from
// each movie's title and genres.
//
//	rec := moviematch.New()
//	if err := rec.FitFile(ctx, "data/movies.csv"); err != nil {
//		return err
//	}
//	res, err := rec.RecommendByTitle(ctx, "toy story", 5)
package moviematch
