package moviematch

import "go.uber.org/zap"

// DefaultTopN is used when a query asks for zero or fewer results.
const DefaultTopN = 10

type recommenderConfig struct {
	minDF          int
	ngramMax       int
	matchThreshold float64
	defaultTopN    int
	logger         *zap.Logger
}

// Option configures a Recommender.
type Option func(*recommenderConfig)

// WithMinDF sets the minimum number of movies a term must appear in to enter
// the vocabulary. Default 2.
func WithMinDF(n int) Option {
	return func(c *recommenderConfig) { c.minDF = n }
}

// WithUnigramsOnly disables bigram terms.
func WithUnigramsOnly() Option {
	return func(c *recommenderConfig) { c.ngramMax = 1 }
}

// WithMatchThreshold sets the minimum fuzzy score (0..100) a title must reach. Default 60.
func WithMatchThreshold(score float64) Option {
	return func(c *recommenderConfig) { c.matchThreshold = score }
}

// WithDefaultTopN changes the result size used when topN <= 0.
func WithDefaultTopN(n int) Option {
	return func(c *recommenderConfig) { c.defaultTopN = n }
}

// WithLogger attaches a zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *recommenderConfig) { c.logger = l }
}
