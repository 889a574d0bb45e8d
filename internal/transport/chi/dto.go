package chi

import "github.com/kailas-cloud/moviematch/internal/domain/recommendation"

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest    ErrorCode = "bad_request"
	ErrorCodeUnauthorized  ErrorCode = "unauthorized"
	ErrorCodeNotFitted     ErrorCode = "model_not_fitted"
	ErrorCodeNoMatch       ErrorCode = "title_not_found"
	ErrorCodeInternalError ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// NoMatchResponse adds the closest candidate to a title_not_found error.
type NoMatchResponse struct {
	ErrorResponse
	BestMatch string  `json:"best_match,omitempty"`
	Score     float64 `json:"score"`
}

// RecommendationResponse is the body of both recommendation routes.
type RecommendationResponse struct {
	Mode         recommendation.Mode   `json:"mode"`
	Query        string                `json:"query"`
	MatchedTitle string                `json:"matched_title,omitempty"`
	MatchScore   float64               `json:"match_score,omitempty"`
	KnownTerms   int                   `json:"known_terms"`
	Items        []recommendation.Item `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	ModelID  string            `json:"model_id,omitempty"`
	FittedAt string            `json:"fitted_at,omitempty"` // RFC 3339, UTC
	Checks   map[string]string `json:"checks"`
}

func recommendationToResponse(r recommendation.Result) RecommendationResponse {
	items := r.Items
	if items == nil {
		items = []recommendation.Item{}
	}
	return RecommendationResponse{
		Mode:         r.Mode,
		Query:        r.Query,
		MatchedTitle: r.MatchedTitle,
		MatchScore:   r.MatchScore,
		KnownTerms:   r.KnownTerms,
		Items:        items,
	}
}
