package sdk

import (
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// HealthStatus represents the aggregated server health.
type HealthStatus struct {
	Status   string            `json:"status"` // "ok", "degraded", "error"
	ModelID  string            `json:"model_id,omitempty"`
	FittedAt time.Time         `json:"fitted_at"` // zero before the first fit
	Checks   map[string]string `json:"checks"`    // component -> "ok"/"error"
}

// Healthy reports an "ok" status.
func (h HealthStatus) Healthy() bool { return h.Status == "ok" }

// Health fetches /health. An unhealthy server still answers with a report,
// which is returned without an error.
func (c *Client) Health(ctx context.Context) (hs HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	status, body, err := c.do(ctx, "/health", nil)
	if err != nil {
		return HealthStatus{}, err
	}
	if status != http.StatusOK && status != http.StatusServiceUnavailable {
		return HealthStatus{}, decodeError(status, body)
	}
	if err := json.Unmarshal(body, &hs); err != nil {
		return HealthStatus{}, fmt.Errorf("moviematch: decode /health: %w", err)
	}
	return hs, nil
}
