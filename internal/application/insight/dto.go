package insight

import "time"

// GenerateInsightRequest asks the configured AI provider for advice
// about one dashboard page.
type GenerateInsightRequest struct {
	Page       string `json:"page" binding:"required,oneof=dashboard owner property"`
	OwnerID    string `json:"owner_id" binding:"omitempty,uuid"`
	PropertyID string `json:"property_id" binding:"omitempty,uuid"`
	Refresh    bool   `json:"refresh"`
}

// InsightResponse carries the generated or cached insight
type InsightResponse struct {
	Page            string    `json:"page"`
	Summary         string    `json:"summary"`
	Recommendations []string  `json:"recommendations"`
	Provider        string    `json:"provider"`
	Model           string    `json:"model"`
	Cached          bool      `json:"cached"`
	GeneratedAt     time.Time `json:"generated_at"`
}
