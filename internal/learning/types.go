/*
Package learning persists interactions and feedback, maintains per-user
preference profiles and a global accuracy model, and biases ranking toward
what has worked before.

All state is process-local and guarded by the service mutex. Every mutation
is snapshotted to the durable store; persistence failures are logged and
swallowed so learning continues in-memory for the session.
*/
package learning

import (
	"time"

	"github.com/askdeck/askdeck/internal/intent"
)

// Feedback is the user's verdict on one interaction.
type Feedback string

const (
	FeedbackPositive Feedback = "positive"
	FeedbackNeutral  Feedback = "neutral"
	FeedbackNegative Feedback = "negative"
)

// Interaction is one record per user turn. Append-only except for the
// feedback fields, which may be back-filled once by correlating on session id.
type Interaction struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	SessionID        string    `json:"sessionId"`
	Timestamp        time.Time `json:"timestamp"`
	Query            string    `json:"query"`
	IntentType       string    `json:"intentType"`
	IntentConfidence float64   `json:"intentConfidence"`
	Response         string    `json:"response"`
	Feedback         Feedback  `json:"feedback,omitempty"`
	Satisfaction     int       `json:"satisfaction,omitempty"` // 1-5, 0 when unset
	RecommendedTools []string  `json:"recommendedTools,omitempty"`
	SelectedTool     string    `json:"selectedTool,omitempty"`
	ResponseTimeMs   int64     `json:"responseTimeMs"`
}

// Learning styles derived from query length.
const (
	StyleDetailed = "detailed"
	StyleConcise  = "concise"
	StyleBalanced = "balanced"
)

// Expertise levels derived from the trailing interaction window.
const (
	ExpertiseBeginner     = "beginner"
	ExpertiseIntermediate = "intermediate"
	ExpertiseAdvanced     = "advanced"
)

// UserPreference is the evolving profile for one user id. Recency lists are
// capped; derived fields are recomputed from a trailing window and may
// oscillate as new evidence arrives. LastUpdated never decreases.
type UserPreference struct {
	UserID                string    `json:"userId"`
	PreferredTools        []string  `json:"preferredTools,omitempty"`
	PreferredCapabilities []string  `json:"preferredCapabilities,omitempty"`
	FrequentQueries       []string  `json:"frequentQueries,omitempty"`
	LearningStyle         string    `json:"learningStyle"`
	ExpertiseLevel        string    `json:"expertiseLevel"`
	AvgQueryLength        float64   `json:"avgQueryLength"`
	AvgResponseTimeMs     float64   `json:"avgResponseTimeMs"`
	InteractionCount      int       `json:"interactionCount"`
	LastUpdated           time.Time `json:"lastUpdated"`
}

// Misclassification records a turn the user judged wrong, for later review.
type Misclassification struct {
	Query      string    `json:"query"`
	IntentType string    `json:"intentType"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// FeedbackScore maps feedback to the EMA input score.
func FeedbackScore(f Feedback) float64 {
	switch f {
	case FeedbackPositive:
		return 1.0
	case FeedbackNeutral:
		return 0.5
	case FeedbackNegative:
		return 0.0
	}
	return 0.5
}

// NewInteraction builds an interaction record from a processed turn.
func NewInteraction(id, userID, sessionID, query string, it intent.Intent, response string, recommended []string, latency time.Duration) Interaction {
	return Interaction{
		ID:               id,
		UserID:           userID,
		SessionID:        sessionID,
		Timestamp:        time.Now(),
		Query:            query,
		IntentType:       string(it.Type),
		IntentConfidence: it.Confidence,
		Response:         response,
		RecommendedTools: recommended,
		ResponseTimeMs:   latency.Milliseconds(),
	}
}
