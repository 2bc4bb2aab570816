package learning

import "strings"

// EMA weights. Each map keeps an exponential moving average so old evidence
// decays rather than vanishing.
const (
	intentAccuracyKeep   = 0.8
	intentAccuracyLearn  = 0.2
	toolSuccessKeep      = 0.9
	toolSuccessLearn     = 0.1
	effectivenessKeep    = 0.85
	effectivenessLearn   = 0.15
	emaDefault           = 0.5
	misclassificationCap = 50
)

// Response patterns for effectiveness tracking.
const (
	PatternList           = "list"
	PatternComparison     = "comparison"
	PatternRecommendation = "recommendation"
	PatternGeneral        = "general"
)

// Model is the session-lifetime accuracy and success model. It is rebuilt
// from persisted interactions on cold start; replaying updates must
// reproduce the same EMA state as applying them incrementally in order.
type Model struct {
	IntentAccuracy        map[string]float64 `json:"intentAccuracy"`
	ToolSuccess           map[string]float64 `json:"toolRecommendationSuccess"`
	ResponseEffectiveness map[string]float64 `json:"responseEffectiveness"`
	Misclassifications    []Misclassification `json:"misclassifications,omitempty"`

	TotalFeedback       int     `json:"totalFeedback"`
	PositiveFeedback    int     `json:"positiveFeedback"`
	NegativeFeedback    int     `json:"negativeFeedback"`
	SatisfactionCount   int     `json:"satisfactionCount"`
	AverageSatisfaction float64 `json:"averageSatisfaction"`
}

// NewModel creates an empty learning model.
func NewModel() *Model {
	return &Model{
		IntentAccuracy:        make(map[string]float64),
		ToolSuccess:           make(map[string]float64),
		ResponseEffectiveness: make(map[string]float64),
	}
}

// applyToolOutcome updates per-tool recommendation success for every
// recommended id, not just the selected one.
func (m *Model) applyToolOutcome(it Interaction) {
	for _, toolID := range it.RecommendedTools {
		selected := 0.0
		if it.SelectedTool == toolID {
			selected = 1.0
		}
		old := m.lookup(m.ToolSuccess, toolID)
		m.ToolSuccess[toolID] = toolSuccessKeep*old + toolSuccessLearn*selected
	}
}

// applyFeedback updates intent accuracy from an interaction that carries
// feedback, and tracks misclassifications on negative feedback.
func (m *Model) applyFeedback(it Interaction) {
	if it.Feedback == "" {
		return
	}

	score := FeedbackScore(it.Feedback)
	old := m.lookup(m.IntentAccuracy, it.IntentType)
	m.IntentAccuracy[it.IntentType] = intentAccuracyKeep*old + intentAccuracyLearn*score

	if it.Feedback == FeedbackNegative {
		m.Misclassifications = append(m.Misclassifications, Misclassification{
			Query:      it.Query,
			IntentType: it.IntentType,
			Confidence: it.IntentConfidence,
			Timestamp:  it.Timestamp,
		})
		if len(m.Misclassifications) > misclassificationCap {
			m.Misclassifications = m.Misclassifications[len(m.Misclassifications)-misclassificationCap:]
		}
	}
}

// applySatisfaction updates response-pattern effectiveness from a 1-5
// satisfaction score.
func (m *Model) applySatisfaction(it Interaction) {
	if it.Satisfaction < 1 {
		return
	}

	pattern := ResponsePattern(it.Response)
	old := m.lookup(m.ResponseEffectiveness, pattern)
	m.ResponseEffectiveness[pattern] = effectivenessKeep*old + effectivenessLearn*(float64(it.Satisfaction)/5.0)
}

// applyCounters updates the global feedback counters and the running
// average satisfaction.
func (m *Model) applyCounters(feedback Feedback, satisfaction int) {
	m.TotalFeedback++
	switch feedback {
	case FeedbackPositive:
		m.PositiveFeedback++
	case FeedbackNegative:
		m.NegativeFeedback++
	}

	if satisfaction >= 1 {
		m.SatisfactionCount++
		n := float64(m.SatisfactionCount)
		m.AverageSatisfaction = (m.AverageSatisfaction*(n-1) + float64(satisfaction)) / n
	}
}

// Replay rebuilds model state from a persisted interaction history, applying
// the same updates the live path applies.
func (m *Model) Replay(history []Interaction) {
	for _, it := range history {
		m.applyToolOutcome(it)
		m.applyFeedback(it)
		m.applySatisfaction(it)
		if it.Feedback != "" {
			m.applyCounters(it.Feedback, it.Satisfaction)
		}
	}
}

// SuccessRate returns the historical recommendation success for a tool,
// defaulting to 0.5 for unseen tools.
func (m *Model) SuccessRate(toolID string) float64 {
	return m.lookup(m.ToolSuccess, toolID)
}

func (m *Model) lookup(table map[string]float64, key string) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return emaDefault
}

// ResponsePattern classifies response text into a coarse pattern bucket.
func ResponsePattern(response string) string {
	lower := strings.ToLower(response)
	switch {
	case strings.Contains(response, "\n- ") || strings.Contains(response, "\n1."):
		return PatternList
	case strings.Contains(lower, " vs ") || strings.Contains(lower, "comparison"):
		return PatternComparison
	case strings.Contains(lower, "recommend"):
		return PatternRecommendation
	}
	return PatternGeneral
}
