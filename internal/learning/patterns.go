package learning

import (
	"encoding/json"
	"sort"
)

// PatternSummary is the computed overview of what the assistant has learned.
type PatternSummary struct {
	TotalInteractions   int                `json:"totalInteractions"`
	ActiveUsers         int                `json:"activeUsers"`
	FeedbackRate        float64            `json:"feedbackRate"`
	PositiveRate        float64            `json:"positiveRate"`
	AverageSatisfaction float64            `json:"averageSatisfaction"`
	IntentCounts        map[string]int     `json:"intentCounts"`
	IntentAccuracy      map[string]float64 `json:"intentAccuracy"`
	TopTools            []ToolSuccess      `json:"topTools,omitempty"`
	Misclassifications  int                `json:"misclassifications"`
}

// ToolSuccess pairs a tool id with its learned success rate.
type ToolSuccess struct {
	ToolID string  `json:"toolId"`
	Rate   float64 `json:"rate"`
}

// AnalyzeLearningPatterns computes a summary over the current history and
// model.
func (s *Service) AnalyzeLearningPatterns() PatternSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := PatternSummary{
		TotalInteractions:   len(s.interactions),
		ActiveUsers:         len(s.preferences),
		AverageSatisfaction: s.model.AverageSatisfaction,
		IntentCounts:        make(map[string]int),
		IntentAccuracy:      make(map[string]float64, len(s.model.IntentAccuracy)),
		Misclassifications:  len(s.model.Misclassifications),
	}

	withFeedback := 0
	for _, it := range s.interactions {
		summary.IntentCounts[it.IntentType]++
		if it.Feedback != "" {
			withFeedback++
		}
	}
	if len(s.interactions) > 0 {
		summary.FeedbackRate = float64(withFeedback) / float64(len(s.interactions))
	}
	if s.model.TotalFeedback > 0 {
		summary.PositiveRate = float64(s.model.PositiveFeedback) / float64(s.model.TotalFeedback)
	}

	for k, v := range s.model.IntentAccuracy {
		summary.IntentAccuracy[k] = v
	}

	for id, rate := range s.model.ToolSuccess {
		summary.TopTools = append(summary.TopTools, ToolSuccess{ToolID: id, Rate: rate})
	}
	sort.Slice(summary.TopTools, func(i, j int) bool {
		if summary.TopTools[i].Rate != summary.TopTools[j].Rate {
			return summary.TopTools[i].Rate > summary.TopTools[j].Rate
		}
		return summary.TopTools[i].ToolID < summary.TopTools[j].ToolID
	})
	if len(summary.TopTools) > 5 {
		summary.TopTools = summary.TopTools[:5]
	}

	return summary
}

// floatPair is the exported [key, value] shape for model maps.
type floatPair struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// ExportPayload is the full learning dataset export.
type ExportPayload struct {
	Interactions []Interaction    `json:"interactions"`
	Preferences  []preferencePair `json:"preferences"`
	Model        struct {
		IntentAccuracy        []floatPair `json:"intentAccuracy"`
		ToolSuccess           []floatPair `json:"toolRecommendationSuccess"`
		ResponseEffectiveness []floatPair `json:"responseEffectiveness"`
	} `json:"model"`
	Patterns PatternSummary `json:"patterns"`
}

// ExportLearningData serializes the full learning dataset: interactions,
// preference pairs, model maps as key/value pairs, and the pattern summary.
func (s *Service) ExportLearningData() ([]byte, error) {
	patterns := s.AnalyzeLearningPatterns()

	s.mu.Lock()
	payload := ExportPayload{
		Interactions: append([]Interaction(nil), s.interactions...),
		Preferences:  preferencePairs(s.preferences),
		Patterns:     patterns,
	}
	payload.Model.IntentAccuracy = mapToPairs(s.model.IntentAccuracy)
	payload.Model.ToolSuccess = mapToPairs(s.model.ToolSuccess)
	payload.Model.ResponseEffectiveness = mapToPairs(s.model.ResponseEffectiveness)
	s.mu.Unlock()

	return json.MarshalIndent(payload, "", "  ")
}

func mapToPairs(m map[string]float64) []floatPair {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]floatPair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, floatPair{Key: k, Value: m[k]})
	}
	return pairs
}
