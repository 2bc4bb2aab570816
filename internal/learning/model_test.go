package learning

import (
	"math"
	"testing"
)

func TestIntentAccuracyEMA(t *testing.T) {
	m := NewModel()

	// Unseen intents start at the 0.5 default and move by 0.2 per update.
	m.applyFeedback(Interaction{IntentType: "TOOL_RECOMMENDATION", Feedback: FeedbackPositive})
	if got := m.IntentAccuracy["TOOL_RECOMMENDATION"]; math.Abs(got-0.6) > 0.001 {
		t.Errorf("after one positive: expected 0.6, got %v", got)
	}

	m.applyFeedback(Interaction{IntentType: "TOOL_RECOMMENDATION", Feedback: FeedbackPositive})
	if got := m.IntentAccuracy["TOOL_RECOMMENDATION"]; math.Abs(got-0.68) > 0.001 {
		t.Errorf("after two positives: expected 0.68, got %v", got)
	}

	m.applyFeedback(Interaction{IntentType: "TOOL_RECOMMENDATION", Feedback: FeedbackNegative})
	if got := m.IntentAccuracy["TOOL_RECOMMENDATION"]; math.Abs(got-0.544) > 0.001 {
		t.Errorf("after a negative: expected 0.544, got %v", got)
	}
}

func TestToolSuccessEMA(t *testing.T) {
	m := NewModel()

	it := Interaction{
		RecommendedTools: []string{"plai", "chatgpt"},
		SelectedTool:     "plai",
	}
	m.applyToolOutcome(it)

	// Selected tool moves toward 1, the passed-over one toward 0.
	if got := m.ToolSuccess["plai"]; math.Abs(got-0.55) > 0.001 {
		t.Errorf("selected tool: expected 0.55, got %v", got)
	}
	if got := m.ToolSuccess["chatgpt"]; math.Abs(got-0.45) > 0.001 {
		t.Errorf("passed-over tool: expected 0.45, got %v", got)
	}
}

func TestSuccessRateDefault(t *testing.T) {
	m := NewModel()
	if got := m.SuccessRate("never-seen"); got != 0.5 {
		t.Errorf("expected 0.5 default, got %v", got)
	}
}

func TestMisclassificationsTracked(t *testing.T) {
	m := NewModel()

	m.applyFeedback(Interaction{Query: "q1", IntentType: "GREETING", Feedback: FeedbackNegative})
	if len(m.Misclassifications) != 1 {
		t.Fatalf("expected 1 misclassification, got %d", len(m.Misclassifications))
	}
	if m.Misclassifications[0].Query != "q1" {
		t.Errorf("expected query q1, got %q", m.Misclassifications[0].Query)
	}

	// Positive feedback never logs a misclassification.
	m.applyFeedback(Interaction{Query: "q2", IntentType: "GREETING", Feedback: FeedbackPositive})
	if len(m.Misclassifications) != 1 {
		t.Errorf("expected still 1 misclassification, got %d", len(m.Misclassifications))
	}
}

func TestMisclassificationsCapped(t *testing.T) {
	m := NewModel()
	for i := 0; i < misclassificationCap+20; i++ {
		m.applyFeedback(Interaction{IntentType: "GREETING", Feedback: FeedbackNegative})
	}
	if len(m.Misclassifications) != misclassificationCap {
		t.Errorf("expected cap %d, got %d", misclassificationCap, len(m.Misclassifications))
	}
}

func TestCountersRunningAverage(t *testing.T) {
	m := NewModel()

	m.applyCounters(FeedbackPositive, 5)
	m.applyCounters(FeedbackNegative, 3)
	m.applyCounters(FeedbackPositive, 0) // no satisfaction given

	if m.TotalFeedback != 3 {
		t.Errorf("expected 3 total, got %d", m.TotalFeedback)
	}
	if m.PositiveFeedback != 2 || m.NegativeFeedback != 1 {
		t.Errorf("expected 2 positive / 1 negative, got %d / %d", m.PositiveFeedback, m.NegativeFeedback)
	}
	if m.SatisfactionCount != 2 {
		t.Errorf("expected 2 satisfaction samples, got %d", m.SatisfactionCount)
	}
	if math.Abs(m.AverageSatisfaction-4.0) > 0.001 {
		t.Errorf("expected average 4.0, got %v", m.AverageSatisfaction)
	}
}

func TestReplayMatchesLivePath(t *testing.T) {
	history := []Interaction{
		{
			IntentType:       "TOOL_RECOMMENDATION",
			Query:            "data tool",
			Response:         "I recommend Plai",
			RecommendedTools: []string{"plai", "chatgpt"},
			SelectedTool:     "plai",
			Feedback:         FeedbackPositive,
			Satisfaction:     4,
		},
		{
			IntentType:       "TOOL_COMPARISON",
			Query:            "a vs b",
			Response:         "comparison of the two",
			RecommendedTools: []string{"claude"},
			Feedback:         FeedbackNegative,
			Satisfaction:     2,
		},
	}

	// Live path: tool outcome at record time, the rest at feedback time.
	live := NewModel()
	for _, it := range history {
		pending := it
		pending.Feedback = ""
		pending.Satisfaction = 0
		live.applyToolOutcome(pending)
		live.applySatisfaction(pending)

		live.applyFeedback(it)
		live.applySatisfaction(it)
		live.applyCounters(it.Feedback, it.Satisfaction)
	}

	replayed := NewModel()
	replayed.Replay(history)

	assertMapsEqual(t, "IntentAccuracy", live.IntentAccuracy, replayed.IntentAccuracy)
	assertMapsEqual(t, "ToolSuccess", live.ToolSuccess, replayed.ToolSuccess)
	assertMapsEqual(t, "ResponseEffectiveness", live.ResponseEffectiveness, replayed.ResponseEffectiveness)
	if live.TotalFeedback != replayed.TotalFeedback {
		t.Errorf("TotalFeedback: live %d, replayed %d", live.TotalFeedback, replayed.TotalFeedback)
	}
	if math.Abs(live.AverageSatisfaction-replayed.AverageSatisfaction) > 0.001 {
		t.Errorf("AverageSatisfaction: live %v, replayed %v", live.AverageSatisfaction, replayed.AverageSatisfaction)
	}
}

func TestResponsePattern(t *testing.T) {
	tests := []struct {
		response string
		want     string
	}{
		{"Here you go:\n1. Plai\n2. ChatGPT", PatternList},
		{"Options:\n- Plai\n- Claude", PatternList},
		{"Plai vs ChatGPT: quite different", PatternComparison},
		{"I recommend Plai for that", PatternRecommendation},
		{"The catalog has 5 tools.", PatternGeneral},
	}

	for _, tt := range tests {
		if got := ResponsePattern(tt.response); got != tt.want {
			t.Errorf("ResponsePattern(%q) = %s, expected %s", tt.response, got, tt.want)
		}
	}
}

func assertMapsEqual(t *testing.T, name string, a, b map[string]float64) {
	t.Helper()
	if len(a) != len(b) {
		t.Errorf("%s: sizes differ (%d vs %d)", name, len(a), len(b))
		return
	}
	for k, v := range a {
		if math.Abs(v-b[k]) > 0.000001 {
			t.Errorf("%s[%s]: live %v, replayed %v", name, k, v, b[k])
		}
	}
}
