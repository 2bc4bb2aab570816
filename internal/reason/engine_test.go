package reason

import (
	"strings"
	"testing"

	"github.com/askdeck/askdeck/internal/catalog"
	"github.com/askdeck/askdeck/internal/intent"
)

func TestReasonDeterministic(t *testing.T) {
	records := catalog.Sample()
	query := "I need a tool for data analysis"
	it := intent.Classify(query)
	ctx := &Context{UserExpertise: ExpertiseIntermediate}

	a := NewEngine().Reason(query, it, records, ctx)
	b := NewEngine().Reason(query, it, records, ctx)

	if a.Conclusion != b.Conclusion {
		t.Errorf("conclusions diverged:\n%q\n%q", a.Conclusion, b.Conclusion)
	}
	if a.OverallConfidence != b.OverallConfidence {
		t.Errorf("confidence diverged: %v vs %v", a.OverallConfidence, b.OverallConfidence)
	}
	if len(a.Candidates) != len(b.Candidates) {
		t.Fatalf("candidate counts diverged: %d vs %d", len(a.Candidates), len(b.Candidates))
	}
	for i := range a.Candidates {
		if a.Candidates[i].Record.ID != b.Candidates[i].Record.ID || a.Candidates[i].Score != b.Candidates[i].Score {
			t.Errorf("candidate %d diverged: %s/%v vs %s/%v", i,
				a.Candidates[i].Record.ID, a.Candidates[i].Score,
				b.Candidates[i].Record.ID, b.Candidates[i].Score)
		}
	}
}

func TestReasonFiveSteps(t *testing.T) {
	records := catalog.Sample()
	it := intent.Classify("recommend a tool for data analysis")

	chain := NewEngine().Reason("recommend a tool for data analysis", it, records, nil)

	if len(chain.Steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(chain.Steps))
	}

	wantKinds := []StepKind{KindAnalysis, KindInference, KindInference, KindValidation, KindSynthesis}
	for i, step := range chain.Steps {
		if step.Step != i+1 {
			t.Errorf("step %d numbered %d", i, step.Step)
		}
		if step.Kind != wantKinds[i] {
			t.Errorf("step %d: expected kind %s, got %s", i+1, wantKinds[i], step.Kind)
		}
		if step.Confidence <= 0 || step.Confidence > 1 {
			t.Errorf("step %d confidence %v out of range", i+1, step.Confidence)
		}
	}

	sum := 0.0
	for _, s := range chain.Steps {
		sum += s.Confidence
	}
	want := sum / 5
	if chain.OverallConfidence != want {
		t.Errorf("overall confidence %v, expected mean %v", chain.OverallConfidence, want)
	}
}

func TestReasonMatchesCapability(t *testing.T) {
	records := catalog.Sample()
	it := intent.Classify("I need a tool for data analysis")

	chain := NewEngine().Reason("I need a tool for data analysis", it, records, nil)

	if len(chain.Candidates) == 0 {
		t.Fatal("expected candidates")
	}
	if chain.Candidates[0].Record.Name != "Plai" {
		t.Errorf("expected Plai first, got %s", chain.Candidates[0].Record.Name)
	}
	if !strings.Contains(chain.Conclusion, "Plai") {
		t.Errorf("expected conclusion to mention Plai, got %q", chain.Conclusion)
	}
}

func TestReasonCandidatesSorted(t *testing.T) {
	records := catalog.Sample()
	it := intent.Classify("which tool is best for chat?")

	chain := NewEngine().Reason("which tool is best for chat?", it, records, nil)

	for i := 1; i < len(chain.Candidates); i++ {
		prev, curr := chain.Candidates[i-1], chain.Candidates[i]
		if curr.Score > prev.Score {
			t.Errorf("candidates not sorted: %s (%v) after %s (%v)",
				curr.Record.Name, curr.Score, prev.Record.Name, prev.Score)
		}
		if curr.Score == prev.Score && curr.Record.Name < prev.Record.Name {
			t.Errorf("tied candidates not name-ordered: %s after %s", curr.Record.Name, prev.Record.Name)
		}
	}
}

func TestReasonEmptyCatalog(t *testing.T) {
	it := intent.Classify("I need a tool for data analysis")

	chain := NewEngine().Reason("I need a tool for data analysis", it, nil, nil)

	if len(chain.Candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(chain.Candidates))
	}
	if !strings.Contains(chain.Conclusion, "No catalog tool") {
		t.Errorf("expected the no-fit conclusion, got %q", chain.Conclusion)
	}
}

func TestReasonBeginnerConclusion(t *testing.T) {
	records := catalog.Sample()
	it := intent.Classify("I need a tool for data analysis")
	ctx := &Context{UserExpertise: ExpertiseBeginner}

	chain := NewEngine().Reason("I need a tool for data analysis", it, records, ctx)

	if !strings.HasPrefix(chain.Conclusion, "I'd start with") {
		t.Errorf("expected beginner phrasing, got %q", chain.Conclusion)
	}
}

func TestReasonPreferredToolBonus(t *testing.T) {
	records := catalog.Sample()
	it := intent.Classify("which tool is best for chat?")

	base := NewEngine().Reason("which tool is best for chat?", it, records, nil)
	preferred := NewEngine().Reason("which tool is best for chat?", it, records, &Context{
		PreferredTools: []string{"claude"},
	})

	baseScore := candidateScore(base.Candidates, "claude")
	prefScore := candidateScore(preferred.Candidates, "claude")
	if prefScore <= baseScore {
		t.Errorf("expected preferred-tool bonus: base %v, with preference %v", baseScore, prefScore)
	}
}

func TestReasonPreviousQueriesCarryTopic(t *testing.T) {
	records := catalog.Sample()
	query := "recommend a tool"
	it := intent.Classify(query)

	base := NewEngine().Reason(query, it, records, nil)
	followUp := NewEngine().Reason(query, it, records, &Context{
		PreviousQueries: []string{"help me analyze my sales data"},
	})

	// The bare follow-up names no capability; the data topic from the
	// previous query should lift the analytics tool above the rest.
	if base.Candidates[0].Record.ID == "plai" {
		t.Fatal("expected plai not already first without session context")
	}
	if followUp.Candidates[0].Record.ID != "plai" {
		t.Errorf("expected plai first with session context, got %s", followUp.Candidates[0].Record.ID)
	}

	baseScore := candidateScore(base.Candidates, "plai")
	followScore := candidateScore(followUp.Candidates, "plai")
	if followScore <= baseScore {
		t.Errorf("expected follow-up bonus: base %v, with context %v", baseScore, followScore)
	}
}

func TestReasonPreviousQueriesWindowBounded(t *testing.T) {
	records := catalog.Sample()
	query := "recommend a tool"
	it := intent.Classify(query)

	// The data query is older than the window, so no bonus applies.
	old := NewEngine().Reason(query, it, records, &Context{
		PreviousQueries: []string{
			"help me analyze my sales data",
			"what time is it",
			"how was your day",
			"any plans for lunch",
		},
	})
	base := NewEngine().Reason(query, it, records, nil)

	if got, want := candidateScore(old.Candidates, "plai"), candidateScore(base.Candidates, "plai"); got != want {
		t.Errorf("expected queries outside the window ignored: got %v, want %v", got, want)
	}
}

func TestHistoryBounded(t *testing.T) {
	records := catalog.Sample()
	it := intent.Classify("which tool is best for chat?")

	engine := NewEngine()
	for i := 0; i < chainHistorySize+10; i++ {
		engine.Reason("which tool is best for chat?", it, records, nil)
	}

	if got := len(engine.History()); got != chainHistorySize {
		t.Errorf("expected history capped at %d, got %d", chainHistorySize, got)
	}
}

func candidateScore(candidates []Candidate, id string) float64 {
	for _, c := range candidates {
		if c.Record.ID == id {
			return c.Score
		}
	}
	return 0
}
