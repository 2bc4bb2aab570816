package intent

import (
	"testing"

	"github.com/askdeck/askdeck/internal/catalog"
)

func TestClassifyTypes(t *testing.T) {
	tests := []struct {
		text       string
		wantType   Type
		wantConf   float64
	}{
		{"hi", Greeting, 0.95},
		{"Hello!", Greeting, 0.95},
		{"hey there", Greeting, 0.95},
		{"good morning", Greeting, 0.95},
		{"thanks", Thanks, 0.95},
		{"thank you, that was really helpful", Thanks, 0.95},
		{"bye", Goodbye, 0.95},
		{"goodbye!", Goodbye, 0.95},
		{"who founded the company?", GeneralKnowledge, 0.7},
		{"tell me a joke", GeneralKnowledge, 0.7},
		{"what can you do?", AboutPlatform, 0.8},
		{"recommend a tool for writing emails", ToolRecommendation, 0.9},
		{"I need a tool for data analysis", ToolRecommendation, 0.9},
		{"which tool is best for coding?", ToolRecommendation, 0.9},
		{"compare ChatGPT and Claude", ToolComparison, 0.85},
		{"ChatGPT vs Claude", ToolComparison, 0.85},
		{"what is the difference between Plai and Claude?", ToolComparison, 0.85},
		{"how many internal tools do we have?", AnalyticsQuery, 0.85},
		{"what percentage of tools are internal vs external?", AnalyticsQuery, 0.85},
		{"tell me about Plai", ToolDetails, 0.75},
		{"how do I access Concierge?", PlatformHelp, 0.8},
		{"any suggestions?", Suggestion, 0.7},
		{"the quick brown fox", GeneralQuestion, 0.5},
		{"", GeneralQuestion, 0.5},
	}

	for _, tt := range tests {
		got := Classify(tt.text)
		if got.Type != tt.wantType {
			t.Errorf("Classify(%q).Type = %s, expected %s", tt.text, got.Type, tt.wantType)
		}
		if got.Confidence != tt.wantConf {
			t.Errorf("Classify(%q).Confidence = %v, expected %v", tt.text, got.Confidence, tt.wantConf)
		}
	}
}

func TestClassifyCourtesyPreemptsBroaderGroups(t *testing.T) {
	// "hi" must never fall through to a tool-query group even though
	// broader patterns could substring-match longer greetings.
	got := Classify("hi")
	if got.Type != Greeting {
		t.Fatalf("expected GREETING, got %s", got.Type)
	}
}

func TestRecommendationEntities(t *testing.T) {
	it := Classify("I need a tool for data analysis")
	if it.Recommendation == nil {
		t.Fatal("expected recommendation entities")
	}
	e := it.Recommendation

	if len(e.Capabilities) != 1 || e.Capabilities[0] != catalog.CapData {
		t.Errorf("expected capabilities [data_analysis], got %v", e.Capabilities)
	}
	if e.Capability != "Data Analysis" {
		t.Errorf("expected capability label Data Analysis, got %q", e.Capability)
	}
	if e.UseCase != "data analysis" {
		t.Errorf("expected use case %q, got %q", "data analysis", e.UseCase)
	}
	if !e.HasCapabilityFilter() {
		t.Error("expected HasCapabilityFilter to be true")
	}
}

func TestRecommendationEntitiesPreferences(t *testing.T) {
	it := Classify("recommend an internal tool for the marketing team")
	if it.Recommendation == nil {
		t.Fatal("expected recommendation entities")
	}
	if !it.Recommendation.PreferInternal {
		t.Error("expected PreferInternal to be true")
	}
	if it.Recommendation.PreferExternal {
		t.Error("expected PreferExternal to be false")
	}
	if it.Recommendation.Department != "marketing" {
		t.Errorf("expected department marketing, got %q", it.Recommendation.Department)
	}
}

func TestComparisonEntitiesList(t *testing.T) {
	it := Classify("compare ChatGPT, Claude and Gemini")
	if it.Comparison == nil {
		t.Fatal("expected comparison entities")
	}

	want := []string{"ChatGPT", "Claude", "Gemini"}
	if len(it.Comparison.ToolNames) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), it.Comparison.ToolNames)
	}
	for i, name := range want {
		if it.Comparison.ToolNames[i] != name {
			t.Errorf("name %d: expected %q, got %q", i, name, it.Comparison.ToolNames[i])
		}
	}
}

func TestComparisonEntitiesVersus(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"ChatGPT vs Claude", []string{"ChatGPT", "Claude"}},
		{"ChatGPT versus Claude", []string{"ChatGPT", "Claude"}},
		{"what is the difference between Plai and Claude?", []string{"Plai", "Claude"}},
	}

	for _, tt := range tests {
		it := Classify(tt.text)
		if it.Comparison == nil {
			t.Errorf("Classify(%q): expected comparison entities", tt.text)
			continue
		}
		if len(it.Comparison.ToolNames) != len(tt.want) {
			t.Errorf("Classify(%q): expected %v, got %v", tt.text, tt.want, it.Comparison.ToolNames)
			continue
		}
		for i, name := range tt.want {
			if it.Comparison.ToolNames[i] != name {
				t.Errorf("Classify(%q) name %d: expected %q, got %q", tt.text, i, name, it.Comparison.ToolNames[i])
			}
		}
	}
}

// Names whose lower-cased form has a different byte width (the dotted
// capital I here) must come through extraction intact.
func TestComparisonEntitiesNonASCIINames(t *testing.T) {
	it := Classify("compare İşlem and Claude")
	if it.Comparison == nil {
		t.Fatal("expected comparison entities")
	}
	want := []string{"İşlem", "Claude"}
	if len(it.Comparison.ToolNames) != len(want) {
		t.Fatalf("expected %v, got %v", want, it.Comparison.ToolNames)
	}
	for i, name := range want {
		if it.Comparison.ToolNames[i] != name {
			t.Errorf("name %d: expected %q, got %q", i, name, it.Comparison.ToolNames[i])
		}
	}

	it = Classify("İşlem vs Claude")
	if it.Comparison == nil || len(it.Comparison.ToolNames) != 2 || it.Comparison.ToolNames[0] != "İşlem" {
		t.Errorf("expected İşlem extracted from versus form, got %+v", it.Comparison)
	}
}

func TestDetailsEntitiesNonASCIIName(t *testing.T) {
	it := Classify("tell me about İşlem")
	if it.Details == nil {
		t.Fatal("expected details entities")
	}
	if it.Details.ToolName != "İşlem" {
		t.Errorf("expected İşlem, got %q", it.Details.ToolName)
	}
}

func TestComparisonEntitiesTooFewSubjects(t *testing.T) {
	it := Classify("compare the catalog")
	if it.Type != ToolComparison {
		t.Fatalf("expected TOOL_COMPARISON, got %s", it.Type)
	}
	if it.Comparison == nil {
		t.Fatal("expected comparison entities")
	}
	if len(it.Comparison.ToolNames) != 0 {
		t.Errorf("expected no extracted names, got %v", it.Comparison.ToolNames)
	}
}

func TestAnalyticsEntities(t *testing.T) {
	it := Classify("what percentage of tools are internal vs external?")
	if it.Analytics == nil {
		t.Fatal("expected analytics entities")
	}
	if it.Analytics.MetricType != MetricToolType {
		t.Errorf("expected metric tool_type, got %q", it.Analytics.MetricType)
	}
	if !it.Analytics.InternalVsExternal {
		t.Error("expected InternalVsExternal to be true")
	}

	it = Classify("how many internal tools do we have?")
	if it.Analytics == nil {
		t.Fatal("expected analytics entities")
	}
	if it.Analytics.InternalVsExternal {
		t.Error("expected InternalVsExternal to be false for internal-only question")
	}
}

// Internal-vs-external phrasings are catalog statistics even when worded as
// a comparison; they must not fall through to GENERAL_QUESTION.
func TestAnalyticsInternalVsExternalPhrasings(t *testing.T) {
	tests := []string{
		"compare internal vs external tools",
		"internal vs external tools",
		"what's the difference between internal and external tools?",
	}

	for _, text := range tests {
		it := Classify(text)
		if it.Type != AnalyticsQuery {
			t.Errorf("Classify(%q) = %s, expected ANALYTICS_QUERY", text, it.Type)
			continue
		}
		if it.Analytics == nil || !it.Analytics.InternalVsExternal {
			t.Errorf("Classify(%q): expected InternalVsExternal entities, got %+v", text, it.Analytics)
		}
		if it.Analytics != nil && it.Analytics.MetricType != MetricToolType {
			t.Errorf("Classify(%q): expected metric tool_type, got %q", text, it.Analytics.MetricType)
		}
	}
}

func TestDetailsEntities(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"tell me about Plai", "Plai"},
		{`what is "PixelForge"`, "PixelForge"},
		{"tell me more about the Concierge tool", "Concierge"},
	}

	for _, tt := range tests {
		it := Classify(tt.text)
		if it.Details == nil {
			t.Errorf("Classify(%q): expected details entities", tt.text)
			continue
		}
		if it.Details.ToolName != tt.want {
			t.Errorf("Classify(%q).ToolName = %q, expected %q", tt.text, it.Details.ToolName, tt.want)
		}
	}
}

func TestHelpEntitiesToolAccess(t *testing.T) {
	it := Classify("how do I access Concierge?")
	if it.Help == nil {
		t.Fatal("expected help entities")
	}
	if it.Help.Feature != "tool_access" {
		t.Errorf("expected feature tool_access, got %q", it.Help.Feature)
	}
	if it.Help.ToolName != "Concierge" {
		t.Errorf("expected tool name Concierge, got %q", it.Help.ToolName)
	}
}

func TestHelpEntitiesLogin(t *testing.T) {
	it := Classify("where do I log in?")
	if it.Type != PlatformHelp {
		t.Fatalf("expected PLATFORM_HELP, got %s", it.Type)
	}
	if it.Help == nil || it.Help.Feature != "login" {
		t.Errorf("expected login feature, got %+v", it.Help)
	}
}

func TestClassifyIsPure(t *testing.T) {
	a := Classify("I need a tool for data analysis")
	b := Classify("I need a tool for data analysis")

	if a.Type != b.Type || a.Confidence != b.Confidence {
		t.Error("repeated classification of the same text diverged")
	}
	if a.Recommendation.UseCase != b.Recommendation.UseCase {
		t.Error("repeated entity extraction of the same text diverged")
	}
}
