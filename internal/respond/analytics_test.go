package respond

import (
	"strings"
	"testing"

	"github.com/askdeck/askdeck/internal/catalog"
	"github.com/askdeck/askdeck/internal/intent"
)

func TestAnalyticsEmptyCatalog(t *testing.T) {
	a := NewAnalytics(nil)

	// Every aggregation guards the zero denominator with the same message.
	if got := a.Answer(&intent.AnalyticsEntities{MetricType: intent.MetricToolType}); got != noDataMessage {
		t.Errorf("Answer: expected no-data message, got %q", got)
	}
	if got := a.Overview(); got != noDataMessage {
		t.Errorf("Overview: expected no-data message, got %q", got)
	}
	if got := a.TypeBreakdown(); got != noDataMessage {
		t.Errorf("TypeBreakdown: expected no-data message, got %q", got)
	}
	if got := a.InternalToolCount(); got != noDataMessage {
		t.Errorf("InternalToolCount: expected no-data message, got %q", got)
	}
}

func TestTypeBreakdown(t *testing.T) {
	got := NewAnalytics(catalog.Sample()).TypeBreakdown()

	// Sample has 2 internal of 5 tools.
	if !strings.Contains(got, "2 (40%) are internal") {
		t.Errorf("expected internal share in %q", got)
	}
	if !strings.Contains(got, "3 (60%) are external") {
		t.Errorf("expected external share in %q", got)
	}
}

func TestInternalVsExternal(t *testing.T) {
	got := NewAnalytics(catalog.Sample()).InternalVsExternal()

	if !strings.Contains(got, "2 internal, 3 external") {
		t.Errorf("expected group sizes in %q", got)
	}
	if !strings.Contains(got, "Chat") {
		t.Errorf("expected per-capability rows in %q", got)
	}
}

func TestAnswerRouting(t *testing.T) {
	a := NewAnalytics(catalog.Sample())

	tests := []struct {
		entities *intent.AnalyticsEntities
		fragment string
	}{
		{&intent.AnalyticsEntities{MetricType: intent.MetricToolType}, "are internal"},
		{&intent.AnalyticsEntities{MetricType: intent.MetricCapabilities}, "Capability coverage"},
		{&intent.AnalyticsEntities{MetricType: intent.MetricTechnology}, "Breakdown by technology"},
		{&intent.AnalyticsEntities{InternalVsExternal: true}, "Internal vs external"},
		{nil, "The catalog has"},
		{&intent.AnalyticsEntities{}, "The catalog has"},
	}

	for _, tt := range tests {
		got := a.Answer(tt.entities)
		if !strings.Contains(got, tt.fragment) {
			t.Errorf("Answer(%+v): expected fragment %q in %q", tt.entities, tt.fragment, got)
		}
	}
}

func TestFieldBreakdownSkipsEmpty(t *testing.T) {
	records := []catalog.Record{
		{ID: "a", Name: "A", Type: catalog.TypeInternal, Purpose: "x", Technology: "in-house"},
		{ID: "b", Name: "B", Type: catalog.TypeExternal, Purpose: "y"},
	}

	got := NewAnalytics(records).TechnologyBreakdown()
	if !strings.Contains(got, "1 tools with technology info") {
		t.Errorf("expected only the record with the field counted, got %q", got)
	}
	if !strings.Contains(got, "in-house: 1 (100%)") {
		t.Errorf("expected in-house at 100%%, got %q", got)
	}
}

func TestPercentRounding(t *testing.T) {
	if got := percent(1, 3); got != 33 {
		t.Errorf("percent(1,3) = %d, expected 33", got)
	}
	if got := percent(2, 3); got != 67 {
		t.Errorf("percent(2,3) = %d, expected 67", got)
	}
	if got := percent(5, 5); got != 100 {
		t.Errorf("percent(5,5) = %d, expected 100", got)
	}
}
