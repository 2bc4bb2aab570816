/*
Package intent maps raw user text to a typed intent with extracted entities.

Classification is an ordered, short-circuiting cascade of named pattern
groups; the first group whose pattern matches wins. Courtesy groups sit ahead
of the broader groups on purpose, so "hi" never false-positives as a tool
query. Each group carries a fixed confidence reflecting how narrowly it is
defined.
*/
package intent

import "github.com/askdeck/askdeck/internal/catalog"

// Type is the classified intent of one user message.
type Type string

const (
	Greeting           Type = "GREETING"
	Thanks             Type = "THANKS"
	Goodbye            Type = "GOODBYE"
	GeneralKnowledge   Type = "GENERAL_KNOWLEDGE"
	ToolRecommendation Type = "TOOL_RECOMMENDATION"
	ToolComparison     Type = "TOOL_COMPARISON"
	AnalyticsQuery     Type = "ANALYTICS_QUERY"
	ToolDetails        Type = "TOOL_DETAILS"
	PlatformHelp       Type = "PLATFORM_HELP"
	AboutPlatform      Type = "ABOUT_PLATFORM"
	Suggestion         Type = "SUGGESTION"
	GeneralQuestion    Type = "GENERAL_QUESTION"
)

// Intent is the classification result. Exactly one entity pointer is non-nil
// for intent types that carry entities; the generator switches on Type and
// reads only the matching struct.
type Intent struct {
	Type       Type
	Confidence float64

	Recommendation *RecommendationEntities
	Comparison     *ComparisonEntities
	Analytics      *AnalyticsEntities
	Details        *DetailsEntities
	Help           *HelpEntities
}

// RecommendationEntities carries the filters extracted from a
// tool-recommendation query.
type RecommendationEntities struct {
	// UseCase is the trailing "for ..." / "to ..." clause, if any.
	UseCase string

	// Capabilities lists every capability family implied by the query, in
	// canonical order. Empty means no capability filter fired.
	Capabilities []catalog.CapabilityKey

	// Capability is the display label of the first detected family.
	Capability string

	Department     string
	UserType       string
	PreferInternal bool
	PreferExternal bool
}

// Needs reports whether the given capability family was detected.
func (e *RecommendationEntities) Needs(key catalog.CapabilityKey) bool {
	for _, k := range e.Capabilities {
		if k == key {
			return true
		}
	}
	return false
}

// HasCapabilityFilter reports whether any capability flag fired. When true,
// the use-case text filter must be skipped (the two are mutually exclusive).
func (e *RecommendationEntities) HasCapabilityFilter() bool {
	return len(e.Capabilities) > 0
}

// ComparisonEntities carries the subjects of a comparison query.
// ToolNames is populated only when at least two cleaned names were found.
type ComparisonEntities struct {
	ToolNames []string
}

// Analytics metric types.
const (
	MetricToolType     = "tool-type"
	MetricCapabilities = "capabilities"
	MetricTechnology   = "technology"
	MetricUseCase      = "use-case"
)

// AnalyticsEntities carries the shape of an analytics question.
type AnalyticsEntities struct {
	MetricType         string
	InternalVsExternal bool
}

// DetailsEntities names the tool a details question refers to.
type DetailsEntities struct {
	ToolName string
}

// HelpEntities carries a platform-help request. Feature is "tool_access" when
// the message is asking how to reach a specific tool.
type HelpEntities struct {
	Feature  string
	ToolName string
}
