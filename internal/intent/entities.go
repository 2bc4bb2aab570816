package intent

import (
	"regexp"
	"strings"

	"github.com/askdeck/askdeck/internal/catalog"
)

// Entity extraction is intent-specific and runs only for the winning pattern
// group. Extractors receive the trimmed original text (for case-sensitive
// name runs) and its lower-cased form (for keyword scans).

// Patterns that hand submatches on to name extraction carry (?i) and run
// against the original text; slicing the original with indexes found in a
// lower-cased copy garbles names whose lower-casing changes byte widths.
var (
	reUseCase       = regexp.MustCompile(`\b(?:for|to)\s+(.{3,})$`)
	reCompareList   = regexp.MustCompile(`(?i)\bcompare\s+(.+)$`)
	reVersus        = regexp.MustCompile(`(?i)^(.+?)\s+(?:vs\.?|versus|or)\s+(.+)$`)
	reDiffBetween   = regexp.MustCompile(`(?i)\bdifference between\s+(.+?)\s+and\s+(.+)$`)
	reQuotedName    = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	reAboutClause   = regexp.MustCompile(`(?i)\babout\s+(.+?)[\s?.!]*$`)
	reCapitalRun    = regexp.MustCompile(`\b([A-Z][A-Za-z0-9]*(?:\s+[A-Z][A-Za-z0-9]*)*)\b`)
	reAccessTool    = regexp.MustCompile(`(?i)\bhow (?:do|can) i (?:access|use|get|open|reach)\s+(.+?)[\s?.!]*$`)
	reTrailingPunct = regexp.MustCompile(`[\s?.!,]+$`)
)

// nameStopWords are stripped from extracted tool names.
var nameStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "tool": true, "tools": true,
}

var departmentKeywords = []string{
	"engineering", "marketing", "sales", "finance", "hr", "legal", "design",
	"data", "support", "operations", "product",
}

var userTypeKeywords = []string{
	"developer", "designer", "analyst", "manager", "writer", "researcher",
	"engineer", "marketer",
}

// buildRecommendation extracts the capability, use-case, audience and
// internal/external preference filters from a recommendation query.
func buildRecommendation(it *Intent, raw, lower string) {
	e := &RecommendationEntities{}

	e.Capabilities = catalog.DetectCapabilities(lower)
	if len(e.Capabilities) > 0 {
		if cap, ok := catalog.LookupCapability(e.Capabilities[0]); ok {
			e.Capability = cap.Label
		}
	}

	if m := reUseCase.FindStringSubmatch(lower); m != nil {
		e.UseCase = reTrailingPunct.ReplaceAllString(m[1], "")
	}

	for _, dep := range departmentKeywords {
		if strings.Contains(lower, dep) {
			e.Department = dep
			break
		}
	}
	for _, ut := range userTypeKeywords {
		if strings.Contains(lower, ut) {
			e.UserType = ut
			break
		}
	}

	if strings.Contains(lower, "internal") || strings.Contains(lower, "in-house") {
		e.PreferInternal = true
	}
	if strings.Contains(lower, "external") || strings.Contains(lower, "third-party") {
		e.PreferExternal = true
	}

	it.Recommendation = e
}

// buildComparison extracts two-or-more subject names. Priority order:
// a comma/"and" list after the word "compare", a binary "X vs/versus/or Y",
// then "difference between X and Y". Requires at least two cleaned names.
func buildComparison(it *Intent, raw, lower string) {
	e := &ComparisonEntities{}

	var names []string
	if m := reCompareList.FindStringSubmatch(raw); m != nil {
		names = splitSubjectList(m[1])
	} else if m := reVersus.FindStringSubmatch(raw); m != nil {
		names = []string{m[1], m[2]}
	} else if m := reDiffBetween.FindStringSubmatch(raw); m != nil {
		names = []string{m[1], m[2]}
	}

	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if c := cleanToolName(n); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) >= 2 {
		e.ToolNames = cleaned
	}

	it.Comparison = e
}

// splitSubjectList splits "X, Y and Z" into its parts, preserving order.
func splitSubjectList(list string) []string {
	list = reTrailingPunct.ReplaceAllString(list, "")
	parts := strings.Split(list, ",")

	var names []string
	for _, part := range parts {
		// The final comma-part may still hold an "and"-joined pair.
		for _, sub := range regexp.MustCompile(`\s+(?:and|&)\s+`).Split(part, -1) {
			sub = strings.TrimSpace(sub)
			if sub != "" {
				names = append(names, sub)
			}
		}
	}
	return names
}

// cleanToolName trims punctuation and strips stop-words from a raw name.
func cleanToolName(name string) string {
	name = strings.TrimSpace(reTrailingPunct.ReplaceAllString(name, ""))

	words := strings.Fields(name)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if nameStopWords[strings.ToLower(w)] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// buildAnalytics detects the coarse metric the question asks about and
// whether it is an internal-vs-external comparison.
func buildAnalytics(it *Intent, raw, lower string) {
	e := &AnalyticsEntities{}

	switch {
	case strings.Contains(lower, "internal") || strings.Contains(lower, "external") || strings.Contains(lower, "in-house"):
		e.MetricType = MetricToolType
	case strings.Contains(lower, "capab") || strings.Contains(lower, "can do") || strings.Contains(lower, "feature"):
		e.MetricType = MetricCapabilities
	case strings.Contains(lower, "technolog") || strings.Contains(lower, "built on") || strings.Contains(lower, "powered by"):
		e.MetricType = MetricTechnology
	case strings.Contains(lower, "use case") || strings.Contains(lower, "used for") || strings.Contains(lower, "department"):
		e.MetricType = MetricUseCase
	}

	if strings.Contains(lower, "internal") && strings.Contains(lower, "external") {
		e.InternalVsExternal = true
	}

	it.Analytics = e
}

// buildDetails extracts a literal tool name from quoted text, a capitalized
// token run, or an "about X" clause.
func buildDetails(it *Intent, raw, lower string) {
	it.Details = &DetailsEntities{ToolName: extractToolName(raw)}
}

// buildHelp extracts the platform-help shape. "how do I access <tool>" is a
// special case producing a tool_access feature with the tool's name.
func buildHelp(it *Intent, raw, lower string) {
	e := &HelpEntities{}

	if m := reAccessTool.FindStringSubmatch(raw); m != nil {
		name := cleanToolName(m[1])
		if name != "" {
			e.Feature = "tool_access"
			e.ToolName = name
			it.Help = e
			return
		}
	}

	switch {
	case strings.Contains(lower, "log in") || strings.Contains(lower, "login") || strings.Contains(lower, "sign in"):
		e.Feature = "login"
	case strings.Contains(lower, "request access") || strings.Contains(lower, "access"):
		e.Feature = "access"
	default:
		e.Feature = "general"
	}
	e.ToolName = extractToolName(raw)

	it.Help = e
}

// extractToolName pulls a literal tool name out of free text: quoted names
// first, then an "about X" clause, then a capitalized token run (skipping a
// leading sentence-capital).
func extractToolName(raw string) string {
	if m := reQuotedName.FindStringSubmatch(raw); m != nil {
		if m[1] != "" {
			return cleanToolName(m[1])
		}
		return cleanToolName(m[2])
	}

	if m := reAboutClause.FindStringSubmatch(raw); m != nil {
		if name := cleanToolName(m[1]); name != "" {
			return name
		}
	}

	runs := reCapitalRun.FindAllStringIndex(raw, -1)
	for _, run := range runs {
		// A capital at the start of the sentence is not evidence of a name.
		if run[0] == 0 && !strings.Contains(raw[run[0]:run[1]], " ") {
			continue
		}
		candidate := cleanToolName(raw[run[0]:run[1]])
		if candidate != "" && strings.ToLower(candidate) != "i" {
			return candidate
		}
	}
	return ""
}
