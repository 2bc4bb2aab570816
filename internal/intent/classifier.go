package intent

import (
	"regexp"
	"strings"
)

// Fixed confidence constants per pattern group. These reflect how narrowly
// each group is defined, not a statistically estimated value.
const (
	confGreeting       = 0.95
	confThanks         = 0.95
	confGoodbye        = 0.95
	confKnowledge      = 0.7
	confRecommendation = 0.9
	confComparison     = 0.85
	confAnalytics      = 0.85
	confDetails        = 0.75
	confPlatformHelp   = 0.8
	confAboutPlatform  = 0.8
	confSuggestion     = 0.7
	confDefault        = 0.5
)

// rule is one pattern group in the cascade. build receives the trimmed
// original text and its lower-cased form and fills in the intent's entities.
type rule struct {
	name       string
	patterns   []*regexp.Regexp
	veto       []*regexp.Regexp
	confidence float64
	intentType Type
	build      func(it *Intent, raw, lower string)
}

var (
	reGreeting = []*regexp.Regexp{
		regexp.MustCompile(`^(hi|hello|hey|yo|howdy)[\s!?.]*$`),
		regexp.MustCompile(`^good (morning|afternoon|evening)[\s!?.]*$`),
		regexp.MustCompile(`^(hi|hello|hey) there[\s!?.]*$`),
	}
	reThanks = []*regexp.Regexp{
		regexp.MustCompile(`^(thanks|thank you|thx|ty|much appreciated)[\s!?.]*$`),
		regexp.MustCompile(`\b(thanks|thank you)\b.*\b(help|helpful|great)\b`),
	}
	reGoodbye = []*regexp.Regexp{
		regexp.MustCompile(`^(bye|goodbye|see you|see ya|later|good night|farewell)[\s!?.]*$`),
	}
	reKnowledge = []*regexp.Regexp{
		regexp.MustCompile(`\b(who (founded|created|started|owns)|when was .* founded)\b`),
		regexp.MustCompile(`\bwhat (is|does) (ai|artificial intelligence|machine learning|an llm)\b`),
		regexp.MustCompile(`\btell me a (joke|fun fact|story)\b`),
		regexp.MustCompile(`\b(fun fact|trivia)\b`),
	}
	reRecommendation = []*regexp.Regexp{
		regexp.MustCompile(`\b(recommend|suggest)( me)?( a| some)? tool`),
		regexp.MustCompile(`\b(which|what|best) tool`),
		regexp.MustCompile(`\b(i need|looking for|find me|help me find)( a| an| some)? tool`),
		regexp.MustCompile(`\btool (for|to help)\b`),
		regexp.MustCompile(`\bwhat should i use (for|to)\b`),
	}
	reComparison = []*regexp.Regexp{
		regexp.MustCompile(`\bcompare\b`),
		regexp.MustCompile(`\bvs\.?\b|\bversus\b`),
		regexp.MustCompile(`\bdifference between\b`),
		regexp.MustCompile(`\bwhich is better\b`),
	}
	// "internal vs external" is a catalog statistics question, not a
	// comparison of two named tools.
	reComparisonVeto = []*regexp.Regexp{
		regexp.MustCompile(`\binternal\b.*\bexternal\b|\bexternal\b.*\binternal\b`),
	}
	reAnalytics = []*regexp.Regexp{
		regexp.MustCompile(`\bhow many\b`),
		regexp.MustCompile(`\b(count|number) of\b`),
		regexp.MustCompile(`\b(statistics|stats|percentage|breakdown|distribution)\b`),
		regexp.MustCompile(`\bmost (popular|used|common)\b`),
		regexp.MustCompile(`\binternal\b.*\bexternal\b|\bexternal\b.*\binternal\b`),
	}
	reDetails = []*regexp.Regexp{
		regexp.MustCompile(`\btell me (more )?about\b`),
		regexp.MustCompile(`\b(details|more info|information) (on|about|for)\b`),
		regexp.MustCompile(`\bwhat does .+ do\b`),
		regexp.MustCompile(`\bwhat is "[^"]+"`),
	}
	rePlatformHelp = []*regexp.Regexp{
		regexp.MustCompile(`\bhow (do|can) i\b`),
		regexp.MustCompile(`\bhow to (access|use|get|request|log ?in)\b`),
		regexp.MustCompile(`\bwhere (can|do) i\b`),
		regexp.MustCompile(`\b(access|login|log in|sign in|sign up|request access)\b`),
	}
	// Questions about this assistant's own feature set are routed to a
	// dedicated handler, not to generic platform help.
	reAboutPlatform = []*regexp.Regexp{
		regexp.MustCompile(`\bwhat (can|do) you do\b`),
		regexp.MustCompile(`\b(what|which) features\b.*\b(you|this|the) (have|assistant|platform|catalog)\b`),
		regexp.MustCompile(`\bhow (do|does) (you|this|the assistant|the platform) work\b`),
		regexp.MustCompile(`\babout (this|the) (platform|assistant|catalog)\b`),
	}
	reSuggestion = []*regexp.Regexp{
		regexp.MustCompile(`\b(suggest something|any suggestions|give me ideas)\b`),
		regexp.MustCompile(`\bwhat should i (ask|try)\b`),
		regexp.MustCompile(`\bsurprise me\b`),
		regexp.MustCompile(`\bnot sure (what|where)\b`),
	}
)

// rules is the ordered cascade. Order is a design decision: courtesies first
// (they pre-empt substring false-positives from broader groups), the platform
// self-description check ahead of generic platform help, narrow groups before
// broad ones. Preserve the order when adding groups.
var rules = []rule{
	{name: "greeting", patterns: reGreeting, confidence: confGreeting, intentType: Greeting},
	{name: "thanks", patterns: reThanks, confidence: confThanks, intentType: Thanks},
	{name: "goodbye", patterns: reGoodbye, confidence: confGoodbye, intentType: Goodbye},
	{name: "general-knowledge", patterns: reKnowledge, confidence: confKnowledge, intentType: GeneralKnowledge},
	{name: "about-platform", patterns: reAboutPlatform, confidence: confAboutPlatform, intentType: AboutPlatform},
	{name: "tool-recommendation", patterns: reRecommendation, confidence: confRecommendation, intentType: ToolRecommendation, build: buildRecommendation},
	{name: "tool-comparison", patterns: reComparison, veto: reComparisonVeto, confidence: confComparison, intentType: ToolComparison, build: buildComparison},
	{name: "analytics-query", patterns: reAnalytics, confidence: confAnalytics, intentType: AnalyticsQuery, build: buildAnalytics},
	{name: "tool-details", patterns: reDetails, confidence: confDetails, intentType: ToolDetails, build: buildDetails},
	{name: "platform-help", patterns: rePlatformHelp, confidence: confPlatformHelp, intentType: PlatformHelp, build: buildHelp},
	{name: "suggestion", patterns: reSuggestion, confidence: confSuggestion, intentType: Suggestion},
}

// Classify maps raw text to a typed intent. Pure function of its input and
// the fixed rule list; no side effects, no I/O.
//
// The first group with a matching pattern wins. If nothing matches the result
// is GENERAL_QUESTION at confidence 0.5.
func Classify(text string) Intent {
	raw := strings.TrimSpace(text)
	lower := strings.ToLower(raw)

	for _, r := range rules {
		if !matchesAny(r.patterns, lower) {
			continue
		}
		if len(r.veto) > 0 && matchesAny(r.veto, lower) {
			continue
		}
		it := Intent{Type: r.intentType, Confidence: r.confidence}
		if r.build != nil {
			r.build(&it, raw, lower)
		}
		return it
	}

	return Intent{Type: GeneralQuestion, Confidence: confDefault}
}

func matchesAny(patterns []*regexp.Regexp, lower string) bool {
	for _, p := range patterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}
