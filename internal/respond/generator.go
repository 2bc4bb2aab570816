package respond

import (
	"fmt"
	"strings"

	"github.com/askdeck/askdeck/internal/catalog"
	"github.com/askdeck/askdeck/internal/intent"
	"github.com/askdeck/askdeck/internal/learning"
)

// Generator renders the final response text. It dispatches purely on the
// intent type; each handler is a pure function of (entities, catalog,
// learned preferences).
type Generator struct {
	learn *learning.Service
	index *catalog.Index
}

// NewGenerator creates a response generator. learn may be nil (no
// personalization); index may be nil (no suggestion sampling).
func NewGenerator(learn *learning.Service, index *catalog.Index) *Generator {
	return &Generator{learn: learn, index: index}
}

// Generate renders a response for a classified intent over a catalog
// snapshot. userID keys personalization; empty disables it.
func (g *Generator) Generate(it intent.Intent, rawText, userID string, records []catalog.Record) string {
	switch it.Type {
	case intent.Greeting:
		return g.greeting(userID)
	case intent.Thanks:
		return "You're welcome! Ask me anytime you need help picking a tool."
	case intent.Goodbye:
		return "Goodbye! Come back whenever you need a tool recommendation."
	case intent.GeneralKnowledge:
		return generalKnowledge(rawText)
	case intent.AboutPlatform:
		return aboutPlatform(len(records))
	case intent.ToolRecommendation:
		return g.recommend(it.Recommendation, userID, records)
	case intent.ToolComparison:
		return compare(it.Comparison, records)
	case intent.AnalyticsQuery:
		return NewAnalytics(records).Answer(it.Analytics)
	case intent.ToolDetails:
		return toolDetails(it.Details, records)
	case intent.PlatformHelp:
		return platformHelp(it.Help, records)
	case intent.Suggestion:
		return g.suggestion(records)
	}
	return g.generalQuestion(records)
}

// greeting adapts its length to the user's learned style.
func (g *Generator) greeting(userID string) string {
	if g.learn != nil && userID != "" {
		if pref := g.learn.GetUserPreferences(userID); pref != nil && pref.LearningStyle == learning.StyleConcise {
			return "Hi! What do you need a tool for?"
		}
	}
	return "Hi there! I can recommend tools from the catalog, compare them, or answer questions about what's available. What are you working on?"
}

// generalKnowledge handles trivia and small talk with a fixed answer set;
// the pick is keyed off the query so repeats stay stable.
func generalKnowledge(rawText string) string {
	lower := strings.ToLower(rawText)
	if strings.Contains(lower, "joke") {
		jokes := []string{
			"Why did the developer go broke? They used up all their cache.",
			"I'd tell you a UDP joke, but you might not get it.",
			"There are two hard problems in computing: cache invalidation, naming things, and off-by-one errors.",
		}
		return jokes[len(rawText)%len(jokes)]
	}
	if strings.Contains(lower, "fun fact") || strings.Contains(lower, "trivia") {
		return "Fun fact: the first computer bug was an actual moth, taped into a logbook in 1947."
	}
	return "I'm best at questions about the tool catalog. For company trivia, the knowledge base is a better source, but happy to help you find a tool for anything you're working on."
}

// aboutPlatform answers questions about the assistant's own feature set.
func aboutPlatform(catalogSize int) string {
	return fmt.Sprintf(`I'm the catalog assistant. Here's what I can do:

- **Recommend tools** — tell me what you're working on ("I need a tool for data analysis")
- **Compare tools** — "compare ChatGPT and Claude"
- **Catalog stats** — "how many internal tools do we have?"
- **Tool details** — "tell me about Plai"
- **Access help** — "how do I access Concierge?"

There are currently %d tools in the catalog.`, catalogSize)
}

// suggestion offers starting points, sampling featured tools when available.
func (g *Generator) suggestion(records []catalog.Record) string {
	var b strings.Builder
	b.WriteString("Here are some things you could try:\n\n")
	b.WriteString("- \"Recommend a tool for writing code\"\n")
	b.WriteString("- \"Compare the chat assistants in the catalog\"\n")
	b.WriteString("- \"What percentage of our tools are internal?\"\n")

	featured := NewAnalytics(records).topFeatured(2)
	for _, r := range featured {
		fmt.Fprintf(&b, "- \"Tell me about %s\"\n", r.Name)
	}
	return b.String()
}

// generalQuestion is the deterministic default when nothing narrower
// matched and no fallback channel answered.
func (g *Generator) generalQuestion(records []catalog.Record) string {
	return fmt.Sprintf(
		"I'm not sure I caught that. I can recommend or compare any of the %d tools in the catalog; try telling me what you're trying to get done.",
		len(records),
	)
}

// sampleNames lists up to limit record names for guidance messages.
func sampleNames(records []catalog.Record, limit int) string {
	names := make([]string, 0, limit)
	for _, r := range records {
		names = append(names, r.Name)
		if len(names) == limit {
			break
		}
	}
	return strings.Join(names, ", ")
}
