package reason

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/askdeck/askdeck/internal/catalog"
	"github.com/askdeck/askdeck/internal/intent"
)

const (
	// chainHistorySize bounds the in-memory chain history (most-recent-N).
	chainHistorySize = 25

	// matchKeep / validateKeep bound the candidate list after steps 3 and 4.
	matchKeep    = 10
	validateKeep = 5
)

// Step confidence constants. Structure analysis is near-certain by
// construction; the others reflect how much judgment each step applies.
const (
	confStructure      = 0.95
	confGoalsFound     = 0.85
	confGoalsDefault   = 0.7
	confMatchFound     = 0.9
	confMatchEmpty     = 0.5
	confValidation     = 0.88
	confSynthesisOK    = 0.92
	confSynthesisEmpty = 0.6
)

// Matching weights (step 3) and validation adjustments (step 4).
const (
	weightCapabilityMatch = 3.0
	weightConstraintMatch = 2.0
	weightProductionBonus = 1.0
	weightPreferredBonus  = 1.0
	weightFollowUpBonus   = 0.5

	penaltyUnmetRequirement = 0.7
	penaltyNonProduction    = 0.8
	bonusExpertiseFit       = 0.5
)

// followUpWindow bounds how many previous queries feed follow-up matching.
const followUpWindow = 3

// technicalTerms feed the structure-analysis complexity score.
var technicalTerms = []string{
	"api", "integration", "pipeline", "workflow", "automation", "model",
	"embedding", "database", "deploy", "architecture", "compliance",
}

// Engine runs reasoning chains and retains a bounded history of them.
type Engine struct {
	mu      sync.Mutex
	history []Chain
}

// NewEngine creates a reasoning engine with an empty history.
func NewEngine() *Engine {
	return &Engine{}
}

// Reason runs the five-step chain and appends the result to the history.
// Deterministic given identical (query, intent, catalog, context).
func (e *Engine) Reason(query string, it intent.Intent, records []catalog.Record, ctx *Context) Chain {
	if ctx == nil {
		ctx = &Context{}
	}

	structure := analyzeStructure(query)
	goals := inferGoals(it, query, ctx)
	matched := matchCatalog(goals, records, ctx)
	validated := validate(matched, goals, ctx)
	conclusion, synthConf := synthesize(validated, ctx)

	steps := []Step{
		structure.step,
		goals.step,
		matched.step,
		validated.step,
		{
			Step:       5,
			Kind:       KindSynthesis,
			Input:      fmt.Sprintf("%d validated candidates", len(validated.candidates)),
			Output:     conclusion,
			Confidence: synthConf,
			Rationale:  "rendered a conclusion matched to the user's expertise level",
		},
	}

	sum := 0.0
	for _, s := range steps {
		sum += s.Confidence
	}

	chain := Chain{
		Steps:             steps,
		OverallConfidence: sum / float64(len(steps)),
		Conclusion:        conclusion,
		Candidates:        validated.candidates,
		CreatedAt:         time.Now(),
	}

	e.mu.Lock()
	e.history = append(e.history, chain)
	if len(e.history) > chainHistorySize {
		e.history = e.history[len(e.history)-chainHistorySize:]
	}
	e.mu.Unlock()

	return chain
}

// History returns a copy of the retained chains, oldest first.
func (e *Engine) History() []Chain {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Chain, len(e.history))
	copy(out, e.history)
	return out
}

// --- step 1: structure analysis ---

type structureResult struct {
	step       Step
	complexity float64
	isQuestion bool
}

// analyzeStructure computes surface features of the query and a 0-1
// complexity score averaging five 0-2-weighted factors.
func analyzeStructure(query string) structureResult {
	lower := strings.ToLower(strings.TrimSpace(query))
	words := strings.Fields(lower)
	sentences := countSentences(query)

	isQuestion := strings.Contains(query, "?") || startsWithQuestionWord(lower)
	isComparison := strings.Contains(lower, "compare") || strings.Contains(lower, " vs ") || strings.Contains(lower, "versus")
	multiPart := strings.Contains(lower, " and ") || strings.Contains(lower, ";") || sentences > 1

	lengthFactor := 0.0
	switch {
	case len(words) > 20:
		lengthFactor = 2.0
	case len(words) > 10:
		lengthFactor = 1.0
	}

	techCount := 0.0
	for _, term := range technicalTerms {
		if strings.Contains(lower, term) {
			techCount++
		}
	}
	if techCount > 2 {
		techCount = 2
	}

	multiFactor := 0.0
	if multiPart {
		multiFactor = 2.0
	}
	compareFactor := 0.0
	if isComparison {
		compareFactor = 2.0
	}
	sentenceFactor := 0.0
	if sentences > 1 {
		sentenceFactor = 2.0
	}

	complexity := (lengthFactor + multiFactor + techCount + compareFactor + sentenceFactor) / 10.0

	return structureResult{
		step: Step{
			Step:       1,
			Kind:       KindAnalysis,
			Input:      query,
			Output:     fmt.Sprintf("words=%d sentences=%d question=%t comparison=%t multipart=%t complexity=%.2f", len(words), sentences, isQuestion, isComparison, multiPart, complexity),
			Confidence: confStructure,
			Rationale:  "surface structure is computed directly from the text",
		},
		complexity: complexity,
		isQuestion: isQuestion,
	}
}

func countSentences(text string) int {
	count := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

func startsWithQuestionWord(lower string) bool {
	for _, w := range []string{"what", "which", "how", "who", "where", "when", "why", "can", "do", "is", "are"} {
		if strings.HasPrefix(lower, w+" ") {
			return true
		}
	}
	return false
}

// --- step 2: goal inference ---

type goalResult struct {
	step         Step
	goals        []string
	requirements []catalog.CapabilityKey
	constraints  []string
}

// inferGoals maps the intent to an initial goal list, then layers
// requirement and constraint tags from keyword scans and user expertise.
func inferGoals(it intent.Intent, query string, ctx *Context) goalResult {
	lower := strings.ToLower(query)

	var goals []string
	switch it.Type {
	case intent.ToolRecommendation:
		goals = []string{"find suitable tools"}
	case intent.ToolComparison:
		goals = []string{"compare named tools"}
	case intent.AnalyticsQuery:
		goals = []string{"summarize catalog statistics"}
	case intent.ToolDetails:
		goals = []string{"describe a specific tool"}
	default:
		goals = []string{"answer the question"}
	}

	// Capability requirements come from the shared keyword table, so the
	// classifier and this step can never disagree about what a word implies.
	requirements := catalog.DetectCapabilities(lower)

	var constraints []string
	if strings.Contains(lower, "free") || strings.Contains(lower, "cheap") || strings.Contains(lower, "low cost") || strings.Contains(lower, "budget") {
		constraints = append(constraints, "low-cost")
	}
	if strings.Contains(lower, "internal") || strings.Contains(lower, "in-house") || strings.Contains(lower, "secure") || strings.Contains(lower, "private") {
		constraints = append(constraints, "internal-only")
	}

	switch ctx.UserExpertise {
	case ExpertiseBeginner:
		constraints = append(constraints, "beginner-friendly", "avoid complex tools")
	case ExpertiseAdvanced:
		constraints = append(constraints, "advanced features")
	}

	conf := confGoalsDefault
	if len(requirements) > 0 {
		conf = confGoalsFound
	}

	reqLabels := make([]string, 0, len(requirements))
	for _, r := range requirements {
		reqLabels = append(reqLabels, string(r))
	}

	return goalResult{
		step: Step{
			Step:       2,
			Kind:       KindInference,
			Input:      fmt.Sprintf("intent=%s", it.Type),
			Output:     fmt.Sprintf("goals=%s requirements=%s constraints=%s", strings.Join(goals, ","), strings.Join(reqLabels, ","), strings.Join(constraints, ",")),
			Confidence: conf,
			Rationale:  "goals follow from the intent; requirements and constraints from keyword and expertise signals",
		},
		goals:        goals,
		requirements: requirements,
		constraints:  constraints,
	}
}

// --- step 3: catalog matching ---

type matchResult struct {
	step       Step
	candidates []Candidate
}

// matchCatalog scores every record by summing fixed weights for each
// satisfied requirement or constraint and keeps the top 10. Capabilities
// raised in recent previous queries still count, at a reduced weight, so a
// follow-up like "anything else?" stays on the session's topic.
func matchCatalog(goals goalResult, records []catalog.Record, ctx *Context) matchResult {
	preferred := make(map[string]bool, len(ctx.PreferredTools))
	for _, name := range ctx.PreferredTools {
		preferred[strings.ToLower(name)] = true
	}

	current := make(map[catalog.CapabilityKey]bool, len(goals.requirements))
	for _, req := range goals.requirements {
		current[req] = true
	}
	prior := priorCapabilities(ctx.PreviousQueries)

	candidates := make([]Candidate, 0, len(records))
	for _, r := range records {
		score := 0.0
		var reasons []string

		for _, req := range goals.requirements {
			if r.Capabilities.Has(req) {
				score += weightCapabilityMatch
				if cap, ok := catalog.LookupCapability(req); ok {
					reasons = append(reasons, fmt.Sprintf("supports %s", cap.Label))
				}
			}
		}
		for _, c := range goals.constraints {
			switch c {
			case "internal-only":
				if r.Type == catalog.TypeInternal {
					score += weightConstraintMatch
					reasons = append(reasons, "internal tool")
				}
			case "low-cost":
				if r.Cost == "free" {
					score += weightConstraintMatch
					reasons = append(reasons, "free to use")
				}
			}
		}
		if r.Status == catalog.StatusProduction {
			score += weightProductionBonus
			reasons = append(reasons, "production ready")
		}
		if preferred[strings.ToLower(r.Name)] {
			score += weightPreferredBonus
			reasons = append(reasons, "previously preferred")
		}
		for _, req := range prior {
			if current[req] {
				continue
			}
			if r.Capabilities.Has(req) {
				score += weightFollowUpBonus
				reasons = append(reasons, "relevant to an earlier question this session")
				break
			}
		}

		if score > 0 {
			candidates = append(candidates, Candidate{Record: r, Score: score, Reasons: reasons})
		}
	}

	sortCandidates(candidates)
	if len(candidates) > matchKeep {
		candidates = candidates[:matchKeep]
	}

	conf := confMatchEmpty
	if len(candidates) > 0 {
		conf = confMatchFound
	}

	return matchResult{
		step: Step{
			Step:       3,
			Kind:       KindInference,
			Input:      fmt.Sprintf("%d catalog records", len(records)),
			Output:     fmt.Sprintf("%d candidates: %s", len(candidates), candidateNames(candidates)),
			Confidence: conf,
			Rationale:  "records scored by fixed weights per satisfied requirement and constraint",
		},
		candidates: candidates,
	}
}

// priorCapabilities collects capability keys raised in the most recent
// previous queries, deduplicated in first-seen order.
func priorCapabilities(previous []string) []catalog.CapabilityKey {
	start := len(previous) - followUpWindow
	if start < 0 {
		start = 0
	}

	seen := make(map[catalog.CapabilityKey]bool)
	var keys []catalog.CapabilityKey
	for _, q := range previous[start:] {
		for _, k := range catalog.DetectCapabilities(q) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// --- step 4: validation ---

type validateResult struct {
	step       Step
	candidates []Candidate
}

// validate re-checks each candidate against the hard requirements, applies
// the unmet-requirement and non-production penalties plus expertise-fit
// bonuses, re-sorts and keeps the top 5.
func validate(matched matchResult, goals goalResult, ctx *Context) validateResult {
	validated := make([]Candidate, 0, len(matched.candidates))
	for _, c := range matched.candidates {
		adjusted := c

		unmet := false
		for _, req := range goals.requirements {
			if !c.Record.Capabilities.Has(req) {
				unmet = true
				break
			}
		}
		if unmet {
			adjusted.Score *= penaltyUnmetRequirement
			adjusted.Reasons = append(adjusted.Reasons, "not all requirements met")
		}

		switch ctx.UserExpertise {
		case ExpertiseBeginner:
			if c.Record.BestFor != "" {
				adjusted.Score += bonusExpertiseFit
				adjusted.Reasons = append(adjusted.Reasons, "has clear guidance for new users")
			}
		case ExpertiseAdvanced:
			if c.Record.Status == catalog.StatusInDevelopment {
				adjusted.Score += bonusExpertiseFit
				adjusted.Reasons = append(adjusted.Reasons, "early access to new capability")
			}
		}

		if c.Record.Status != catalog.StatusProduction {
			adjusted.Score *= penaltyNonProduction
		}

		validated = append(validated, adjusted)
	}

	sortCandidates(validated)
	if len(validated) > validateKeep {
		validated = validated[:validateKeep]
	}

	return validateResult{
		step: Step{
			Step:       4,
			Kind:       KindValidation,
			Input:      fmt.Sprintf("%d candidates", len(matched.candidates)),
			Output:     fmt.Sprintf("%d validated: %s", len(validated), candidateNames(validated)),
			Confidence: confValidation,
			Rationale:  "hard requirements re-verified; penalties for gaps and non-production status",
		},
		candidates: validated,
	}
}

// --- step 5: synthesis ---

// synthesize renders the textual conclusion, keyed off the user's expertise.
func synthesize(validated validateResult, ctx *Context) (string, float64) {
	if len(validated.candidates) == 0 {
		return "No catalog tool clearly fits this request. Try describing the task you want to accomplish.", confSynthesisEmpty
	}

	top := validated.candidates[0]

	if ctx.UserExpertise == ExpertiseBeginner {
		msg := fmt.Sprintf("I'd start with **%s** — %s.", top.Record.Name, strings.ToLower(firstReason(top)))
		if top.Record.BestFor != "" {
			msg += fmt.Sprintf(" It's best for %s.", strings.ToLower(top.Record.BestFor))
		}
		return msg, confSynthesisOK
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top recommendation: **%s** (%.0f%% confidence) — %s.", top.Record.Name, scorePercent(top.Score), firstReason(top))
	if len(validated.candidates) > 1 {
		names := make([]string, 0, len(validated.candidates)-1)
		for _, c := range validated.candidates[1:] {
			names = append(names, c.Record.Name)
		}
		fmt.Fprintf(&b, " Also worth a look: %s.", strings.Join(names, ", "))
	}
	return b.String(), confSynthesisOK
}

// --- helpers ---

// sortCandidates orders by score descending, name ascending as a
// deterministic tiebreak.
func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Record.Name < candidates[j].Record.Name
	})
}

func candidateNames(candidates []Candidate) string {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Record.Name)
	}
	return strings.Join(names, ", ")
}

// scorePercent maps a raw candidate score onto a display percentage,
// capped so a heavily-matched tool never claims certainty.
func scorePercent(score float64) float64 {
	pct := score * 10
	if pct > 99 {
		pct = 99
	}
	return pct
}

func firstReason(c Candidate) string {
	if len(c.Reasons) > 0 {
		return c.Reasons[0]
	}
	return "a solid general fit"
}
