package respond

import (
	"fmt"
	"sort"
	"strings"

	"github.com/askdeck/askdeck/internal/catalog"
	"github.com/askdeck/askdeck/internal/intent"
)

// recommendKeep bounds the rendered recommendation list.
const recommendKeep = 5

// Ranking bonuses for the fixed tiebreak.
const (
	bonusFeatured = 2.0
	bonusInternal = 1.0
)

// recommend filters and ranks the catalog for a recommendation query.
//
// Capability filters and the use-case text filter are mutually exclusive:
// when any capability flag fired, the use-case substring filter is skipped
// so a query like "a coding tool for my project" is not over-constrained.
func (g *Generator) recommend(e *intent.RecommendationEntities, userID string, records []catalog.Record) string {
	if e == nil {
		e = &intent.RecommendationEntities{}
	}

	matches := filterRecommendations(e, records)
	if len(matches) == 0 {
		return fmt.Sprintf(
			"I couldn't find a tool matching that in the catalog (%d tools). Try describing the capability you need, like writing, coding or data analysis. A few entries: %s.",
			len(records), sampleNames(records, 3),
		)
	}

	ranked := g.rankRecommendations(matches, userID)
	shown := ranked
	if len(shown) > recommendKeep {
		shown = shown[:recommendKeep]
	}

	var b strings.Builder
	if e.UseCase != "" && !e.HasCapabilityFilter() {
		fmt.Fprintf(&b, "Here's what I recommend for %s:\n\n", e.UseCase)
	} else if e.Capability != "" {
		fmt.Fprintf(&b, "Here's what I recommend for %s:\n\n", strings.ToLower(e.Capability))
	} else {
		b.WriteString("Here's what I recommend:\n\n")
	}

	for i, r := range shown {
		fmt.Fprintf(&b, "%d. **%s** (%s) — %s\n", i+1, r.Name, r.Type, r.Purpose)
		if labels := r.CapabilityLabels(); len(labels) > 0 {
			fmt.Fprintf(&b, "   _%s_\n", strings.Join(labels, " · "))
		}
	}

	if remaining := len(ranked) - len(shown); remaining > 0 {
		fmt.Fprintf(&b, "\n%d more tools match; narrow the request to see different ones.", remaining)
	}
	return b.String()
}

// filterRecommendations applies the extracted filters in order: capability
// flags (all must be satisfied), otherwise the use-case text, then the
// internal/external preference and department.
func filterRecommendations(e *intent.RecommendationEntities, records []catalog.Record) []catalog.Record {
	var matches []catalog.Record

	for _, r := range records {
		if e.HasCapabilityFilter() {
			if !hasAllCapabilities(r, e.Capabilities) {
				continue
			}
		} else if e.UseCase != "" && !matchesUseCase(r, e.UseCase) {
			continue
		}

		if e.PreferInternal && r.Type != catalog.TypeInternal {
			continue
		}
		if e.PreferExternal && r.Type != catalog.TypeExternal {
			continue
		}
		if e.Department != "" && r.Department != "" && !strings.EqualFold(r.Department, e.Department) {
			continue
		}

		matches = append(matches, r)
	}
	return matches
}

func hasAllCapabilities(r catalog.Record, keys []catalog.CapabilityKey) bool {
	for _, k := range keys {
		if !r.Capabilities.Has(k) {
			return false
		}
	}
	return true
}

// matchesUseCase checks the use-case phrase (or any of its words longer
// than three characters) against the record's descriptive text.
func matchesUseCase(r catalog.Record, useCase string) bool {
	haystack := strings.ToLower(r.Purpose + " " + r.BestFor + " " + strings.Join(r.Tags, " "))
	needle := strings.ToLower(useCase)

	if strings.Contains(haystack, needle) {
		return true
	}
	for _, word := range strings.Fields(needle) {
		if len(word) > 3 && strings.Contains(haystack, word) {
			return true
		}
	}
	return false
}

// rankRecommendations orders matches by the fixed featured/internal tiebreak
// plus the learned personalization score when a user id is known.
func (g *Generator) rankRecommendations(matches []catalog.Record, userID string) []catalog.Record {
	type scored struct {
		record catalog.Record
		score  float64
	}

	personal := make(map[string]float64, len(matches))
	if g.learn != nil && userID != "" {
		for _, sr := range g.learn.PersonalizedRecommendations(userID, matches) {
			personal[sr.Record.ID] = sr.Score
		}
	}

	list := make([]scored, 0, len(matches))
	for _, r := range matches {
		score := personal[r.ID]
		if r.Featured || r.HasTag("featured") {
			score += bonusFeatured
		}
		if r.Type == catalog.TypeInternal {
			score += bonusInternal
		}
		list = append(list, scored{record: r, score: score})
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].record.Name < list[j].record.Name
	})

	out := make([]catalog.Record, len(list))
	for i, s := range list {
		out[i] = s.record
	}
	return out
}
