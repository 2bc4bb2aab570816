/*
Package respond renders the assistant's final text from a classified intent,
the catalog snapshot and learned preferences. Handlers are pure functions of
their inputs; none perform I/O.
*/
package respond

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/askdeck/askdeck/internal/catalog"
	"github.com/askdeck/askdeck/internal/intent"
)

// noDataMessage is returned whenever an aggregation has nothing to divide
// by. Percentages are never computed against a zero denominator.
const noDataMessage = "There's no catalog data to report on yet."

// Analytics answers statistical questions about the catalog snapshot.
type Analytics struct {
	records []catalog.Record
}

// NewAnalytics creates an analytics engine over a catalog snapshot.
func NewAnalytics(records []catalog.Record) *Analytics {
	return &Analytics{records: records}
}

// Answer routes an analytics question to the matching aggregation.
func (a *Analytics) Answer(e *intent.AnalyticsEntities) string {
	if len(a.records) == 0 {
		return noDataMessage
	}
	if e == nil {
		return a.Overview()
	}

	if e.InternalVsExternal {
		return a.InternalVsExternal()
	}

	switch e.MetricType {
	case intent.MetricToolType:
		return a.TypeBreakdown()
	case intent.MetricCapabilities:
		return a.CapabilityBreakdown()
	case intent.MetricTechnology:
		return a.TechnologyBreakdown()
	case intent.MetricUseCase:
		return a.DepartmentBreakdown()
	}
	return a.Overview()
}

// Overview summarizes catalog size and the featured entries.
func (a *Analytics) Overview() string {
	if len(a.records) == 0 {
		return noDataMessage
	}

	internal := a.countByType(catalog.TypeInternal)
	var b strings.Builder
	fmt.Fprintf(&b, "The catalog has **%d tools**: %d internal and %d external.\n", len(a.records), internal, len(a.records)-internal)

	featured := a.topFeatured(3)
	if len(featured) > 0 {
		b.WriteString("\nFeatured:\n")
		for _, r := range featured {
			fmt.Fprintf(&b, "- **%s** — %s\n", r.Name, r.Purpose)
		}
	}
	return b.String()
}

// TypeBreakdown reports internal vs external counts with percentages.
func (a *Analytics) TypeBreakdown() string {
	total := len(a.records)
	if total == 0 {
		return noDataMessage
	}

	internal := a.countByType(catalog.TypeInternal)
	external := total - internal
	return fmt.Sprintf(
		"Of %d tools, **%d (%d%%) are internal** and **%d (%d%%) are external**.",
		total, internal, percent(internal, total), external, percent(external, total),
	)
}

// InternalVsExternal renders side-by-side capability rates for the two
// tool types.
func (a *Analytics) InternalVsExternal() string {
	var internal, external []catalog.Record
	for _, r := range a.records {
		if r.Type == catalog.TypeInternal {
			internal = append(internal, r)
		} else {
			external = append(external, r)
		}
	}
	if len(internal) == 0 && len(external) == 0 {
		return noDataMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Internal vs external** (%d internal, %d external):\n\n", len(internal), len(external))
	for _, cap := range catalog.Capabilities {
		in := countWithCapability(internal, cap.Key)
		ex := countWithCapability(external, cap.Key)
		if in == 0 && ex == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s: internal %s, external %s\n", cap.Label, rateLabel(in, len(internal)), rateLabel(ex, len(external)))
	}
	return b.String()
}

// CapabilityBreakdown reports how many tools support each capability.
func (a *Analytics) CapabilityBreakdown() string {
	total := len(a.records)
	if total == 0 {
		return noDataMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Capability coverage across %d tools:\n\n", total)
	for _, cap := range catalog.Capabilities {
		count := countWithCapability(a.records, cap.Key)
		if count == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s: %d tools (%d%%)\n", cap.Label, count, percent(count, total))
	}
	return b.String()
}

// TechnologyBreakdown groups tools by underlying technology.
func (a *Analytics) TechnologyBreakdown() string {
	return a.fieldBreakdown("technology", func(r catalog.Record) string { return r.Technology })
}

// DepartmentBreakdown groups tools by target department.
func (a *Analytics) DepartmentBreakdown() string {
	return a.fieldBreakdown("department", func(r catalog.Record) string { return r.Department })
}

// CostBreakdown groups tools by cost model.
func (a *Analytics) CostBreakdown() string {
	return a.fieldBreakdown("cost", func(r catalog.Record) string { return r.Cost })
}

// fieldBreakdown renders counts and percentages for one string field,
// skipping records where the field is empty.
func (a *Analytics) fieldBreakdown(label string, field func(catalog.Record) string) string {
	counts := make(map[string]int)
	total := 0
	for _, r := range a.records {
		v := field(r)
		if v == "" {
			continue
		}
		counts[v]++
		total++
	}
	if total == 0 {
		return noDataMessage
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Breakdown by %s (%d tools with %s info):\n\n", label, total, label)
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %d (%d%%)\n", k, counts[k], percent(counts[k], total))
	}
	return b.String()
}

// InternalToolCount reports the number of internal tools, guarding the
// empty-catalog case.
func (a *Analytics) InternalToolCount() string {
	if len(a.records) == 0 {
		return noDataMessage
	}
	count := a.countByType(catalog.TypeInternal)
	return fmt.Sprintf("%d of %d tools (%d%%) are internal.", count, len(a.records), percent(count, len(a.records)))
}

func (a *Analytics) countByType(t catalog.RecordType) int {
	count := 0
	for _, r := range a.records {
		if r.Type == t {
			count++
		}
	}
	return count
}

func (a *Analytics) topFeatured(limit int) []catalog.Record {
	var featured []catalog.Record
	for _, r := range a.records {
		if r.Featured || r.HasTag("featured") {
			featured = append(featured, r)
		}
	}
	if len(featured) > limit {
		featured = featured[:limit]
	}
	return featured
}

func countWithCapability(records []catalog.Record, key catalog.CapabilityKey) int {
	count := 0
	for _, r := range records {
		if r.Capabilities.Has(key) {
			count++
		}
	}
	return count
}

// percent rounds 100*count/total to the nearest integer. Callers guard
// total > 0.
func percent(count, total int) int {
	return int(math.Round(100 * float64(count) / float64(total)))
}

// rateLabel renders "n (p%)" or "none" when the group is empty.
func rateLabel(count, total int) string {
	if total == 0 {
		return "none"
	}
	return fmt.Sprintf("%d (%d%%)", count, percent(count, total))
}
