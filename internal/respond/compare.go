package respond

import (
	"fmt"
	"strings"

	"github.com/askdeck/askdeck/internal/catalog"
	"github.com/askdeck/askdeck/internal/intent"
)

// compare renders a side-by-side block per requested tool, in input order.
// Names resolve through the fuzzy lookup; fewer than two resolved names
// produces a guidance message instead of an error.
func compare(e *intent.ComparisonEntities, records []catalog.Record) string {
	if e == nil || len(e.ToolNames) < 2 {
		return comparisonGuidance(records)
	}

	var resolved []*catalog.Record
	var missing []string
	for _, name := range e.ToolNames {
		if r := catalog.FindByName(records, name); r != nil {
			resolved = append(resolved, r)
		} else {
			missing = append(missing, name)
		}
	}

	if len(resolved) < 2 {
		return comparisonGuidance(records)
	}

	var b strings.Builder
	b.WriteString("Here's a comparison:\n")
	for _, r := range resolved {
		fmt.Fprintf(&b, "\n### %s (%s)\n", r.Name, r.Type)
		fmt.Fprintf(&b, "%s\n", r.Purpose)
		if labels := r.CapabilityLabels(); len(labels) > 0 {
			b.WriteString("\nCapabilities:\n")
			for _, l := range labels {
				fmt.Fprintf(&b, "- %s\n", l)
			}
		}
		if r.Access != "" {
			fmt.Fprintf(&b, "\nAccess: %s", r.Access)
			if r.Cost != "" {
				fmt.Fprintf(&b, " · Cost: %s", r.Cost)
			}
			b.WriteString("\n")
		}
		if r.BestFor != "" {
			fmt.Fprintf(&b, "Best for: %s\n", r.BestFor)
		}
	}

	if len(missing) > 0 {
		fmt.Fprintf(&b, "\nI couldn't find: %s.", strings.Join(missing, ", "))
	}
	return b.String()
}

// comparisonGuidance is shown when fewer than two subjects resolved.
func comparisonGuidance(records []catalog.Record) string {
	return fmt.Sprintf(
		"To compare tools, name at least two of them, like \"compare X and Y\". Some catalog entries you could use: %s.",
		sampleNames(records, 4),
	)
}
