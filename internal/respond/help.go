package respond

import (
	"fmt"
	"strings"

	"github.com/askdeck/askdeck/internal/catalog"
	"github.com/askdeck/askdeck/internal/intent"
)

// toolDetails renders the full record for one tool, or a guidance message
// when the name doesn't resolve.
func toolDetails(e *intent.DetailsEntities, records []catalog.Record) string {
	if e == nil || e.ToolName == "" {
		return fmt.Sprintf("Which tool do you mean? The catalog has %d, including %s.", len(records), sampleNames(records, 3))
	}

	r := catalog.FindByName(records, e.ToolName)
	if r == nil {
		return notFound(e.ToolName, records)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%s tool)\n\n%s\n", r.Name, r.Type, r.Purpose)
	if labels := r.CapabilityLabels(); len(labels) > 0 {
		fmt.Fprintf(&b, "\nCapabilities: %s\n", strings.Join(labels, ", "))
	}
	if r.BestFor != "" {
		fmt.Fprintf(&b, "Best for: %s\n", r.BestFor)
	}
	if r.Access != "" {
		fmt.Fprintf(&b, "Access: %s\n", r.Access)
	}
	if r.Cost != "" {
		fmt.Fprintf(&b, "Cost: %s\n", r.Cost)
	}
	if r.TrainingURL != "" {
		fmt.Fprintf(&b, "Training: %s\n", r.TrainingURL)
	}
	return b.String()
}

// platformHelp renders access and how-to guidance. The tool_access feature
// resolves the named tool and points at its access path.
func platformHelp(e *intent.HelpEntities, records []catalog.Record) string {
	if e != nil && e.Feature == "tool_access" && e.ToolName != "" {
		r := catalog.FindByName(records, e.ToolName)
		if r == nil {
			return notFound(e.ToolName, records)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "To access **%s**:\n\n", r.Name)
		if r.Access != "" {
			fmt.Fprintf(&b, "- %s\n", r.Access)
		} else {
			b.WriteString("- No access path is listed; ask your team lead or IT.\n")
		}
		if r.AccessURL != "" {
			fmt.Fprintf(&b, "- Open: %s\n", r.AccessURL)
		}
		if r.TrainingURL != "" {
			fmt.Fprintf(&b, "- Training material: %s\n", r.TrainingURL)
		}
		return b.String()
	}

	feature := "general"
	if e != nil && e.Feature != "" {
		feature = e.Feature
	}

	switch feature {
	case "login":
		return "Sign in with your company SSO account. If your account isn't recognized, contact IT support."
	case "access":
		return "Most internal tools are available via SSO right away; external tools need a license request through IT. Ask me about a specific tool and I'll point you at its access path."
	}
	return fmt.Sprintf("Happy to help. You can ask how to access any of the %d catalog tools, or how a specific feature works.", len(records))
}

// notFound is the shared entity-resolution failure message: a guidance
// response, never an error surfaced to the caller.
func notFound(name string, records []catalog.Record) string {
	return fmt.Sprintf(
		"I couldn't find \"%s\" in the catalog (%d tools). Closest things to try: %s.",
		name, len(records), sampleNames(records, 3),
	)
}
