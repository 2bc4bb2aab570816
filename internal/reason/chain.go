/*
Package reason runs a five-step inference chain over a query, its classified
intent and the catalog snapshot, producing ranked and validated tool
candidates with a self-describing rationale per step.

The chain is deterministic given identical inputs: two runs over the same
query, intent, catalog and context produce byte-identical conclusions.
*/
package reason

import (
	"time"

	"github.com/askdeck/askdeck/internal/catalog"
)

// StepKind labels what a chain step does.
type StepKind string

const (
	KindAnalysis   StepKind = "analysis"
	KindInference  StepKind = "inference"
	KindValidation StepKind = "validation"
	KindSynthesis  StepKind = "synthesis"
)

// Step is one link in a reasoning chain. Input and Output are rendered
// summaries of what the step consumed and produced.
type Step struct {
	Step       int      `json:"step"`
	Kind       StepKind `json:"kind"`
	Input      string   `json:"input"`
	Output     string   `json:"output"`
	Confidence float64  `json:"confidence"`
	Rationale  string   `json:"rationale"`
}

// Candidate is a catalog record with its accumulated score and the
// human-readable reasons it earned it.
type Candidate struct {
	Record  catalog.Record `json:"record"`
	Score   float64        `json:"score"`
	Reasons []string       `json:"reasons"`
}

// Chain is the result of one reasoning invocation. Never mutated after
// creation.
type Chain struct {
	Steps             []Step      `json:"steps"`
	OverallConfidence float64     `json:"overallConfidence"`
	Conclusion        string      `json:"conclusion"`
	Candidates        []Candidate `json:"candidates"`
	CreatedAt         time.Time   `json:"createdAt"`
}

// Context carries per-session signals into the chain.
type Context struct {
	// UserExpertise is "beginner", "intermediate" or "advanced"; empty means
	// unknown and is treated as intermediate.
	UserExpertise string

	// PreviousQueries seeds multi-turn awareness (most recent last).
	PreviousQueries []string

	// PreferredTools biases matching toward tools the user already favors.
	PreferredTools []string
}

// Expertise levels recognized in Context.UserExpertise.
const (
	ExpertiseBeginner     = "beginner"
	ExpertiseIntermediate = "intermediate"
	ExpertiseAdvanced     = "advanced"
)
