/*
Package catalog defines the read-only tool catalog the assistant reasons over.

The catalog is an ordered snapshot of CatalogRecord values loaded from a JSON
file (or fetched from a snapshot URL out-of-band). The assistant core never
mutates records; refresh replaces the whole snapshot.
*/
package catalog

// RecordType distinguishes tools built in-house from licensed external ones.
type RecordType string

const (
	TypeInternal RecordType = "internal"
	TypeExternal RecordType = "external"
)

// Record statuses as they appear in catalog snapshots.
const (
	StatusProduction    = "production"
	StatusInDevelopment = "in-development"
	StatusBeta          = "beta"
)

// CapabilityFlags marks which broad capability families a tool supports.
type CapabilityFlags struct {
	CodeGeneration   bool `json:"codeGeneration"`
	ImageGeneration  bool `json:"imageGeneration"`
	WebSearch        bool `json:"webSearch"`
	Chat             bool `json:"chat"`
	DataAnalysis     bool `json:"dataAnalysis"`
	DocumentAnalysis bool `json:"documentAnalysis"`
	TextGeneration   bool `json:"textGeneration"`
}

// Has reports whether the named capability family is set.
func (c CapabilityFlags) Has(key CapabilityKey) bool {
	switch key {
	case CapCode:
		return c.CodeGeneration
	case CapImage:
		return c.ImageGeneration
	case CapSearch:
		return c.WebSearch
	case CapChat:
		return c.Chat
	case CapData:
		return c.DataAnalysis
	case CapDocument:
		return c.DocumentAnalysis
	case CapText:
		return c.TextGeneration
	}
	return false
}

// Record is one tool in the catalog. Owned by the external catalog loader;
// the assistant core only reads it.
type Record struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         RecordType      `json:"type"`
	Purpose      string          `json:"purpose"`
	Tags         []string        `json:"tags,omitempty"`
	Capabilities CapabilityFlags `json:"capabilities"`
	Cost         string          `json:"cost,omitempty"`
	Access       string          `json:"access,omitempty"`
	AccessURL    string          `json:"accessUrl,omitempty"`
	TrainingURL  string          `json:"trainingUrl,omitempty"`
	BestFor      string          `json:"bestFor,omitempty"`
	Status       string          `json:"status,omitempty"`
	Featured     bool            `json:"featured,omitempty"`
	Technology   string          `json:"technology,omitempty"`
	Department   string          `json:"department,omitempty"`
}

// HasTag reports whether the record carries the given free-text tag.
func (r *Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CapabilityLabels returns human-readable labels for the record's set flags,
// in the canonical capability order.
func (r *Record) CapabilityLabels() []string {
	labels := make([]string, 0, len(Capabilities))
	for _, cap := range Capabilities {
		if r.Capabilities.Has(cap.Key) {
			labels = append(labels, cap.Label)
		}
	}
	return labels
}
