package catalog

import "strings"

// CapabilityKey identifies one of the seven capability families.
type CapabilityKey string

const (
	CapCode     CapabilityKey = "code_generation"
	CapImage    CapabilityKey = "image_generation"
	CapSearch   CapabilityKey = "web_search"
	CapChat     CapabilityKey = "chat"
	CapData     CapabilityKey = "data_analysis"
	CapDocument CapabilityKey = "document_analysis"
	CapText     CapabilityKey = "text_generation"
)

// Capability pairs a capability key with its display label and the keyword
// family that implies it in free text.
type Capability struct {
	Key      CapabilityKey
	Label    string
	Keywords []string
}

// Capabilities is the single source of truth for capability keywords.
// Both the intent classifier's entity extraction and the response generator's
// filtering read this table, so the two can never drift apart.
var Capabilities = []Capability{
	{CapCode, "Code Generation", []string{"code", "coding", "program", "programming", "develop", "script", "debug"}},
	{CapImage, "Image Generation", []string{"image", "picture", "photo", "visual", "graphic", "design", "draw"}},
	{CapSearch, "Web Search", []string{"search", "web", "internet", "browse", "real-time", "current", "latest", "news"}},
	{CapChat, "Chat", []string{"chat", "conversation", "talk", "converse", "assistant"}},
	{CapData, "Data Analysis", []string{"data", "analytics", "analyze", "analysis", "statistics", "metrics", "report"}},
	{CapDocument, "Document Analysis", []string{"document", "pdf", "file", "paper", "summarize", "summary"}},
	{CapText, "Text Generation", []string{"write", "writing", "text", "content", "draft", "email", "article"}},
}

// capabilityByKey is an index over Capabilities for direct lookups.
var capabilityByKey = func() map[CapabilityKey]Capability {
	m := make(map[CapabilityKey]Capability, len(Capabilities))
	for _, c := range Capabilities {
		m[c.Key] = c
	}
	return m
}()

// LookupCapability returns the capability definition for a key.
func LookupCapability(key CapabilityKey) (Capability, bool) {
	c, ok := capabilityByKey[key]
	return c, ok
}

// DetectCapabilities scans lower-cased text and returns every capability family
// implied by at least one of its keywords, in canonical order.
func DetectCapabilities(text string) []CapabilityKey {
	lower := strings.ToLower(text)
	var found []CapabilityKey
	for _, cap := range Capabilities {
		if containsAnyKeyword(lower, cap.Keywords) {
			found = append(found, cap.Key)
		}
	}
	return found
}

// containsAnyKeyword reports whether any keyword appears as a whole word.
func containsAnyKeyword(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if containsWord(lower, kw) {
			return true
		}
	}
	return false
}

// containsWord matches kw in lower on word boundaries, so "data" does not
// fire on "update".
func containsWord(lower, kw string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		beforeOK := start == 0 || !isWordChar(lower[start-1])
		afterOK := end == len(lower) || !isWordChar(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(lower) {
			return false
		}
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_' || b == '-'
}
