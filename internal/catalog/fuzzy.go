package catalog

import "strings"

// fuzzyThreshold is the minimum normalized similarity for a fuzzy name match.
const fuzzyThreshold = 0.6

// FindByName resolves a requested tool name against the snapshot.
//
// Resolution order: exact match (case-insensitive), substring match in either
// direction, then best Levenshtein similarity above the 0.6 threshold.
// Returns nil if nothing resolves.
func FindByName(records []Record, name string) *Record {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil
	}

	// Exact match first
	for i := range records {
		if strings.ToLower(records[i].Name) == query {
			return &records[i]
		}
	}

	// Substring match in either direction
	for i := range records {
		candidate := strings.ToLower(records[i].Name)
		if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
			return &records[i]
		}
	}

	// Fuzzy match: best normalized similarity wins, if above threshold
	var best *Record
	bestScore := 0.0
	for i := range records {
		score := Similarity(query, strings.ToLower(records[i].Name))
		if score > bestScore {
			bestScore = score
			best = &records[i]
		}
	}
	if bestScore > fuzzyThreshold {
		return best
	}
	return nil
}

// Similarity computes normalized Levenshtein similarity between two strings:
// 1 - editDistance/max(len(a), len(b)). Identical strings score 1.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(editDistance(a, b))/float64(maxLen)
}

// editDistance computes Levenshtein distance with a two-row DP table.
func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
