package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// snapshot is the on-disk / on-wire catalog format.
type snapshot struct {
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
	Tools     []Record  `json:"tools"`
}

// Load reads a catalog snapshot from a JSON file.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return parseSnapshot(data)
}

// Refresh fetches a catalog snapshot from a URL. The catalog is refreshed
// out-of-band; callers swap the returned slice in atomically.
func Refresh(ctx context.Context, url string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	return parseSnapshot(body)
}

// Save writes a catalog snapshot to a JSON file.
func Save(records []Record, path string) error {
	snap := snapshot{UpdatedAt: time.Now(), Tools: records}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// parseSnapshot decodes either the wrapped snapshot format or a bare array.
func parseSnapshot(data []byte) ([]Record, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err == nil && snap.Tools != nil {
		return snap.Tools, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return records, nil
}

// Sample returns a small built-in catalog so the assistant works before any
// snapshot is configured.
func Sample() []Record {
	return []Record{
		{
			ID:      "plai",
			Name:    "Plai",
			Type:    TypeInternal,
			Purpose: "Internal analytics workbench for exploring business data and building reports",
			Tags:    []string{"analytics", "featured"},
			Capabilities: CapabilityFlags{
				DataAnalysis: true,
				Chat:         true,
			},
			Cost:       "free",
			Access:     "SSO",
			BestFor:    "Exploring metrics and building shareable dashboards",
			Status:     StatusProduction,
			Featured:   true,
			Technology: "in-house",
			Department: "data",
		},
		{
			ID:      "concierge",
			Name:    "Concierge",
			Type:    TypeInternal,
			Purpose: "Company knowledge assistant that answers policy and process questions",
			Tags:    []string{"assistant", "featured"},
			Capabilities: CapabilityFlags{
				Chat:             true,
				DocumentAnalysis: true,
				TextGeneration:   true,
			},
			Cost:       "free",
			Access:     "SSO",
			BestFor:    "Quick answers about internal processes",
			Status:     StatusProduction,
			Featured:   true,
			Technology: "in-house",
		},
		{
			ID:      "chatgpt",
			Name:    "ChatGPT",
			Type:    TypeExternal,
			Purpose: "General-purpose conversational assistant for writing, coding and research",
			Tags:    []string{"general"},
			Capabilities: CapabilityFlags{
				Chat:           true,
				CodeGeneration: true,
				TextGeneration: true,
				WebSearch:      true,
			},
			Cost:       "licensed",
			Access:     "request via IT",
			BestFor:    "Drafting, brainstorming and everyday coding help",
			Status:     StatusProduction,
			Technology: "OpenAI",
		},
		{
			ID:      "claude",
			Name:    "Claude",
			Type:    TypeExternal,
			Purpose: "Conversational assistant strong at long documents and careful analysis",
			Tags:    []string{"general"},
			Capabilities: CapabilityFlags{
				Chat:             true,
				CodeGeneration:   true,
				TextGeneration:   true,
				DocumentAnalysis: true,
			},
			Cost:       "licensed",
			Access:     "request via IT",
			BestFor:    "Long-document review and analysis",
			Status:     StatusProduction,
			Technology: "Anthropic",
		},
		{
			ID:      "pixelforge",
			Name:    "PixelForge",
			Type:    TypeExternal,
			Purpose: "Image generation studio for marketing visuals",
			Tags:    []string{"creative"},
			Capabilities: CapabilityFlags{
				ImageGeneration: true,
			},
			Cost:       "per-seat",
			Access:     "request via marketing ops",
			BestFor:    "Campaign imagery and concept art",
			Status:     StatusBeta,
			Technology: "diffusion",
			Department: "marketing",
		},
	}
}
