package catalog

import "testing"

func TestDetectCapabilities(t *testing.T) {
	tests := []struct {
		text string
		want []CapabilityKey
	}{
		{"i need to analyze some data", []CapabilityKey{CapData}},
		{"write code for my project", []CapabilityKey{CapCode, CapText}},
		{"generate an image for the campaign", []CapabilityKey{CapImage}},
		{"summarize this pdf", []CapabilityKey{CapDocument}},
		{"hello there", nil},
	}

	for _, tt := range tests {
		got := DetectCapabilities(tt.text)
		if len(got) != len(tt.want) {
			t.Errorf("DetectCapabilities(%q) = %v, expected %v", tt.text, got, tt.want)
			continue
		}
		for i, key := range tt.want {
			if got[i] != key {
				t.Errorf("DetectCapabilities(%q)[%d] = %s, expected %s", tt.text, i, got[i], key)
			}
		}
	}
}

func TestDetectCapabilitiesWordBoundary(t *testing.T) {
	// "database" must not fire the "data" keyword; the match is
	// whole-word only.
	if got := DetectCapabilities("migrate my database schema"); len(got) != 0 {
		t.Errorf("expected no capabilities for embedded keyword, got %v", got)
	}
}

func TestDetectCapabilitiesCanonicalOrder(t *testing.T) {
	// Detection order follows the table, not text order.
	got := DetectCapabilities("write some text and then code it up")
	if len(got) != 2 || got[0] != CapCode || got[1] != CapText {
		t.Errorf("expected [code_generation text_generation], got %v", got)
	}
}

func TestLookupCapability(t *testing.T) {
	c, ok := LookupCapability(CapData)
	if !ok {
		t.Fatal("expected data_analysis to resolve")
	}
	if c.Label != "Data Analysis" {
		t.Errorf("expected label Data Analysis, got %q", c.Label)
	}

	if _, ok := LookupCapability("nonsense"); ok {
		t.Error("expected unknown key to not resolve")
	}
}

func TestCapabilityFlagsHas(t *testing.T) {
	flags := CapabilityFlags{DataAnalysis: true, Chat: true}

	if !flags.Has(CapData) {
		t.Error("expected Has(data_analysis) to be true")
	}
	if !flags.Has(CapChat) {
		t.Error("expected Has(chat) to be true")
	}
	if flags.Has(CapImage) {
		t.Error("expected Has(image_generation) to be false")
	}
}
