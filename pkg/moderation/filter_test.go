package moderation

import (
	"strings"
	"testing"
)

func TestFilter_ValidText(t *testing.T) {
	filter := NewFilter()

	valid := []string{
		"Buy groceries",
		"Call the dentist tomorrow",
		"Finish the quarterly report",
		"water the plants",
	}

	for _, text := range valid {
		verdict := filter.Classify(text)
		if !verdict.Valid {
			t.Errorf("Expected %q to be valid, got reason %q", text, verdict.Reason)
		}
	}
}

func TestFilter_EmptyText(t *testing.T) {
	filter := NewFilter()

	verdict := filter.Classify("")
	if verdict.Valid {
		t.Error("Expected empty text to be invalid")
	}
	if verdict.Reason != "Invalid text" {
		t.Errorf("Expected reason %q, got %q", "Invalid text", verdict.Reason)
	}
}

func TestFilter_TooLong(t *testing.T) {
	filter := NewFilter()

	// Exactly at the limit is fine
	verdict := filter.Classify(strings.Repeat("a", 500))
	if !verdict.Valid {
		t.Errorf("Expected 500-char text to be valid, got %q", verdict.Reason)
	}

	verdict = filter.Classify(strings.Repeat("a", 501))
	if verdict.Valid {
		t.Error("Expected 501-char text to be invalid")
	}
	if verdict.Reason != "Text too long (max 500 characters)" {
		t.Errorf("Expected length reason, got %q", verdict.Reason)
	}
}

func TestFilter_BlockedTerms(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name string
		text string
	}{
		{"exact term", "spam"},
		{"term inside word", "this is spammy content"},
		{"uppercase", "SPAM everywhere"},
		{"mixed case", "Get Rich quick with Crypto"},
		{"embedded", "free viagra here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := filter.Classify(tt.text)
			if verdict.Valid {
				t.Errorf("Expected %q to be blocked", tt.text)
			}
			if verdict.Reason != "Contains inappropriate content" {
				t.Errorf("Expected blocklist reason, got %q", verdict.Reason)
			}
		})
	}
}

func TestFilter_StructuralPatterns(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name string
		text string
	}{
		{"http url", "check out http://example.com"},
		{"https url", "see https://example.com/page"},
		{"email", "contact me at someone@example.com"},
		{"long digit run", "call 1234567890 now"},
		{"repeated characters", "aaaaa help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := filter.Classify(tt.text)
			if verdict.Valid {
				t.Errorf("Expected %q to be rejected", tt.text)
			}
			if verdict.Reason != "Contains blocked content (URLs, emails, etc.)" {
				t.Errorf("Expected pattern reason, got %q", verdict.Reason)
			}
		})
	}
}

func TestFilter_PatternEdgeCases(t *testing.T) {
	filter := NewFilter()

	// Four repeats are allowed, five are not
	if verdict := filter.Classify("aaaa fine"); !verdict.Valid {
		t.Errorf("Expected four repeats to pass, got %q", verdict.Reason)
	}
	if verdict := filter.Classify("aaaAa help"); verdict.Valid {
		t.Error("Expected case-insensitive repeat run to be rejected")
	}

	// Nine digits are allowed, ten are not
	if verdict := filter.Classify("order 123456789"); !verdict.Valid {
		t.Errorf("Expected nine digits to pass, got %q", verdict.Reason)
	}
}

func TestFilter_RuleOrder(t *testing.T) {
	filter := NewFilter()

	// Length check wins over blocklist
	text := "spam " + strings.Repeat("a", 500)
	verdict := filter.Classify(text)
	if verdict.Reason != "Text too long (max 500 characters)" {
		t.Errorf("Expected length to be checked before blocklist, got %q", verdict.Reason)
	}

	// Blocklist wins over patterns
	verdict = filter.Classify("spam at http://example.com")
	if verdict.Reason != "Contains inappropriate content" {
		t.Errorf("Expected blocklist to be checked before patterns, got %q", verdict.Reason)
	}
}

func TestFilter_CustomConfig(t *testing.T) {
	filter := NewFilterWithConfig(FilterConfig{
		MaxLength: 10,
		Blocklist: []string{"banana"},
	})

	if verdict := filter.Classify("a banana"); verdict.Valid {
		t.Error("Expected custom blocked term to be rejected")
	}
	if verdict := filter.Classify("spam"); !verdict.Valid {
		t.Errorf("Expected default terms to be replaced, got %q", verdict.Reason)
	}
	if verdict := filter.Classify("hello world"); verdict.Valid {
		t.Error("Expected text over custom limit to be rejected")
	}
}

func TestFilter_SetBlocklist(t *testing.T) {
	filter := NewFilter()

	filter.SetBlocklist([]string{"Widget", "  GADGET  "})

	if verdict := filter.Classify("buy a widget"); verdict.Valid {
		t.Error("Expected new term to be blocked after SetBlocklist")
	}
	if verdict := filter.Classify("a gadget"); verdict.Valid {
		t.Error("Expected terms to be normalized to lowercase")
	}
	if verdict := filter.Classify("spam"); !verdict.Valid {
		t.Errorf("Expected old terms to be dropped, got %q", verdict.Reason)
	}

	terms := filter.Blocklist()
	if len(terms) != 2 {
		t.Fatalf("Expected 2 terms, got %d", len(terms))
	}

	// Mutating the returned slice must not affect the filter
	terms[0] = "spam"
	if verdict := filter.Classify("spam"); !verdict.Valid {
		t.Error("Expected Blocklist() to return a copy")
	}
}

func TestHasRepeatedRun(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"abcde", false},
		{"aaaa", false},
		{"aaaaa", true},
		{"xxaaaaaxx", true},
		{"AaAaA", true},
		{"ababab", false},
	}

	for _, tt := range tests {
		if got := hasRepeatedRun(tt.text, 5); got != tt.want {
			t.Errorf("hasRepeatedRun(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
