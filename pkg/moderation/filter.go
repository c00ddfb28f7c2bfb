package moderation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// DefaultMaxLength is the maximum accepted length of a text field.
const DefaultMaxLength = 500

// DefaultBlocklist contains the disallowed substrings checked against every
// text field, case-insensitively.
var DefaultBlocklist = []string{
	"spam",
	"advertisement",
	"casino",
	"porn",
	"sex",
	"drug",
	"viagra",
	"crypto",
	"bitcoin",
	"investment",
	"money",
	"rich",
	"millionaire",
	"scam",
	"hack",
}

// repeatRunLength is the number of consecutive identical characters that
// trigger a rejection.
const repeatRunLength = 5

// Verdict is the result of classifying a single text field.
// It is never persisted.
type Verdict struct {
	Valid  bool
	Reason string
}

// Filter classifies text fields as acceptable or unacceptable.
//
// Classification is deterministic and has no side effects. The blocklist may
// be replaced at runtime via SetBlocklist; all other rules are fixed at
// construction.
type Filter struct {
	maxLength int
	patterns  []*regexp.Regexp

	// mu protects the blocklist for concurrent reload
	mu        sync.RWMutex
	blocklist []string
}

// FilterConfig configures a Filter. Zero values fall back to defaults.
type FilterConfig struct {
	// MaxLength is the maximum accepted text length. Default: 500.
	MaxLength int

	// Blocklist is the list of disallowed substrings. Default: DefaultBlocklist.
	Blocklist []string
}

// NewFilter creates a content filter with default settings.
func NewFilter() *Filter {
	return NewFilterWithConfig(FilterConfig{})
}

// NewFilterWithConfig creates a content filter with custom configuration.
func NewFilterWithConfig(cfg FilterConfig) *Filter {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	if len(cfg.Blocklist) == 0 {
		cfg.Blocklist = DefaultBlocklist
	}

	f := &Filter{
		maxLength: cfg.MaxLength,
		blocklist: normalizeTerms(cfg.Blocklist),
	}
	f.compilePatterns()

	return f
}

// compilePatterns compiles the structural rejection patterns.
func (f *Filter) compilePatterns() {
	f.patterns = []*regexp.Regexp{
		// URLs
		regexp.MustCompile(`(?i)https?://\S+`),
		// Email addresses
		regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		// Phone-number-shaped digit runs (10+ digits)
		regexp.MustCompile(`\b\d{10,}\b`),
	}
}

// Classify checks a text field against all rules, in order, first failure
// wins.
func (f *Filter) Classify(text string) Verdict {
	if text == "" {
		return Verdict{Valid: false, Reason: "Invalid text"}
	}

	if len(text) > f.maxLength {
		return Verdict{Valid: false, Reason: fmt.Sprintf("Text too long (max %d characters)", f.maxLength)}
	}

	lower := strings.ToLower(text)
	f.mu.RLock()
	for _, term := range f.blocklist {
		if strings.Contains(lower, term) {
			f.mu.RUnlock()
			return Verdict{Valid: false, Reason: "Contains inappropriate content"}
		}
	}
	f.mu.RUnlock()

	for _, pattern := range f.patterns {
		if pattern.MatchString(text) {
			return Verdict{Valid: false, Reason: "Contains blocked content (URLs, emails, etc.)"}
		}
	}

	// RE2 has no backreferences, so repeated runs are checked by hand.
	if hasRepeatedRun(text, repeatRunLength) {
		return Verdict{Valid: false, Reason: "Contains blocked content (URLs, emails, etc.)"}
	}

	return Verdict{Valid: true}
}

// SetBlocklist replaces the blocklist. Empty or duplicate terms are dropped;
// matching stays case-insensitive.
func (f *Filter) SetBlocklist(terms []string) {
	normalized := normalizeTerms(terms)

	f.mu.Lock()
	f.blocklist = normalized
	f.mu.Unlock()
}

// Blocklist returns a copy of the current blocklist terms.
func (f *Filter) Blocklist() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	terms := make([]string, len(f.blocklist))
	copy(terms, f.blocklist)
	return terms
}

// hasRepeatedRun reports whether any character repeats at least n times
// consecutively, case-insensitively.
func hasRepeatedRun(text string, n int) bool {
	var (
		prev rune
		run  int
	)

	for _, r := range strings.ToLower(text) {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}

	return false
}

// normalizeTerms lowercases terms and drops empties and duplicates.
func normalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	normalized := make([]string, 0, len(terms))

	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		normalized = append(normalized, term)
	}

	return normalized
}
