// Package moderation filters untrusted user input before it is persisted.
//
// The package provides two layers:
//
//   - Filter classifies a single text field against a length limit, a static
//     blocklist of disallowed substrings, and a set of structural patterns
//     (URLs, email addresses, long digit runs, repeated characters).
//   - Validator composes Filter with structural checks on a decoded todo
//     submission and reports every problem at once.
//
// Detection is intentionally simple substring and pattern matching, not
// ML-based classification. The blocklist can be swapped at runtime, which
// backs the optional file watcher for hot reload.
package moderation
