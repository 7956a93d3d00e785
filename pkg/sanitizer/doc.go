// Package sanitizer normalizes user-supplied text before validation
// and persistence: whitespace collapsing for names and addresses,
// E.164 normalization for phone numbers.
package sanitizer
