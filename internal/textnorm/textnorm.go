// Package textnorm is the single normalization capability shared by every
// component that compares a requirement string against a candidate field.
// The lexical matcher and the gap analyzer must agree on what counts as a
// match, so both go through this package.
package textnorm

import (
	"strings"
	"unicode"
)

// Normalize lowercases, trims and collapses internal whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Tokenize splits text into lowercase word tokens. Letters, digits and the
// characters + # . are treated as word characters so tech terms like "c++",
// "c#" and "node.js" survive tokenization; trailing dots are stripped.
func Tokenize(text string) []string {
	var tokens []string
	var word strings.Builder

	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if w != "" {
			tokens = append(tokens, w)
		}
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// WordSet returns the set of lowercase whitespace-separated words in text.
func WordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// SkillSet is a deduplicated collection of skill strings indexed by their
// normalized form. The original casing of the first occurrence is preserved
// for reporting.
type SkillSet struct {
	byNorm map[string]string
	order  []string
}

// NewSkillSet builds a SkillSet from a raw list, deduplicating by
// normalized form. Blank entries are dropped.
func NewSkillSet(items []string) *SkillSet {
	s := &SkillSet{byNorm: make(map[string]string, len(items))}
	for _, item := range items {
		norm := Normalize(item)
		if norm == "" {
			continue
		}
		if _, seen := s.byNorm[norm]; !seen {
			s.byNorm[norm] = item
			s.order = append(s.order, norm)
		}
	}
	return s
}

// Contains reports whether item matches any entry, case-insensitively on
// the normalized form.
func (s *SkillSet) Contains(item string) bool {
	_, ok := s.byNorm[Normalize(item)]
	return ok
}

// Len returns the number of distinct normalized entries.
func (s *SkillSet) Len() int {
	return len(s.byNorm)
}

// Originals returns the preserved original strings in first-seen order.
func (s *SkillSet) Originals() []string {
	out := make([]string, 0, len(s.order))
	for _, norm := range s.order {
		out = append(out, s.byNorm[norm])
	}
	return out
}
