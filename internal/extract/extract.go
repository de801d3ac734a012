// Package extract recovers labeled sections from a model's free-form reply.
//
// The model is asked to answer with literal headers ("Band 6 Answer:",
// "Band 6 Comment:", "Vocabulary Highlights:") but nothing guarantees it
// does, so extraction is tolerant: a missing header yields an empty field,
// never an error.
package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultBoundary ends a section at a newline followed by a capitalized
// word, or at the vocabulary marker.
var DefaultBoundary = regexp.MustCompile(`\n[A-Z][a-z]|Vocabulary Highlights`)

// DefaultVocabMarker introduces the trailing vocabulary block.
const DefaultVocabMarker = "Vocabulary Highlights"

// Section binds a result key to the header label that anchors it in the
// reply.
type Section struct {
	Key   string
	Label string
}

// Contract is the extraction configuration a prompt variant supplies.
type Contract struct {
	Sections []Section

	// Boundary ends a section. Nil means DefaultBoundary.
	Boundary *regexp.Regexp

	// VocabKey receives everything after VocabMarker. Empty disables it.
	VocabKey    string
	VocabMarker string

	// FullTextKey, when set, receives the whole trimmed reply.
	FullTextKey string
}

// Keys lists every result key the contract produces.
func (c Contract) Keys() []string {
	keys := make([]string, 0, len(c.Sections)+2)
	for _, s := range c.Sections {
		keys = append(keys, s.Key)
	}
	if c.VocabKey != "" {
		keys = append(keys, c.VocabKey)
	}
	if c.FullTextKey != "" {
		keys = append(keys, c.FullTextKey)
	}
	return keys
}

// Extract applies the contract to raw. Every key of the contract is
// present in the result; sections that could not be found are "".
// Each label is searched independently so the output does not depend on
// the order the model wrote its sections in.
func (c Contract) Extract(raw string) map[string]string {
	text := strings.TrimSpace(raw)

	boundary := c.Boundary
	if boundary == nil {
		boundary = DefaultBoundary
	}

	out := make(map[string]string, len(c.Sections)+2)
	for _, s := range c.Sections {
		out[s.Key] = Between(text, s.Label, boundary)
	}

	if c.VocabKey != "" {
		marker := c.VocabMarker
		if marker == "" {
			marker = DefaultVocabMarker
		}
		out[c.VocabKey] = After(text, marker)
	}

	if c.FullTextKey != "" {
		out[c.FullTextKey] = text
	}

	return out
}

// Between returns the trimmed text following the first occurrence of
// label, up to the first boundary match or end of text. A colon right
// after the label, ASCII or full-width, is skipped.
func Between(text, label string, boundary *regexp.Regexp) string {
	start, ok := contentStart(text, label)
	if !ok {
		return ""
	}

	rest := text[start:]
	if loc := boundary.FindStringIndex(rest); loc != nil {
		rest = rest[:loc[0]]
	}
	return strings.TrimSpace(rest)
}

// After returns the trimmed text from the first occurrence of marker to
// end of text.
func After(text, marker string) string {
	start, ok := contentStart(text, marker)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text[start:])
}

// contentStart locates label and returns the offset just past it, its
// optional colon and any whitespace.
func contentStart(text, label string) (int, bool) {
	if label == "" {
		return 0, false
	}

	i := strings.Index(text, label)
	if i < 0 {
		return 0, false
	}
	i += len(label)

	switch {
	case strings.HasPrefix(text[i:], ":"):
		i += len(":")
	case strings.HasPrefix(text[i:], "："):
		i += len("：")
	}

	rest := strings.TrimLeftFunc(text[i:], unicode.IsSpace)
	return len(text) - len(rest), true
}
