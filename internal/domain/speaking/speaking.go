package speaking

import (
	"fmt"
	"strconv"
	"strings"
)

// Part is an IELTS Speaking test section.
type Part int

const (
	Part1 Part = 1
	Part2 Part = 2
	Part3 Part = 3
)

// Band is the IELTS proficiency tier a sample answer is written for.
type Band int

const (
	Band5 Band = 5
	Band6 Band = 6
	Band7 Band = 7
)

// Bands lists every supported band in ascending order.
var Bands = []Band{Band5, Band6, Band7}

// WordBounds is the inclusive word-count range an answer must fall in.
type WordBounds struct {
	Min int
	Max int
}

// VocabCount is how many advanced words and phrases a band asks for.
type VocabCount struct {
	Words   int
	Phrases int
}

// ValidationError is returned when a request field is outside its enum
// or missing.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ParsePart accepts "1".."3" as well as the front-end label "Part 1".
func ParsePart(s string) (Part, error) {
	v := strings.TrimSpace(s)
	if len(v) > 4 && strings.EqualFold(v[:4], "part") {
		v = strings.TrimSpace(v[4:])
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < int(Part1) || n > int(Part3) {
		return 0, &ValidationError{Field: "part", Value: s, Reason: "must be 1, 2 or 3"}
	}
	return Part(n), nil
}

// ParseBand accepts "5".."7", optionally written as "Band 6".
func ParseBand(s string) (Band, error) {
	v := strings.TrimSpace(s)
	if len(v) > 4 && strings.EqualFold(v[:4], "band") {
		v = strings.TrimSpace(v[4:])
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ValidationError{Field: "band", Value: s, Reason: "must be 5, 6 or 7"}
	}
	for _, b := range Bands {
		if int(b) == n {
			return b, nil
		}
	}
	return 0, &ValidationError{Field: "band", Value: s, Reason: "must be 5, 6 or 7"}
}

// Words returns the answer length instructed for the part.
func (p Part) Words() WordBounds {
	switch p {
	case Part2:
		return WordBounds{Min: 150, Max: 180}
	case Part3:
		return WordBounds{Min: 40, Max: 60}
	default:
		return WordBounds{Min: 30, Max: 40}
	}
}

func (p Part) String() string {
	return strconv.Itoa(int(p))
}

// Vocab returns the vocabulary highlight counts requested at the band.
func (b Band) Vocab() VocabCount {
	switch b {
	case Band7:
		return VocabCount{Words: 4, Phrases: 4}
	case Band6:
		return VocabCount{Words: 3, Phrases: 3}
	default:
		return VocabCount{Words: 2, Phrases: 2}
	}
}

func (b Band) String() string {
	return strconv.Itoa(int(b))
}
