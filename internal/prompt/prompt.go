// Package prompt renders the instruction sent to the model and pairs each
// rendering with the extraction contract for the reply it asks for.
package prompt

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/ielts-speaking/backend/internal/domain/speaking"
	"github.com/ielts-speaking/backend/internal/extract"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// SystemMessage is sent as the system role alongside every prompt.
const SystemMessage = "You are a certified IELTS Speaking examiner."

// VariantID names a prompt-and-extraction variant.
type VariantID string

const (
	// SingleBand asks for one band's answer, comment and vocabulary.
	SingleBand VariantID = "single_band"
	// AllBands asks for answers and comments for bands 5, 6 and 7 at once.
	AllBands VariantID = "all_bands"
)

// Variant is the configuration record for one prompt shape: which
// template renders it, which header literals the model must echo and how
// those headers map to result keys.
//
// Label and key fields are fmt patterns taking the band number.
type Variant struct {
	ID       VariantID
	Template string

	// Words gives the answer length instructed for a part. Nil means
	// speaking.Part.Words.
	Words func(speaking.Part) speaking.WordBounds

	AnswerLabel  string
	CommentLabel string
	AnswerKey    string
	CommentKey   string

	// VocabKey is empty when the variant does not ask for vocabulary.
	VocabKey    string
	VocabMarker string
	FullTextKey string

	Boundary *regexp.Regexp
}

var variants = map[VariantID]*Variant{
	SingleBand: {
		ID:           SingleBand,
		Template:     "single_band.tmpl",
		Words:        speaking.Part.Words,
		AnswerLabel:  "Band %d Answer",
		CommentLabel: "Band %d Comment",
		AnswerKey:    "band%d",
		CommentKey:   "comment%d",
		VocabKey:     "vocab%d",
		VocabMarker:  extract.DefaultVocabMarker,
		Boundary:     extract.DefaultBoundary,
	},
	AllBands: {
		ID:           AllBands,
		Template:     "all_bands.tmpl",
		Words:        speaking.Part.Words,
		AnswerLabel:  "Band %d Answer",
		CommentLabel: "Band %d Comment",
		AnswerKey:    "band%d",
		CommentKey:   "comment%d",
		VocabMarker:  extract.DefaultVocabMarker,
		FullTextKey:  "fullText",
		Boundary:     extract.DefaultBoundary,
	},
}

// Lookup returns the variant registered under id.
func Lookup(id VariantID) (*Variant, bool) {
	v, ok := variants[id]
	return v, ok
}

// Select picks the variant for a request: a band-specific request gets the
// single-band shape, otherwise all three bands are generated together.
func Select(req *speaking.PromptRequest) *Variant {
	if req.SingleBand() {
		return variants[SingleBand]
	}
	return variants[AllBands]
}

// Choose returns the variant named by id, or Select(req) when id is empty.
// An unknown id, or the single-band variant without a band, is a
// validation error.
func Choose(req *speaking.PromptRequest, id VariantID) (*Variant, error) {
	if id == "" {
		return Select(req), nil
	}

	v, ok := Lookup(id)
	if !ok {
		return nil, &speaking.ValidationError{Field: "variant", Value: string(id), Reason: "must be single_band or all_bands"}
	}
	if v.ID == SingleBand && !req.SingleBand() {
		return nil, &speaking.ValidationError{Field: "band", Reason: "is required for the single_band variant"}
	}
	return v, nil
}

// Bands returns the bands a rendering of v covers for req.
func (v *Variant) Bands(req *speaking.PromptRequest) []speaking.Band {
	if v.ID == SingleBand && req.Band != nil {
		return []speaking.Band{*req.Band}
	}
	return speaking.Bands
}

// Contract builds the extraction contract matching a rendering for req.
func (v *Variant) Contract(req *speaking.PromptRequest) extract.Contract {
	bands := v.Bands(req)

	c := extract.Contract{
		Sections:    make([]extract.Section, 0, 2*len(bands)),
		Boundary:    v.Boundary,
		VocabMarker: v.VocabMarker,
		FullTextKey: v.FullTextKey,
	}
	for _, b := range bands {
		c.Sections = append(c.Sections,
			extract.Section{Key: fmt.Sprintf(v.AnswerKey, b), Label: fmt.Sprintf(v.AnswerLabel, b)},
			extract.Section{Key: fmt.Sprintf(v.CommentKey, b), Label: fmt.Sprintf(v.CommentLabel, b)},
		)
	}
	if v.VocabKey != "" && len(bands) == 1 {
		c.VocabKey = fmt.Sprintf(v.VocabKey, bands[0])
	}
	return c
}

type bandData struct {
	Band         speaking.Band
	AnswerLabel  string
	CommentLabel string
	Vocab        speaking.VocabCount
}

type lengthData struct {
	Part  speaking.Part
	Words speaking.WordBounds
}

type templateData struct {
	Part        speaking.Part
	Question    string
	Words       speaking.WordBounds
	Lengths     []lengthData
	Bands       []bandData
	VocabMarker string
}

func (v *Variant) wordBounds(p speaking.Part) speaking.WordBounds {
	if v.Words != nil {
		return v.Words(p)
	}
	return p.Words()
}

// Render produces the prompt for req. The question is interpolated
// verbatim.
func (v *Variant) Render(req *speaking.PromptRequest) (string, error) {
	data := templateData{
		Part:        req.Part,
		Question:    req.Question,
		Words:       v.wordBounds(req.Part),
		VocabMarker: v.VocabMarker,
	}
	for _, p := range []speaking.Part{speaking.Part1, speaking.Part2, speaking.Part3} {
		data.Lengths = append(data.Lengths, lengthData{Part: p, Words: v.wordBounds(p)})
	}
	for _, b := range v.Bands(req) {
		data.Bands = append(data.Bands, bandData{
			Band:         b,
			AnswerLabel:  fmt.Sprintf(v.AnswerLabel, b),
			CommentLabel: fmt.Sprintf(v.CommentLabel, b),
			Vocab:        b.Vocab(),
		})
	}

	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, v.Template, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", v.ID, err)
	}
	return strings.TrimSpace(sb.String()), nil
}
