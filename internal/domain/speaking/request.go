package speaking

import "strings"

// PromptRequest is a validated generation request. Band is nil when the
// caller wants all three bands at once.
type PromptRequest struct {
	Part     Part
	Question string
	Band     *Band
}

// NewPromptRequest validates raw request fields. The question text is
// kept verbatim; only an all-blank question is rejected.
func NewPromptRequest(part, question, band string) (*PromptRequest, error) {
	p, err := ParsePart(part)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(question) == "" {
		return nil, &ValidationError{Field: "question", Reason: "is required"}
	}

	req := &PromptRequest{
		Part:     p,
		Question: question,
	}

	if strings.TrimSpace(band) != "" {
		b, err := ParseBand(band)
		if err != nil {
			return nil, err
		}
		req.Band = &b
	}

	return req, nil
}

// SingleBand reports whether the request targets one band only.
func (r *PromptRequest) SingleBand() bool {
	return r.Band != nil
}
