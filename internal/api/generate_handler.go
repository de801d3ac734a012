package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ielts-speaking/backend/internal/domain/speaking"
	"github.com/ielts-speaking/backend/internal/llm"
	"github.com/ielts-speaking/backend/internal/ratelimit"
	"github.com/ielts-speaking/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type GenerateRequest struct {
	Part     string `json:"part" example:"Part 2"`
	Question string `json:"question" example:"Describe a memorable trip."`
	Band     string `json:"band,omitempty" example:"6"`
	// Variant forces a prompt shape: "single_band" or "all_bands".
	Variant string `json:"variant,omitempty" example:"single_band"`
}

func (r *GenerateRequest) Validate() error {
	if strings.TrimSpace(r.Part) == "" {
		return errors.New("part is required")
	}
	if strings.TrimSpace(r.Question) == "" {
		return errors.New("question is required")
	}
	return nil
}

// GenerateResponse maps section keys to extracted text. With a band the
// keys are band{N}, comment{N} and vocab{N}; without one they are
// band5..band7, comment5..comment7 and fullText.
type GenerateResponse map[string]string

type EmbeddingRequest struct {
	Input string `json:"input" example:"scenic"`
}

func (r *EmbeddingRequest) Validate() error {
	if strings.TrimSpace(r.Input) == "" {
		return errors.New("input is required")
	}
	return nil
}

type EmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// ping reports liveness.
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /ping [get]
func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// generate produces sample answers for a practice question.
// @Summary      Generate sample answers
// @Description  Renders the examiner prompt for the question, calls the model and returns the extracted sections. Without a band, answers for bands 5 to 7 are returned together with the full reply.
// @Tags         Generation
// @Accept       json
// @Produce      json
// @Param        body  body      GenerateRequest  true  "Question to answer"
// @Success      200   {object}  GenerateResponse
// @Failure      400   {object}  ErrorResponse  "invalid part, band or question"
// @Failure      429   {object}  ErrorResponse  "daily limit reached"
// @Failure      500   {object}  ErrorResponse
// @Failure      504   {object}  ErrorResponse  "model did not answer in time"
// @Router       /generate [post]
func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.generation.Generate(r.Context(), service.GenerateRequest{
		Part:     req.Part,
		Question: req.Question,
		Band:     req.Band,
		Variant:  req.Variant,
	})
	if err != nil {
		h.respondGenerationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, GenerateResponse(res.Fields))
}

// generateEmbedding returns an embedding vector for the input text.
// @Summary      Embed text
// @Tags         Generation
// @Accept       json
// @Produce      json
// @Param        body  body      EmbeddingRequest  true  "Text to embed"
// @Success      200   {object}  EmbeddingResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Failure      501   {object}  ErrorResponse  "provider has no embeddings"
// @Failure      504   {object}  ErrorResponse
// @Router       /generate-embedding [post]
func (h *Handler) generateEmbedding(w http.ResponseWriter, r *http.Request) {
	var req EmbeddingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	vec, err := h.generation.Embed(r.Context(), req.Input)
	if err != nil {
		h.respondGenerationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, EmbeddingResponse{Embedding: vec})
}

// usage reports today's request count against the daily limit.
// @Summary      Daily usage
// @Tags         Generation
// @Produce      json
// @Success      200  {object}  ratelimit.Usage
// @Router       /usage [get]
func (h *Handler) usage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.generation.Usage())
}

// respondGenerationError maps service errors to status codes. Provider
// failures are surfaced with their message.
func (h *Handler) respondGenerationError(w http.ResponseWriter, err error) {
	var vErr *speaking.ValidationError
	var failure *service.CallFailure

	switch {
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ratelimit.ErrLimitExceeded):
		respondError(w, http.StatusTooManyRequests, "daily limit reached, please try again tomorrow")
	case errors.Is(err, service.ErrUpstreamTimeout):
		respondError(w, http.StatusGatewayTimeout, "the model did not answer in time, please try again")
	case errors.Is(err, llm.ErrUnsupported):
		respondError(w, http.StatusNotImplemented, err.Error())
	case errors.As(err, &failure):
		respondError(w, http.StatusInternalServerError, failure.Error())
	default:
		h.logger.Error("generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
