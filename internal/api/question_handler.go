package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/ielts-speaking/backend/internal/domain/questionbank"
	"github.com/ielts-speaking/backend/internal/domain/speaking"
)

const (
	defaultSampleSize = 8
	maxSampleSize     = 50
)

// ── Request / Response types ────────────────────────────────────────────────

type AddQuestionRequest struct {
	Part  string `json:"part" example:"1"`
	Topic string `json:"topic,omitempty" example:"Hometown"`
	Text  string `json:"text" example:"Where is your hometown?"`
}

func (r *AddQuestionRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text is required")
	}
	if _, err := speaking.ParsePart(r.Part); err != nil {
		return err
	}
	return nil
}

type QuestionResponse struct {
	ID    string `json:"id" example:"q_3k9x0a1b2c3d4e5f"`
	Part  int    `json:"part" example:"1"`
	Topic string `json:"topic" example:"Hometown"`
	Text  string `json:"text" example:"Where is your hometown?"`
}

// QuestionListResponse carries the sampled question texts alongside
// their full records.
type QuestionListResponse struct {
	Part      int                `json:"part" example:"1"`
	Questions []string           `json:"questions"`
	Items     []QuestionResponse `json:"items"`
}

// QuestionStatsResponse counts the bank per part.
type QuestionStatsResponse struct {
	Total  int            `json:"total" example:"30"`
	ByPart map[string]int `json:"by_part"`
}

func toQuestionResponse(q questionbank.Question) QuestionResponse {
	return QuestionResponse{
		ID:    q.ID,
		Part:  int(q.Part),
		Topic: q.Topic,
		Text:  q.Text,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listQuestions returns a random sample of practice questions for a part.
// @Summary      Sample practice questions
// @Tags         Questions
// @Produce      json
// @Param        part   query     string  true   "Speaking part (1, 2 or 3)"
// @Param        limit  query     int     false  "Sample size (default 8, max 50)"
// @Success      200    {object}  QuestionListResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      500    {object}  ErrorResponse
// @Router       /questions [get]
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	part, err := speaking.ParsePart(r.URL.Query().Get("part"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := defaultSampleSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxSampleSize {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = n
	}

	questions, err := h.store.SampleQuestions(r.Context(), part, limit)
	if h.handleStoreError(w, err, "questions") {
		return
	}

	respondJSON(w, http.StatusOK, QuestionListResponse{
		Part: int(part),
		Questions: lo.Map(questions, func(q questionbank.Question, _ int) string {
			return q.Text
		}),
		Items: lo.Map(questions, func(q questionbank.Question, _ int) QuestionResponse {
			return toQuestionResponse(q)
		}),
	})
}

// addQuestion stores a new practice question.
// @Summary      Add a practice question
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        body  body      AddQuestionRequest  true  "Question to add"
// @Success      201   {object}  QuestionResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse  "question already exists"
// @Failure      500   {object}  ErrorResponse
// @Router       /questions [post]
func (h *Handler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var req AddQuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	part, _ := speaking.ParsePart(req.Part)
	q, err := questionbank.NewQuestion(part, req.Topic, req.Text)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.handleStoreError(w, h.store.SaveQuestion(r.Context(), q), "question") {
		return
	}

	respondJSON(w, http.StatusCreated, toQuestionResponse(*q))
}

// getQuestion returns one practice question.
// @Summary      Get a practice question
// @Tags         Questions
// @Produce      json
// @Param        questionID  path      string  true  "Question ID"
// @Success      200         {object}  QuestionResponse
// @Failure      404         {object}  ErrorResponse
// @Failure      500         {object}  ErrorResponse
// @Router       /questions/{questionID} [get]
func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.store.GetQuestion(r.Context(), r.PathValue("questionID"))
	if h.handleStoreError(w, err, "question") {
		return
	}

	respondJSON(w, http.StatusOK, toQuestionResponse(*q))
}

// questionStats reports how many questions the bank holds per part.
// @Summary      Question bank size
// @Tags         Questions
// @Produce      json
// @Success      200  {object}  QuestionStatsResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /questions/stats [get]
func (h *Handler) questionStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.CountByPart(r.Context())
	if h.handleStoreError(w, err, "questions") {
		return
	}

	resp := QuestionStatsResponse{ByPart: make(map[string]int, len(counts))}
	for part, n := range counts {
		resp.ByPart[part.String()] = n
		resp.Total += n
	}
	respondJSON(w, http.StatusOK, resp)
}

// deleteQuestion removes a practice question.
// @Summary      Delete a practice question
// @Tags         Questions
// @Param        questionID  path  string  true  "Question ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /questions/{questionID} [delete]
func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("questionID")

	if h.handleStoreError(w, h.store.DeleteQuestion(r.Context(), questionID), "question") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
