// internal/api/router.go
package api

import "net/http"

// RegisterRoutes mounts every API endpoint on mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /ping", h.ping)
	mux.HandleFunc("POST /generate", h.generate)
	mux.HandleFunc("POST /generate-embedding", h.generateEmbedding)
	mux.HandleFunc("GET /usage", h.usage)

	mux.HandleFunc("GET /questions", h.listQuestions)
	mux.HandleFunc("POST /questions", h.addQuestion)
	mux.HandleFunc("GET /questions/stats", h.questionStats)
	mux.HandleFunc("GET /questions/{questionID}", h.getQuestion)
	mux.HandleFunc("DELETE /questions/{questionID}", h.deleteQuestion)
}
