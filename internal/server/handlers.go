package server

import (
	"encoding/json"
	"io"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	welcomeMessage = "Welcome to Yojana Dost backend API!"
	maxBodyBytes   = 64 << 10
)

// ChatRequest is the body of a chat request
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the body of every chat reply
type ChatResponse struct {
	Response string `json:"response"`
}

// chat answers POST / and POST /api/chat. A missing or malformed body is
// treated as an empty query, so the reply is always 200.
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.logger.Debug().Err(err).Msg("Malformed chat body")
			req = ChatRequest{}
		}
	}

	res := s.engine.Respond(r.Context(), req.Message)

	s.logger.Info().
		Str("request_id", chimiddleware.GetReqID(r.Context())).
		Str("path", string(res.Path)).
		Int("matches", res.Matches).
		Str("category", res.Category).
		Msg("Query answered")

	writeJSON(w, http.StatusOK, ChatResponse{Response: res.Text})
}

func (s *Server) welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"schemes": s.engine.SchemeCount(),
	})
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"categories": s.engine.Categories()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
