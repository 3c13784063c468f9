package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/MikeSquared-Agency/usher/internal/chat"
)

// ChatRequest is one turn from the widget. LeadID is the identity the client
// holds from earlier turns; null until a lead has been created.
type ChatRequest struct {
	SessionID string         `json:"session_id"`
	Messages  []chat.Message `json:"messages"`
	LeadID    *string        `json:"lead_id"`
}

// ChatResponse carries the assistant reply and whatever lead id the turn
// settled on (null while no contact info has appeared).
type ChatResponse struct {
	Reply  string  `json:"reply"`
	LeadID *string `json:"lead_id"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}

	priorLeadID := ""
	if req.LeadID != nil {
		priorLeadID = *req.LeadID
	}

	result, err := s.proc.HandleTurn(r.Context(), req.SessionID, req.Messages, priorLeadID)
	if err != nil {
		slog.Error("turn failed", "session_id", req.SessionID, "error", err)
		writeError(w, http.StatusBadGateway, "reply generation failed")
		return
	}

	resp := ChatResponse{Reply: result.Reply}
	if result.LeadID != "" {
		resp.LeadID = &result.LeadID
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
