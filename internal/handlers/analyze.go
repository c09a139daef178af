package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/yuchialin/moodjar-backend/internal/models"
)

type AnalyzeRequest struct {
	Text string `json:"text"`
}

type AnalyzeResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Mood    models.Mood `json:"mood"`
	Advice  string      `json:"advice"`
}

// AnalyzeMood runs the external mood classifier over journal text and
// returns the normalized result. Nothing is persisted here; the client
// sends the result along with the entry on create.
func AnalyzeMood(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAuth(r); !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(strings.TrimSpace(req.Text)) < MinJournalTextLength {
		writeError(w, http.StatusBadRequest, "Text must be at least 10 characters")
		return
	}

	result, err := moodClassifier.Classify(r.Context(), req.Text)
	if err != nil {
		log.Printf("[AnalyzeMood] classifier failed: %v", err)
		writeError(w, http.StatusBadGateway, "Failed to analyze mood")
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Success: true,
		Mood:    result.Mood,
		Advice:  result.Advice,
	})
}
