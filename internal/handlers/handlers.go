package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/yuchialin/moodjar-backend/internal/services"
)

// Package-level collaborators, wired once from main before the router
// starts serving. Tests swap in fakes.
var (
	journalStore   services.JournalStore
	monthsCache    *services.MonthIndexCache
	moodClassifier *services.Classifier
)

// Init wires the handler package's collaborators.
func Init(store services.JournalStore, cache *services.MonthIndexCache, classifier *services.Classifier) {
	journalStore = store
	monthsCache = cache
	moodClassifier = classifier
}

// extractBearerToken pulls the token out of an "Authorization: Bearer x" header.
func extractBearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// requireAuth validates the session token and returns the authenticated
// user's ID. Returns ("", false) if not authenticated.
func requireAuth(r *http.Request) (string, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return "", false
	}
	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		return "", false
	}
	return userID.String(), true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

const requestTimeout = 5 * time.Second
