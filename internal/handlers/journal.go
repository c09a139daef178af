package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yuchialin/moodjar-backend/internal/models"
	"github.com/yuchialin/moodjar-backend/internal/services"
)

// MinJournalTextLength is the minimum trimmed length of an entry's text.
const MinJournalTextLength = 10

type CreateJournalRequest struct {
	Text      string       `json:"text"`
	Mood      *models.Mood `json:"mood,omitempty"`
	Advice    string       `json:"advice,omitempty"`
	DateKey   string       `json:"date_key,omitempty"`
	CreatedAt *int64       `json:"created_at,omitempty"`
}

type CreateJournalResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	DateKey string `json:"date_key,omitempty"`
}

type GetJournalsResponse struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Journals   []models.Journal  `json:"journals"`
	Pagination models.Pagination `json:"pagination"`
}

type GetMonthsResponse struct {
	Success bool     `json:"success"`
	Months  []string `json:"months"`
}

// GetJournals lists entries for the authenticated user.
// Query params:
//
//	mode=months       return the month index instead of rows
//	month=YYYY-MM     restrict to one calendar month
//	page, limit       pagination (limit clamped to 1-100)
func GetJournals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if r.URL.Query().Get("mode") == "months" {
		getMonths(ctx, w, userID)
		return
	}

	opts := services.ListOptions{
		Month: r.URL.Query().Get("month"),
	}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil {
			opts.Page = parsed
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			opts.Limit = parsed
		}
	}

	result, err := services.ListJournals(ctx, journalStore, userID, opts)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMonth) {
			writeError(w, http.StatusBadRequest, "Invalid month filter")
			return
		}
		log.Printf("[GetJournals] list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load journals")
		return
	}

	writeJSON(w, http.StatusOK, GetJournalsResponse{
		Success:    true,
		Journals:   result.Rows,
		Pagination: result.Pagination,
	})
}

func getMonths(ctx context.Context, w http.ResponseWriter, userID string) {
	if months, hit := monthsCache.Get(ctx, userID); hit {
		writeJSON(w, http.StatusOK, GetMonthsResponse{Success: true, Months: months})
		return
	}

	months, err := services.ListMonths(ctx, journalStore, userID, services.DefaultMonthScanCap)
	if err != nil {
		log.Printf("[GetJournals] month index failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load months")
		return
	}
	if months == nil {
		months = []string{}
	}

	monthsCache.Set(ctx, userID, months)

	writeJSON(w, http.StatusOK, GetMonthsResponse{Success: true, Months: months})
}

// CreateJournal stores a new entry for the authenticated user.
// Text must be at least 10 characters after trimming. The date key is
// derived once here: explicit date_key wins over explicit created_at,
// which wins over the server clock.
func CreateJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(strings.TrimSpace(req.Text)) < MinJournalTextLength {
		writeError(w, http.StatusBadRequest, "Text must be at least 10 characters")
		return
	}

	createdAt, dateKey, err := services.ResolveDateKey(req.DateKey, req.CreatedAt, time.Now)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDateKey):
			writeError(w, http.StatusBadRequest, "Invalid date key")
		case errors.Is(err, services.ErrInvalidTimestamp):
			writeError(w, http.StatusBadRequest, "Invalid timestamp")
		default:
			writeError(w, http.StatusBadRequest, "Invalid date")
		}
		return
	}

	if req.Mood != nil {
		normalized := services.NormalizeMoodResult(req.Mood.Label, float64(req.Mood.Score), req.Advice)
		req.Mood = &normalized.Mood
		req.Advice = normalized.Advice
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry := models.Journal{
		OwnerID:   userID,
		Text:      req.Text,
		Mood:      req.Mood,
		Advice:    req.Advice,
		CreatedAt: createdAt,
		DateKey:   dateKey,
	}

	id, err := journalStore.Insert(ctx, entry)
	if err != nil {
		log.Printf("[CreateJournal] insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create journal entry")
		return
	}

	monthsCache.Invalidate(ctx, userID)

	writeJSON(w, http.StatusCreated, CreateJournalResponse{
		Success: true,
		Message: "Journal created successfully",
		ID:      id,
		DateKey: dateKey,
	})
}

// DeleteJournal removes one of the authenticated user's entries by id.
func DeleteJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := journalStore.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Journal not found")
			return
		}
		log.Printf("[DeleteJournal] delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete journal entry")
		return
	}

	monthsCache.Invalidate(ctx, userID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Journal deleted",
	})
}
