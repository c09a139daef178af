// Package client is the Go client library for the MoodJar backend: an
// HTTP API client fronted by a token cache, and a load coordinator that
// sequences the journal view's fetches.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Mood mirrors the server's classification payload.
type Mood struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// Journal is one entry as returned by the server.
type Journal struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Mood      *Mood  `json:"mood,omitempty"`
	Advice    string `json:"advice"`
	CreatedAt int64  `json:"created_at"`
	DateKey   string `json:"date_key"`
}

// Pagination describes a page's position within the full match set.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ListPage is one page of rows plus pagination metadata.
type ListPage struct {
	Rows       []Journal
	Pagination Pagination
}

// AnalyzeResult is a mood classification for a piece of text.
type AnalyzeResult struct {
	Mood   Mood   `json:"mood"`
	Advice string `json:"advice"`
}

// CreateJournalInput is the payload for creating an entry.
type CreateJournalInput struct {
	Text      string `json:"text"`
	Mood      *Mood  `json:"mood,omitempty"`
	Advice    string `json:"advice,omitempty"`
	DateKey   string `json:"date_key,omitempty"`
	CreatedAt *int64 `json:"created_at,omitempty"`
}

// Client talks to the MoodJar backend. Every request carries a bearer
// token from the token cache when one is available; without a token the
// request goes out unauthenticated and the server rejects it uniformly.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     *TokenCache
}

func New(baseURL string, tokens *TokenCache) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Tokens:     tokens,
	}
}

type apiEnvelope struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	Months     []string   `json:"months"`
	Journals   []Journal  `json:"journals"`
	Pagination Pagination `json:"pagination"`
	ID         string     `json:"id"`
	DateKey    string     `json:"date_key"`
	Mood       Mood       `json:"mood"`
	Advice     string     `json:"advice"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*apiEnvelope, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Tokens != nil {
		if token := c.Tokens.GetToken(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("%s %s: %s", method, path, msg)
	}
	return &env, nil
}

// ListMonths fetches the month index, newest month first.
func (c *Client) ListMonths(ctx context.Context) ([]string, error) {
	query := url.Values{"mode": {"months"}}
	env, err := c.do(ctx, http.MethodGet, "/api/journals", query, nil)
	if err != nil {
		return nil, err
	}
	return env.Months, nil
}

// List fetches one page of entries, optionally filtered to one month.
func (c *Client) List(ctx context.Context, month string, page, limit int) (ListPage, error) {
	query := url.Values{}
	if month != "" {
		query.Set("month", month)
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	env, err := c.do(ctx, http.MethodGet, "/api/journals", query, nil)
	if err != nil {
		return ListPage{}, err
	}
	return ListPage{Rows: env.Journals, Pagination: env.Pagination}, nil
}

// Create stores a new entry and returns its id.
func (c *Client) Create(ctx context.Context, input CreateJournalInput) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/journals", nil, input)
	if err != nil {
		return "", err
	}
	return env.ID, nil
}

// Delete removes an entry by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	query := url.Values{"id": {id}}
	_, err := c.do(ctx, http.MethodDelete, "/api/journals", query, nil)
	return err
}

// Analyze classifies journal text without persisting anything.
func (c *Client) Analyze(ctx context.Context, text string) (AnalyzeResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/analyze", nil, map[string]string{"text": text})
	if err != nil {
		return AnalyzeResult{}, err
	}
	return AnalyzeResult{Mood: env.Mood, Advice: env.Advice}, nil
}
