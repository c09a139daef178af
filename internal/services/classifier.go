package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yuchialin/moodjar-backend/internal/models"
)

// DefaultAdvice is used when the classifier returns no advice text.
const DefaultAdvice = "Take a slow breath and choose one small next step."

// MoodResult is a normalized classification: a canonical label, a score
// clamped to 1-5, and a short piece of advice.
type MoodResult struct {
	Mood   models.Mood `json:"mood"`
	Advice string      `json:"advice"`
}

// Classifier calls an OpenAI-compatible chat-completions endpoint and
// parses the strict-JSON mood payload out of the reply. The upstream is
// treated as opaque: out-of-enum labels and out-of-range scores are
// normalized, never surfaced as errors.
type Classifier struct {
	URL    string
	APIKey string
	Model  string
	Client *http.Client
}

func NewClassifier(url, apiKey, model string) *Classifier {
	return &Classifier{
		URL:    url,
		APIKey: apiKey,
		Model:  model,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify analyzes journal text and returns a normalized mood result.
func (c *Classifier) Classify(ctx context.Context, text string) (MoodResult, error) {
	prompt := fmt.Sprintf(`Return ONLY a JSON object with this exact shape:
{
  "mood": { "label": "<one of: %s>", "score": <1-5 number> },
  "advice": "<<= 80 words, concrete, non-clinical>"
}
Journal:
"""%s"""`, strings.Join(models.MoodLabels, ", "), text)

	reqBody := chatRequest{
		Model:       c.Model,
		Temperature: 0.6,
		Messages: []chatMessage{
			{Role: "system", Content: "Return strict JSON only. No markdown, no extra text."},
			{Role: "user", Content: prompt},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return MoodResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return MoodResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return MoodResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return MoodResult{}, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return MoodResult{}, err
	}
	if len(chat.Choices) == 0 {
		return MoodResult{}, fmt.Errorf("classifier returned no choices")
	}

	var parsed struct {
		Mood struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		} `json:"mood"`
		Advice string `json:"advice"`
	}
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &parsed); err != nil {
		return MoodResult{}, fmt.Errorf("classifier returned malformed JSON: %w", err)
	}

	return NormalizeMoodResult(parsed.Mood.Label, parsed.Mood.Score, parsed.Advice), nil
}

// NormalizeMoodResult clamps a raw classifier reply into the canonical
// shape: unknown labels become "neutral", scores clamp to [1,5] (zero or
// missing becomes 3), empty advice gets the default line.
func NormalizeMoodResult(label string, score float64, advice string) MoodResult {
	normalized := "neutral"
	for _, allowed := range models.MoodLabels {
		if label == allowed {
			normalized = label
			break
		}
	}

	s := int(score)
	if score == 0 {
		s = 3
	}
	if s < 1 {
		s = 1
	}
	if s > 5 {
		s = 5
	}

	if strings.TrimSpace(advice) == "" {
		advice = DefaultAdvice
	}

	return MoodResult{
		Mood:   models.Mood{Label: normalized, Score: s},
		Advice: advice,
	}
}
