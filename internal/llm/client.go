// internal/llm/client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// DefaultEndpoint is the hosted completion endpoint.
const DefaultEndpoint = "https://api.openai.com/v1/completions"

// Outcome classifies a completion attempt
type Outcome string

const (
	OutcomeAnswered      Outcome = "answered"
	OutcomeRateLimited   Outcome = "rate_limited"
	OutcomeProviderError Outcome = "provider_error"
)

// Fallback strings substituted for provider failures. Both are returned to
// the user verbatim.
const (
	OverloadedMessage   = "I am sorry, but the model is currently overloaded with other requests. Please try again."
	CannotAnswerMessage = "I am sorry, but I am unable to answer this question. I can only answer questions that can be answered using the content of Wikipedia. Please try to rephrase your question."
)

// Result is the outcome of one completion call. Callers decide what text
// to show via AnswerText; Complete itself never returns an error.
type Result struct {
	Outcome Outcome
	Text    string
}

// AnswerText returns the model's answer, or the fixed fallback message for
// the failure class
func (r *Result) AnswerText() string {
	switch r.Outcome {
	case OutcomeAnswered:
		return strings.TrimSpace(r.Text)
	case OutcomeRateLimited:
		return OverloadedMessage
	default:
		return CannotAnswerMessage
	}
}

// Client handles communication with the completion API
type Client struct {
	Endpoint   string
	APIKey     string
	Model      string
	MaxTokens  int
	BestOf     int
	HTTPClient *http.Client
}

// NewClient creates a completion client. The completion call carries no
// client-side timeout; bound it with the request context if needed.
func NewClient(endpoint, apiKey, model string, maxTokens, bestOf int) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = "text-davinci-003"
	}
	if maxTokens <= 0 {
		maxTokens = 600
	}
	if bestOf <= 0 {
		bestOf = 3
	}
	return &Client{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		Model:      model,
		MaxTokens:  maxTokens,
		BestOf:     bestOf,
		HTTPClient: &http.Client{},
	}
}

// Complete sends the prompt with fixed sampling parameters and classifies
// the outcome. Provider failures are logged and absorbed into the result.
func (c *Client) Complete(ctx context.Context, prompt string) *Result {
	payload := map[string]interface{}{
		"model":             c.Model,
		"prompt":            prompt,
		"temperature":       0,
		"max_tokens":        c.MaxTokens,
		"top_p":             1,
		"frequency_penalty": 0.0,
		"presence_penalty":  1,
		"best_of":           c.BestOf,
	}

	text, err := c.call(ctx, payload)
	if err != nil {
		log.Printf("[LLM] completion failed: %v", err)
		if isRateLimit(err) {
			return &Result{Outcome: OutcomeRateLimited}
		}
		return &Result{Outcome: OutcomeProviderError}
	}

	return &Result{Outcome: OutcomeAnswered, Text: text}
}

// statusError preserves the HTTP status for failure classification
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("completion API returned status %d: %s", e.code, e.body)
}

func isRateLimit(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.code == http.StatusTooManyRequests
}

// call performs the POST and extracts the first choice's text
func (c *Client) call(ctx context.Context, payload map[string]interface{}) (string, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &statusError{code: resp.StatusCode, body: string(body)}
	}

	var result struct {
		Choices []struct {
			Text string `json:"text"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from completion API")
	}

	return result.Choices[0].Text, nil
}
