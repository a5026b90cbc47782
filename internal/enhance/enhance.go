// Package enhance sends mapped contact records to an LLM for a cleanup
// pass (typo fixes, casing, phone formats). The call is strictly
// best-effort: any failure hands back the records that went in.
package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/contactsheet/formatter/internal/contact"
)

const defaultBaseURL = "https://api.openai.com/v1"

const systemPrompt = `You clean up contact spreadsheet data. You receive a JSON object
{"contacts": [...]} and return a JSON object of the same shape with the
same number of contacts in the same order. Fix obvious typos, normalize
capitalization of names and cities, and format phone numbers
consistently. Never invent data, never drop a contact, never change a
field you are not confident about. Respond with valid JSON only.`

// Options configures the cleanup client.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client calls the OpenAI chat-completions API to clean up a mapped
// dataset. A Client with no API key is valid and reports Enabled false.
type Client struct {
	opts       Options
	httpClient *http.Client
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Client{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool {
	return c.opts.APIKey != ""
}

// Enhance returns a cleaned copy of records and true, or the input
// unchanged and false when the client is disabled or anything about the
// call fails. Callers never need to guard this with their own recover.
func (c *Client) Enhance(ctx context.Context, records []contact.Record) ([]contact.Record, bool) {
	if !c.Enabled() {
		return records, false
	}
	if len(records) == 0 {
		return records, false
	}

	cleaned, err := c.enhanceOnce(ctx, records)
	if err != nil {
		slog.Warn("enhancement failed, keeping mapped records",
			"error", err,
			"records", len(records))
		return records, false
	}

	slog.Info("enhancement applied", "records", len(cleaned))
	return cleaned, true
}

type envelope struct {
	Contacts []contact.Record `json:"contacts"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string          `json:"model"`
	Messages            []chatMessage   `json:"messages"`
	Temperature         float64         `json:"temperature,omitempty"`
	MaxCompletionTokens int             `json:"max_completion_tokens,omitempty"`
	ResponseFormat      *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) enhanceOnce(ctx context.Context, records []contact.Record) ([]contact.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	payload, err := json.Marshal(envelope{Contacts: records})
	if err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}

	reqBody := chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(payload)},
		},
		Temperature:         c.opts.Temperature,
		MaxCompletionTokens: c.opts.MaxTokens,
		ResponseFormat:      &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call completions: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completions status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	content := scrubContent(chat.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("empty completion content")
	}

	var result envelope
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("decode cleaned dataset: %w", err)
	}
	if len(result.Contacts) != len(records) {
		return nil, fmt.Errorf("cleaned dataset has %d records, want %d", len(result.Contacts), len(records))
	}

	// The model does not get to invent stages.
	for i := range result.Contacts {
		result.Contacts[i].BorrowerStage = contact.ValidateStage(string(result.Contacts[i].BorrowerStage))
	}
	return result.Contacts, nil
}

// scrubContent strips markdown fences and conversational preamble that
// models sometimes wrap around JSON output.
func scrubContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	// Chatter before the first brace, e.g. "Here is the cleaned data:".
	if !strings.HasPrefix(content, "{") {
		if i := strings.Index(content, "{"); i > 0 {
			content = content[i:]
		}
	}
	return content
}
