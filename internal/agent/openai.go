package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/raysh454/sitecheck/internal/logging"
	"github.com/raysh454/sitecheck/internal/webclient"
)

// DefaultBaseURL is the OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// maxErrorBodyLen bounds how much of an API error body lands in logs.
const maxErrorBodyLen = 512

// OpenAIAgent talks to the OpenAI chat-completions API over a webclient.
// The system instructions are fixed at construction; every Assess call
// sends one user message.
type OpenAIAgent struct {
	client       webclient.WebClient
	baseURL      string
	apiKey       string
	model        string
	instructions string
	logger       logging.Logger
}

// NewOpenAIAgent builds an agent. apiKey must be non-empty; model and
// baseURL fall back to defaults when empty.
func NewOpenAIAgent(client webclient.WebClient, apiKey, model, baseURL, instructions string, logger logging.Logger) (*OpenAIAgent, error) {
	if client == nil {
		return nil, errors.New("agent: nil webclient")
	}
	if apiKey == "" {
		return nil, errors.New("agent: empty API key")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenAIAgent{
		client:       client,
		baseURL:      baseURL,
		apiKey:       apiKey,
		model:        model,
		instructions: instructions,
		logger:       logging.OrNop(logger).With(logging.Field{Key: "component", Value: "openai-agent"}),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Assess sends the prompt and returns the first choice's text.
func (a *OpenAIAgent) Assess(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: a.instructions},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", &AssessmentError{Provider: "openai", Err: err}
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+a.apiKey)
	headers.Set("Content-Type", "application/json")

	a.logger.Debug("requesting assessment", logging.Field{Key: "model", Value: a.model})

	resp, err := a.client.Do(ctx, &webclient.Request{
		Method:  http.MethodPost,
		URL:     a.baseURL + "/chat/completions",
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		return "", &AssessmentError{Provider: "openai", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		body := string(resp.Body)
		if len(body) > maxErrorBodyLen {
			body = body[:maxErrorBodyLen]
		}
		a.logger.Warn("assessment request rejected",
			logging.Field{Key: "status", Value: resp.StatusCode},
			logging.Field{Key: "body", Value: body})
		return "", &AssessmentError{
			Provider: "openai",
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var decoded chatResponse
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return "", &AssessmentError{Provider: "openai", Err: fmt.Errorf("decoding response: %w", err)}
	}
	if decoded.Error != nil {
		return "", &AssessmentError{Provider: "openai", Err: errors.New(decoded.Error.Message)}
	}
	if len(decoded.Choices) == 0 {
		return "", &AssessmentError{Provider: "openai", Err: errors.New("no choices in response")}
	}

	return decoded.Choices[0].Message.Content, nil
}
