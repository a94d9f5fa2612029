package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/personachat/personachat-go/internal/model"
)

var (
	ErrMissingAPIKey   = errors.New("missing OpenRouter API key")
	ErrUpstreamRequest = errors.New("upstream request failed")
	ErrUpstreamBody    = errors.New("invalid response from upstream")
)

const llmModel = "openai/gpt-3.5-turbo"

// systemPrompts maps a persona name to its system prompt. Unknown personas
// fall back to friendly.
var systemPrompts = map[string]string{
	"friendly":   "You are a friendly and helpful assistant. Speak casually and warmly.",
	"sarcastic":  "You're a sarcastic, witty assistant who never misses a chance to roast.",
	"dev":        "You are DevGPT, a skilled AI engineer who explains code precisely.",
	"translator": "You are a multilingual translator. Translate input accurately.",
}

// LLMService proxies prompts to the OpenRouter chat completions API.
type LLMService struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewLLMService creates a new LLMService with explicit connect and request
// timeouts on the upstream call.
func NewLLMService(apiKey, apiURL string) *LLMService {
	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt upstream with the persona's system prompt and
// returns the completion plus the round-trip duration in seconds.
func (s *LLMService) Generate(ctx context.Context, req model.PromptRequest) (model.PromptResponse, error) {
	if s.apiKey == "" {
		return model.PromptResponse{}, ErrMissingAPIKey
	}

	system, ok := systemPrompts[req.Persona]
	if !ok {
		system = systemPrompts["friendly"]
	}

	body, err := json.Marshal(completionRequest{
		Model: llmModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: req.Prompt},
		},
	})
	if err != nil {
		return model.PromptResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return model.PromptResponse{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return model.PromptResponse{}, fmt.Errorf("%w: %v", ErrUpstreamRequest, err)
	}
	defer resp.Body.Close()

	var result completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.PromptResponse{}, ErrUpstreamBody
	}
	if len(result.Choices) == 0 {
		return model.PromptResponse{}, ErrUpstreamBody
	}

	return model.PromptResponse{
		Response: strings.TrimSpace(result.Choices[0].Message.Content),
		Duration: time.Since(start).Seconds(),
	}, nil
}
