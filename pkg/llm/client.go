package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rmcastle/fieldops/pkg/logger"
)

const (
	defaultBaseURL      = "https://api.anthropic.com/v1/messages"
	defaultFastModel    = "claude-3-haiku-20240307"
	defaultCapableModel = "claude-3-sonnet-20240229"
	defaultMaxTokens    = 1024
)

// Tier selects which model answers a completion request. The fast tier is
// cheap with a short timeout; the capable tier is used as escalation.
type Tier int

const (
	TierFast Tier = iota
	TierCapable
)

// Message is one chat message sent to the model
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a completion request
type Request struct {
	System    string
	Messages  []Message
	MaxTokens int
}

// Completer is the completion interface consumed by the NLU pipeline.
// Tests substitute a fake; Client is the production implementation.
type Completer interface {
	Complete(ctx context.Context, tier Tier, req Request) (string, error)
}

// Client calls a messages-style language model API over HTTP
type Client struct {
	apiKey         string
	baseURL        string
	fastModel      string
	capableModel   string
	fastTimeout    time.Duration
	capableTimeout time.Duration
	httpClient     *http.Client
	logger         logger.Logger
}

// NewClientFromEnv creates a Client from environment configuration
func NewClientFromEnv(log logger.Logger) (*Client, error) {
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY not found in environment")
	}

	return &Client{
		apiKey:         apiKey,
		baseURL:        getEnv("LLM_BASE_URL", defaultBaseURL),
		fastModel:      getEnv("LLM_FAST_MODEL", defaultFastModel),
		capableModel:   getEnv("LLM_CAPABLE_MODEL", defaultCapableModel),
		fastTimeout:    getEnvSeconds("LLM_FAST_TIMEOUT_SECONDS", 15),
		capableTimeout: getEnvSeconds("LLM_CAPABLE_TIMEOUT_SECONDS", 45),
		httpClient:     &http.Client{},
		logger:         log,
	}, nil
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
	System    string    `json:"system,omitempty"`
}

type messageResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete sends the request to the tier's model and returns the text of
// the response. Transport failures, non-2xx statuses and empty responses
// are returned as errors; callers decide escalation policy.
func (c *Client) Complete(ctx context.Context, tier Tier, req Request) (string, error) {
	model := c.fastModel
	timeout := c.fastTimeout
	if tier == TierCapable {
		model = c.capableModel
		timeout = c.capableTimeout
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  req.Messages,
		System:    req.System,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error serializing model request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, "POST", c.baseURL, bytes.NewBuffer(reqJSON))
	if err != nil {
		return "", fmt.Errorf("error creating model request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug("sending model request to %s with %d message(s)", model, len(req.Messages))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("error calling model API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading model response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("model API returned %s: %s", resp.Status, string(respBody))
		return "", fmt.Errorf("model API error (status %d)", resp.StatusCode)
	}

	var apiResp messageResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("error decoding model response: %w", err)
	}

	response := ""
	for _, content := range apiResp.Content {
		if content.Type == "text" {
			response += content.Text
		}
	}

	if response == "" {
		return "", fmt.Errorf("model returned an empty response")
	}

	c.logger.Info("model %s answered: %d in / %d out tokens, stop=%s",
		apiResp.Model, apiResp.Usage.InputTokens, apiResp.Usage.OutputTokens, apiResp.StopReason)

	return response, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal) * time.Second
		}
	}
	return time.Duration(defaultValue) * time.Second
}
