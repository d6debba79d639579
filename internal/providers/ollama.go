package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"deepresearch-backend/internal/models"
)

// ollamaHistoryWindow is how many recent turns are included in the message
// list sent to Ollama.
const ollamaHistoryWindow = 8

// probeTimeout bounds the /api/tags reachability check used by the health
// endpoint, independent of the chat timeout.
const probeTimeout = 2500 * time.Millisecond

// ollamaChatRequest is the request body for the Ollama chat API.
type ollamaChatRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
	Options  ollamaOptions        `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

// ollamaChatResponse covers both the chat shape (message.content) and the
// legacy generate shape (response).
type ollamaChatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Ollama is the secondary adapter, backed by a local Ollama instance. Its
// timeout is short and independent of the primary's: a local fallback should
// answer fast or not at all.
type Ollama struct {
	host   string
	model  string
	client *http.Client
}

func NewOllama(host, model string, timeout time.Duration) *Ollama {
	return &Ollama{
		host:   strings.TrimSuffix(host, "/"),
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

func (o *Ollama) Tag() string   { return models.SourceSecondary }
func (o *Ollama) Model() string { return o.model }

func (o *Ollama) Invoke(ctx context.Context, history []models.ChatMessage, prompt string, temperature float64, maxTokens int) (string, error) {
	reqBody := ollamaChatRequest{
		Model:    o.model,
		Messages: BuildOllamaMessages(history, prompt),
		Stream:   false,
		Options: ollamaOptions{
			Temperature: temperature,
			NumPredict:  maxTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ProviderError{Provider: models.SourceSecondary, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &ProviderError{Provider: models.SourceSecondary, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: models.SourceSecondary, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: models.SourceSecondary, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{Provider: models.SourceSecondary, Err: fmt.Errorf("API error: %s - %s", resp.Status, string(body))}
	}

	var apiResp ollamaChatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", &ProviderError{Provider: models.SourceSecondary, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}

	reply := apiResp.Message.Content
	if reply == "" {
		reply = apiResp.Response
	}
	if strings.TrimSpace(reply) == "" {
		return "", &ProviderError{Provider: models.SourceSecondary, Err: fmt.Errorf("empty response from Ollama")}
	}

	return reply, nil
}

// BuildOllamaMessages assembles the structured message list: the most recent
// history turns followed by the new user turn.
func BuildOllamaMessages(history []models.ChatMessage, prompt string) []models.ChatMessage {
	recent := history
	if len(recent) > ollamaHistoryWindow {
		recent = recent[len(recent)-ollamaHistoryWindow:]
	}

	messages := make([]models.ChatMessage, 0, len(recent)+1)
	messages = append(messages, recent...)
	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: prompt})
	return messages
}

// Probe checks whether the Ollama instance is reachable and returns the
// names of its installed models.
func (o *Ollama) Probe(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.host+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request (is Ollama running?): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: %s", resp.Status)
	}

	var tagsResp ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tagsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	names := make([]string, 0, len(tagsResp.Models))
	for _, m := range tagsResp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
