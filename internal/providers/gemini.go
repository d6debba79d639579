package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"deepresearch-backend/internal/models"
)

// geminiHistoryWindow is how many recent turns are flattened into the
// context block of the prompt.
const geminiHistoryWindow = 6

// Gemini is the primary adapter, backed by the hosted Gemini API. It renders
// history and prompt into a single flattened text prompt.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func (g *Gemini) Tag() string   { return models.SourcePrimary }
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Invoke(ctx context.Context, history []models.ChatMessage, prompt string, temperature float64, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(float32(temperature))
	model.SetMaxOutputTokens(int32(maxTokens))

	fullPrompt := BuildGeminiPrompt(history, prompt)

	resp, err := model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return "", &ProviderError{Provider: models.SourcePrimary, Err: fmt.Errorf("Gemini API error: %w", err)}
	}

	reply := extractText(resp)
	if strings.TrimSpace(reply) == "" {
		return "", &ProviderError{Provider: models.SourcePrimary, Err: fmt.Errorf("empty response from Gemini")}
	}

	return reply, nil
}

// BuildGeminiPrompt flattens recent history into "User:"/"Assistant:" lines
// followed by the new prompt. With no history the prompt is sent bare.
func BuildGeminiPrompt(history []models.ChatMessage, prompt string) string {
	if len(history) == 0 {
		return prompt
	}

	recent := history
	if len(recent) > geminiHistoryWindow {
		recent = recent[len(recent)-geminiHistoryWindow:]
	}

	lines := make([]string, 0, len(recent))
	for _, msg := range recent {
		role := "Assistant"
		if msg.Role == models.RoleUser {
			role = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, msg.Content))
	}

	return fmt.Sprintf("%s\n\nUser: %s", strings.Join(lines, "\n"), prompt)
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
