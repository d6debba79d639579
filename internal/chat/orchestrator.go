// Package chat runs the provider cascade for one inbound request: primary,
// then secondary, then the canned fallback, which cannot fail.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"deepresearch-backend/internal/fallback"
	"deepresearch-backend/internal/models"
	"deepresearch-backend/internal/providers"
	"deepresearch-backend/internal/store"
)

const fallbackNote = "No AI backend available. Set GEMINI_API_KEY environment variable for intelligent responses."

// Orchestrator tries providers in priority order and persists the updated
// session history on success. Provider failures only advance the cascade;
// they never surface to the caller.
type Orchestrator struct {
	providers []providers.Provider
	responder *fallback.Responder
	store     store.SessionStore
	logger    *slog.Logger
	tracer    trace.Tracer
	responses metric.Int64Counter
	latency   metric.Float64Histogram
}

func NewOrchestrator(
	provs []providers.Provider,
	responder *fallback.Responder,
	sessionStore store.SessionStore,
	logger *slog.Logger,
	tracer trace.Tracer,
	meter metric.Meter,
) *Orchestrator {
	responses, _ := meter.Int64Counter(
		"chat.responses",
		metric.WithDescription("Chat responses by cascade source"),
	)
	latency, _ := meter.Float64Histogram(
		"chat.provider.duration",
		metric.WithDescription("Provider call duration in milliseconds"),
	)

	return &Orchestrator{
		providers: provs,
		responder: responder,
		store:     sessionStore,
		logger:    logger,
		tracer:    tracer,
		responses: responses,
		latency:   latency,
	}
}

// Chat handles one request end to end. The only errors it returns are
// unexpected internal ones (store failures, malformed orchestration input);
// every provider failure is absorbed by the cascade.
func (o *Orchestrator) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	prompt := req.Prompt
	var history []models.ChatMessage

	if prompt == "" {
		// Messages-only request: the last message is the prompt, the
		// preceding ones act as request-scoped history.
		if len(req.Messages) == 0 {
			return nil, fmt.Errorf("request has neither prompt nor messages")
		}
		prompt = req.Messages[len(req.Messages)-1].Content
		history = req.Messages[:len(req.Messages)-1]
	} else {
		stored, err := o.store.Get(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load session history: %w", err)
		}
		history = stored
	}

	temperature := req.ResolvedTemperature()
	maxTokens := req.ResolvedMaxTokens()

	userTurn := models.ChatMessage{Role: models.RoleUser, Content: prompt}

	for _, p := range o.providers {
		o.logger.Info("trying provider", "provider", p.Tag(), "model", p.Model(), "session", sessionID)

		reply, err := o.attempt(ctx, p, history, prompt, temperature, maxTokens)
		if err != nil {
			o.logger.Warn("provider failed, advancing cascade", "provider", p.Tag(), "error", err)
			continue
		}

		assistantTurn := models.ChatMessage{Role: models.RoleAssistant, Content: reply}

		if p.Tag() == models.SourceSecondary {
			// The secondary path stores the message list it actually
			// sent, plus the reply.
			sent := providers.BuildOllamaMessages(history, prompt)
			if err := o.store.Replace(ctx, sessionID, append(sent, assistantTurn)); err != nil {
				return nil, fmt.Errorf("failed to store session history: %w", err)
			}
		} else {
			if err := o.store.Append(ctx, sessionID, userTurn, assistantTurn); err != nil {
				return nil, fmt.Errorf("failed to store session history: %w", err)
			}
		}

		o.logger.Info("response generated", "provider", p.Tag(), "session", sessionID)
		o.count(ctx, p.Tag())

		return &models.ChatResponse{
			SessionID: sessionID,
			Reply:     reply,
			Source:    p.Tag(),
			Model:     p.Model(),
		}, nil
	}

	// Terminal stage: canned reply. The stored history is reset to just
	// this exchange, since no model-backed continuity exists anyway.
	o.logger.Info("using fallback responses", "session", sessionID)
	reply := o.responder.Respond(prompt)

	pair := []models.ChatMessage{userTurn, {Role: models.RoleAssistant, Content: reply}}
	if err := o.store.Replace(ctx, sessionID, pair); err != nil {
		return nil, fmt.Errorf("failed to store session history: %w", err)
	}

	o.count(ctx, models.SourceFallback)

	return &models.ChatResponse{
		SessionID: sessionID,
		Reply:     reply,
		Source:    models.SourceFallback,
		Note:      fallbackNote,
	}, nil
}

func (o *Orchestrator) attempt(ctx context.Context, p providers.Provider, history []models.ChatMessage, prompt string, temperature float64, maxTokens int) (string, error) {
	ctx, span := o.tracer.Start(ctx, p.Tag()+"_provider_call")
	defer span.End()

	start := time.Now()
	reply, err := p.Invoke(ctx, history, prompt, temperature, maxTokens)
	if o.latency != nil {
		o.latency.Record(ctx, float64(time.Since(start).Milliseconds()),
			metric.WithAttributes(attribute.String("provider", p.Tag())))
	}
	return reply, err
}

func (o *Orchestrator) count(ctx context.Context, source string) {
	if o.responses != nil {
		o.responses.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
	}
}
