package handlers

import (
	"net/http"
	"time"

	"deepresearch-backend/internal/models"
	"deepresearch-backend/internal/providers"
)

type providerHealth struct {
	Available bool     `json:"available"`
	Model     string   `json:"model,omitempty"`
	Priority  int      `json:"priority,omitempty"`
	Models    []string `json:"models,omitempty"`
	Message   string   `json:"message,omitempty"`
}

type aiHealth struct {
	Primary   *providerHealth `json:"primary,omitempty"`
	Secondary *providerHealth `json:"secondary,omitempty"`
	Active    string          `json:"active"`
	Warning   string          `json:"warning,omitempty"`
}

type healthResponse struct {
	OK        bool     `json:"ok"`
	Timestamp string   `json:"timestamp"`
	Uptime    float64  `json:"uptime"`
	AI        aiHealth `json:"ai"`
}

type HealthHandler struct {
	primaryModel string // empty when the primary is not configured
	ollama       *providers.Ollama
	startTime    time.Time
}

func NewHealthHandler(primaryModel string, ollama *providers.Ollama, startTime time.Time) *HealthHandler {
	return &HealthHandler{
		primaryModel: primaryModel,
		ollama:       ollama,
		startTime:    startTime,
	}
}

// Check handles GET /health: provider availability plus which cascade tier
// is currently active.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		OK:        true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Seconds(),
	}

	if h.primaryModel != "" {
		resp.AI.Primary = &providerHealth{
			Available: true,
			Model:     h.primaryModel,
			Priority:  1,
		}
	}

	// Reachability probe against the local provider, on its own short
	// timeout so a dead Ollama never stalls the health check.
	installed, err := h.ollama.Probe(r.Context())
	if err != nil {
		resp.AI.Secondary = &providerHealth{
			Available: false,
			Message:   "Ollama not running (optional)",
		}
	} else {
		resp.AI.Secondary = &providerHealth{
			Available: true,
			Model:     h.ollama.Model(),
			Priority:  2,
			Models:    installed,
		}
	}

	switch {
	case resp.AI.Primary != nil:
		resp.AI.Active = models.SourcePrimary
	case resp.AI.Secondary.Available:
		resp.AI.Active = models.SourceSecondary
	default:
		resp.AI.Active = models.SourceFallback
		resp.AI.Warning = "No AI backend configured. Set GEMINI_API_KEY for intelligent responses."
	}

	writeJSON(w, http.StatusOK, resp)
}

// Root handles GET /, a minimal banner endpoint.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"name":   "DeepResearchAssistant backend",
		"uptime": time.Since(h.startTime).Seconds(),
	})
}
