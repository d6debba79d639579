package models

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint. Temperature and
// MaxTokens are pointers so an explicit zero from the client survives
// decoding; defaults apply only when the field is absent.
type ChatRequest struct {
	Prompt      string        `json:"prompt"`
	SessionID   string        `json:"sessionId"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature"`
	MaxTokens   *int          `json:"maxTokens"`
}

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 512
)

// ResolvedTemperature returns the request temperature or the default.
func (r *ChatRequest) ResolvedTemperature() float64 {
	if r.Temperature == nil {
		return DefaultTemperature
	}
	return *r.Temperature
}

// ResolvedMaxTokens returns the request token cap or the default.
func (r *ChatRequest) ResolvedMaxTokens() int {
	if r.MaxTokens == nil {
		return DefaultMaxTokens
	}
	return *r.MaxTokens
}

// ChatResponse is the reply from the chat endpoint. Source identifies which
// cascade tier produced the reply: "primary", "secondary" or "fallback".
type ChatResponse struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
	Source    string `json:"source"`
	Model     string `json:"model,omitempty"`
	Note      string `json:"note,omitempty"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	SourcePrimary   = "primary"
	SourceSecondary = "secondary"
	SourceFallback  = "fallback"
)
