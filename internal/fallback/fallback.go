// Package fallback produces canned replies when no AI backend is available.
// Respond is total: it performs no I/O and cannot fail.
package fallback

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Reply sets for each keyword bucket. The literals are part of the wire
// behavior: clients may see these exact strings.
var (
	GreetingReplies = []string{
		"Hello! I'm your AI research assistant. How can I help you today?",
		"Hi there! I'm here to help with your research needs. What would you like to know?",
		"Greetings! I'm ready to assist you with any questions or research topics.",
	}

	ResearchReplies = []string{
		"Based on your query, here are some key insights: This is a fascinating topic that involves multiple aspects. Let me break it down for you with some detailed analysis and recommendations.",
		"I'd be happy to help you research this topic. Here's what I found: This subject has several important components worth exploring further.",
		"Great question! Let me provide you with a comprehensive overview of this topic, including its main concepts and practical applications.",
	}

	GeneralReplies = []string{
		"That's an interesting question! Let me provide you with some insights on this topic.",
		"I understand you're looking for information about this. Here's what I can tell you:",
		"Thanks for asking! This is a great topic to explore. Let me share some thoughts with you.",
	}
)

var (
	greetingKeywords = []string{"hello", "hi", "hey"}
	researchKeywords = []string{"research", "study", "analyze"}
)

const generalSuffix = `", this is a complex topic that deserves careful consideration. ` +
	`I recommend exploring multiple sources and perspectives to get a comprehensive understanding. ` +
	`Would you like me to elaborate on any specific aspect of this topic?`

// Responder picks canned replies using an injected random source, so tests
// can seed it for exact selection.
type Responder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Responder seeded from the current time.
func New() *Responder {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Responder backed by the given random source.
func NewWithSource(src rand.Source) *Responder {
	return &Responder{rng: rand.New(src)}
}

// Respond maps a prompt to a canned reply. Prompts mentioning a greeting or
// research keyword get a reply from the matching set; everything else gets a
// general reply with a suffix echoing the original prompt verbatim.
func (r *Responder) Respond(prompt string) string {
	lower := strings.ToLower(prompt)

	if containsAny(lower, greetingKeywords) {
		return r.pick(GreetingReplies)
	}

	if containsAny(lower, researchKeywords) {
		return r.pick(ResearchReplies)
	}

	// The prompt is echoed verbatim, not lower-cased.
	return r.pick(GeneralReplies) + ` Regarding "` + prompt + generalSuffix
}

func (r *Responder) pick(set []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return set[r.rng.Intn(len(set))]
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
