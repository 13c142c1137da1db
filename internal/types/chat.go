package types

import "time"

type ChatRequest struct {
	Message    string `json:"message" example:"Tell me about Hampi"`
	SessionID  string `json:"sessionId,omitempty"`
	LocationID string `json:"locationId,omitempty" example:"hampi"`
	Lang       string `json:"lang,omitempty" example:"en"`
}

// ChatResponseType tells the client which strategy produced the answer.
type ChatResponseType string

const (
	ChatResponseFAQ      ChatResponseType = "faq"
	ChatResponseIntent   ChatResponseType = "intent"
	ChatResponseLocation ChatResponseType = "location"
	ChatResponseSearch   ChatResponseType = "search"
	ChatResponseFallback ChatResponseType = "fallback"
)

type ChatResponse struct {
	Response    string           `json:"response"`
	Type        ChatResponseType `json:"type"`
	Intent      string           `json:"intent,omitempty"`
	Confidence  float64          `json:"confidence"`
	Suggestions []string         `json:"suggestions"`
	SessionID   string           `json:"sessionId"`
	Locations   []Location       `json:"locations,omitempty"`
}

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// RecommendRequest asks for the best matching locations without building a route.
type RecommendRequest struct {
	Preferences PreferencesRequest `json:"preferences"`
	Limit       int                `json:"limit,omitempty" example:"5"`
}

type ScoredLocation struct {
	Location Location `json:"location"`
	Score    float64  `json:"score"`
}

type TranslateRequest struct {
	Text   string `json:"text" example:"Hampi"`
	Target string `json:"target" example:"hi"`
}

type TranslateResponse struct {
	Text       string `json:"text"`
	Translated string `json:"translated"`
	Target     string `json:"target"`
}

type TranslationStats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Failures  uint64 `json:"failures"`
	CacheSize int    `json:"cacheSize"`
}

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
