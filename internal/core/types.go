package core

// RoleSystem and RoleUser are the two message roles a dispatch call produces.
// Every call carries exactly one of each: the feature-authored instruction and
// the end-user input.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatRequest represents an outbound chat completion request
type ChatRequest struct {
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
}

// Message represents a single message in the chat exchange
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	// ReasoningContent carries the separated thinking trace emitted by
	// reasoning models (e.g. deepseek-reasoner). It is never sent upstream.
	ReasoningContent string `json:"reasoning_content,omitempty"`
}

// PromptPair builds the ordered two-message exchange every dispatch call sends:
// a system instruction followed by the user instruction.
func PromptPair(system, user string) []Message {
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}

// ChatResponse represents the chat completion response
type ChatResponse struct {
	ID       string   `json:"id"`
	Object   string   `json:"object"`
	Model    string   `json:"model"`
	Provider string   `json:"provider,omitempty"`
	Choices  []Choice `json:"choices"`
	Usage    Usage    `json:"usage"`
	Created  int64    `json:"created"`
}

// FirstContent returns the first choice's message content verbatim,
// or "" when the response carries no choices.
func (r *ChatResponse) FirstContent() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Choice represents a single completion choice
type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
	Index        int     `json:"index"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
