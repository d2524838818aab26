package docchat

// Source identifies one retrieved document behind an answer, in retrieval
// order.
type Source struct {
	Title  string  `json:"title"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// Usage is the completion provider's token accounting for one turn.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the structured output of one chat turn. ContextUsed holds a
// preview of each retrieved chunk, truncated for display, in the same order
// as Sources.
type Response struct {
	Answer      string   `json:"answer"`
	Sources     []Source `json:"sources"`
	ContextUsed []string `json:"context_used"`
	Usage       Usage    `json:"usage"`
}

const previewLimit = 200

// preview truncates content for the context_used list. The ellipsis marker
// is added only when something was actually cut off.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewLimit]) + "..."
}
