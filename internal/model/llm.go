package model

// PromptRequest represents a text generation request.
type PromptRequest struct {
	Prompt  string `json:"prompt"`
	Persona string `json:"persona"`
}

// PromptResponse represents a text generation response. Duration is the
// upstream round-trip time in seconds.
type PromptResponse struct {
	Response string  `json:"response"`
	Duration float64 `json:"duration"`
}
