package dto

// ChatMessage un turno de la conversación con el asistente.
type ChatMessage struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// ChatRequest entrada del endpoint de chat del asistente.
type ChatRequest struct {
	Message string        `json:"message" validate:"required,min=1"`
	History []ChatMessage `json:"history"`
}

// ChatResponse salida del chat: la respuesta y el historial actualizado.
type ChatResponse struct {
	Response string        `json:"response"`
	History  []ChatMessage `json:"history"`
}
