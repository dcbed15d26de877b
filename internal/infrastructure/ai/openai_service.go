package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
)

// Verificar en tiempo de compilación que OpenAIService implementa Assistant.
var _ ports.Assistant = (*OpenAIService)(nil)

const openAIChatURL = "https://api.openai.com/v1/chat/completions"

// OpenAIService adaptador que implementa Assistant usando la API REST de
// chat-completions de OpenAI.
type OpenAIService struct {
	apiKey     string
	opts       Options
	httpClient *http.Client
}

// NewOpenAIService construye el adaptador. model suele ser "gpt-4o-mini".
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewOpenAIService(apiKey string, opts Options) *OpenAIService {
	return &OpenAIService{
		apiKey: apiKey,
		opts:   opts,
		httpClient: &http.Client{
			// Timeout de red amplio; el use case impone además su propio
			// context.WithTimeout por llamada.
			Timeout: 25 * time.Second,
		},
	}
}

// ── Estructuras del protocolo chat-completions ────────────────────────────────

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// SummarizeAlerts envía el feed ya ordenado y devuelve el resumen narrativo.
func (s *OpenAIService) SummarizeAlerts(ctx context.Context, alerts []dto.AlertDTO) (string, error) {
	messages := []openAIMessage{
		{Role: "system", Content: summarizeSystemPrompt},
		{Role: "user", Content: buildAlertDigest(alerts)},
	}
	return s.complete(ctx, messages)
}

// Chat responde una pregunta libre con el historial como contexto.
func (s *OpenAIService) Chat(ctx context.Context, message string, history []dto.ChatMessage) (string, error) {
	messages := make([]openAIMessage, 0, len(history)+2)
	messages = append(messages, openAIMessage{Role: "system", Content: chatSystemPrompt})
	for _, h := range history {
		messages = append(messages, openAIMessage{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: message})
	return s.complete(ctx, messages)
}

func (s *OpenAIService) complete(ctx context.Context, messages []openAIMessage) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: OPENAI_API_KEY no configurado")
	}

	payload := openAIRequest{
		Model:       s.opts.Model,
		Messages:    messages,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp openAIResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: OpenAI error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: OpenAI HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var out openAIResponse
	if err := json.Unmarshal(rawBody, &out); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta OpenAI: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("AI: OpenAI devolvió respuesta vacía")
	}
	return out.Choices[0].Message.Content, nil
}
