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

// Verificar en tiempo de compilación que AnthropicService implementa Assistant.
var _ ports.Assistant = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// AnthropicService adaptador que implementa Assistant usando la API REST de
// Anthropic (Claude). Alternativa a OpenAIService, seleccionable por config.
type AnthropicService struct {
	apiKey     string
	opts       Options
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador.
// model suele ser "claude-3-5-haiku-20241022".
func NewAnthropicService(apiKey string, opts Options) *AnthropicService {
	return &AnthropicService{
		apiKey: apiKey,
		opts:   opts,
		httpClient: &http.Client{
			Timeout: 25 * time.Second,
		},
	}
}

// ── Estructuras del protocolo Anthropic Messages API ──────────────────────────

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// SummarizeAlerts envía el feed ya ordenado y devuelve el resumen narrativo.
func (s *AnthropicService) SummarizeAlerts(ctx context.Context, alerts []dto.AlertDTO) (string, error) {
	messages := []anthropicMessage{{Role: "user", Content: buildAlertDigest(alerts)}}
	return s.complete(ctx, summarizeSystemPrompt, messages)
}

// Chat responde una pregunta libre con el historial como contexto.
func (s *AnthropicService) Chat(ctx context.Context, message string, history []dto.ChatMessage) (string, error) {
	messages := make([]anthropicMessage, 0, len(history)+1)
	for _, h := range history {
		messages = append(messages, anthropicMessage{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, anthropicMessage{Role: "user", Content: message})
	return s.complete(ctx, chatSystemPrompt, messages)
}

func (s *AnthropicService) complete(ctx context.Context, system string, messages []anthropicMessage) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado")
	}

	maxTokens := s.opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024 // la Messages API exige max_tokens explícito
	}
	payload := anthropicRequest{
		Model:       s.opts.Model,
		MaxTokens:   maxTokens,
		Temperature: s.opts.Temperature,
		System:      system,
		Messages:    messages,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

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
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var out anthropicResponse
	if err := json.Unmarshal(rawBody, &out); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Anthropic: %w", err)
	}
	if len(out.Content) == 0 {
		return "", fmt.Errorf("AI: Claude devolvió respuesta vacía")
	}
	return out.Content[0].Text, nil
}
