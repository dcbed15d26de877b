package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ports"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// AssistantUseCase orquesta el chat del asistente de inventario. Aplica un
// timeout acotado en cada llamada al servicio externo para que las latencias
// de red no bloqueen los goroutines del servidor.
type AssistantUseCase struct {
	assistant ports.Assistant
	timeout   time.Duration
}

// NewAssistantUseCase construye el caso de uso inyectando el puerto.
// assistant puede ser nil cuando el asistente está deshabilitado.
func NewAssistantUseCase(assistant ports.Assistant, timeout time.Duration) *AssistantUseCase {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AssistantUseCase{assistant: assistant, timeout: timeout}
}

// Chat valida la entrada y delega al servicio externo. El texto devuelto es
// consultivo: nunca toca la base de datos ni el motor de alertas.
func (uc *AssistantUseCase) Chat(ctx context.Context, in dto.ChatRequest) (*dto.ChatResponse, error) {
	if in.Message == "" {
		return nil, domain.ErrInvalidInput
	}
	if uc.assistant == nil {
		return nil, domain.ErrSummarizationUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	reply, err := uc.assistant.Chat(ctx, in.Message, in.History)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSummarizationUnavailable, err)
	}

	history := append(append([]dto.ChatMessage{}, in.History...),
		dto.ChatMessage{Role: "user", Content: in.Message},
		dto.ChatMessage{Role: "assistant", Content: reply},
	)
	return &dto.ChatResponse{Response: reply, History: history}, nil
}
