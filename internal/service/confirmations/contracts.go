package confirmations

import (
	"context"

	"github.com/m04kA/strike-booking/internal/domain"
)

// ConfirmationRepository долговременное хранилище подтверждений сессии
type ConfirmationRepository interface {
	Save(ctx context.Context, sessionID string, c *domain.Confirmation) error
	Get(ctx context.Context, sessionID string) (*domain.Confirmation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
