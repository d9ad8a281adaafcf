package get_confirmation

import (
	"context"

	"github.com/m04kA/strike-booking/internal/domain"
	"github.com/m04kA/strike-booking/internal/service/confirmations"
)

type ConfirmationService interface {
	Load(ctx context.Context, sessionID string) (*domain.Confirmation, confirmations.Source, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
