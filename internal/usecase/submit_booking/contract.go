package submit_booking

import (
	"context"
	"time"

	"github.com/m04kA/strike-booking/internal/domain"
	"github.com/m04kA/strike-booking/internal/integrations/bookingapi"
	"github.com/m04kA/strike-booking/internal/service/drafts"
)

// DraftService реестр черновиков
type DraftService interface {
	BeginSubmit(sessionID string, validate func(domain.BookingDraft) error) (*drafts.Submission, error)
	FailSubmit(sub *drafts.Submission, message string) error
	CompleteSubmit(sub *drafts.Submission) error
}

// BookingAPIClient клиент внешнего сервиса бронирования
type BookingAPIClient interface {
	Submit(ctx context.Context, req *bookingapi.Request) (*bookingapi.BookingDetails, error)
}

// ConfirmationStore хранилище подтверждений между страницами
type ConfirmationStore interface {
	Save(ctx context.Context, sessionID string, c *domain.Confirmation) error
}

// EventPublisher публикация событий (опционально, может быть nil)
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// MetricsRecorder счётчики попыток бронирования
type MetricsRecorder interface {
	IncSubmission(outcome string)
	IncValidationFailure(rule string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
