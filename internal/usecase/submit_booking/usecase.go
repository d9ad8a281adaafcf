package submit_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/strike-booking/internal/domain"
	"github.com/m04kA/strike-booking/internal/integrations/bookingapi"
	"github.com/m04kA/strike-booking/internal/service/drafts"
	"github.com/m04kA/strike-booking/pkg/metrics"
)

// UseCase use case для отправки черновика бронирования
type UseCase struct {
	drafts       DraftService
	client       BookingAPIClient
	store        ConfirmationStore
	publisher    EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// publisher и metrics могут быть nil.
func NewUseCase(
	draftService DraftService,
	client BookingAPIClient,
	store ConfirmationStore,
	publisher EventPublisher,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		drafts:       draftService,
		client:       client,
		store:        store,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute проверяет черновик сессии, отправляет его во внешний сервис
// и сохраняет подтверждение для страницы подтверждения.
// Ошибка валидации возвращается как *domain.ValidationError.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.SessionID == "" {
		return nil, ErrInvalidInput
	}

	uc.logger.Info("SubmitBooking: session=%s", req.SessionID)

	// 1. Валидация и перевод черновика в состояние отправки
	sub, err := uc.drafts.BeginSubmit(req.SessionID, Validate)
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			uc.logger.Warn("SubmitBooking: validation failed for session=%s: %v", req.SessionID, err)
			uc.incSubmission(metrics.OutcomeInvalid)
			uc.incValidationFailure(string(validationErr.Rule))
			return nil, validationErr
		case errors.Is(err, drafts.ErrSubmissionInProgress):
			uc.logger.Warn("SubmitBooking: session=%s already submitting", req.SessionID)
			uc.incSubmission(metrics.OutcomeRejected)
			return nil, ErrSubmissionInProgress
		case errors.Is(err, drafts.ErrDraftNotFound):
			uc.logger.Warn("SubmitBooking: no open draft for session=%s", req.SessionID)
			return nil, ErrDraftNotFound
		default:
			uc.logger.Error("SubmitBooking: failed to begin submit for session=%s: %v", req.SessionID, err)
			return nil, fmt.Errorf("%w: failed to begin submit: %v", ErrInternal, err)
		}
	}

	// 2. Запрос во внешний сервис. Уход пользователя со страницы не отменяет запрос,
	// время ограничено таймаутом клиента.
	details, err := uc.client.Submit(context.WithoutCancel(ctx), toBookingRequest(sub.Draft))
	if err != nil {
		return nil, uc.fail(sub, "failed to submit booking", err)
	}

	confirmation := toConfirmation(details)

	// 3. Сохраняем подтверждение до перехода на страницу подтверждения
	if err := uc.store.Save(context.WithoutCancel(ctx), sub.SessionID, confirmation); err != nil {
		return nil, uc.fail(sub, "failed to save confirmation booking_id="+confirmation.BookingID, err)
	}

	// 4. Черновик больше не нужен
	if err := uc.drafts.CompleteSubmit(sub); err != nil {
		uc.logger.Warn("SubmitBooking: draft for session=%s replaced during submission: %v", sub.SessionID, err)
	}

	uc.publish(ctx, sub.SessionID, confirmation)
	uc.incSubmission(metrics.OutcomeConfirmed)

	uc.logger.Info("SubmitBooking: booking_id=%s confirmed for session=%s, price=%d",
		confirmation.BookingID, sub.SessionID, confirmation.Price)

	return toResponse(confirmation), nil
}

// fail возвращает черновик к редактированию с общим сообщением об ошибке
func (uc *UseCase) fail(sub *drafts.Submission, step string, cause error) error {
	uc.logger.Error("SubmitBooking: %s for session=%s: %v", step, sub.SessionID, cause)
	uc.incSubmission(metrics.OutcomeFailed)

	if err := uc.drafts.FailSubmit(sub, domain.MsgBookingFailed); err != nil {
		uc.logger.Warn("SubmitBooking: draft for session=%s replaced during submission: %v", sub.SessionID, err)
	}

	return fmt.Errorf("%w: %s: %w", ErrSubmission, step, cause)
}

// publish отправляет событие о подтверждении; ошибка публикации не влияет на результат
func (uc *UseCase) publish(ctx context.Context, sessionID string, c *domain.Confirmation) {
	if uc.publisher == nil {
		return
	}

	event := &BookingConfirmedEvent{
		BookingID:   c.BookingID,
		SessionID:   sessionID,
		When:        c.When,
		People:      c.People,
		Lanes:       c.Lanes,
		Shoes:       append([]string{}, c.Shoes...),
		Price:       c.Price,
		ConfirmedAt: uc.timeProvider.Now().UTC(),
	}

	if err := uc.publisher.PublishJSON(context.WithoutCancel(ctx), EventBookingConfirmed, event); err != nil {
		uc.logger.Warn("SubmitBooking: failed to publish %s for booking_id=%s: %v",
			EventBookingConfirmed, c.BookingID, err)
	}
}

func (uc *UseCase) incSubmission(outcome string) {
	if uc.metrics != nil {
		uc.metrics.IncSubmission(outcome)
	}
}

func (uc *UseCase) incValidationFailure(rule string) {
	if uc.metrics != nil {
		uc.metrics.IncValidationFailure(rule)
	}
}

func toBookingRequest(d domain.BookingDraft) *bookingapi.Request {
	return &bookingapi.Request{
		When:   d.When(),
		Lanes:  d.Lanes,
		People: d.People,
		Shoes:  d.Shoes.Sizes(),
	}
}

func toConfirmation(details *bookingapi.BookingDetails) *domain.Confirmation {
	return &domain.Confirmation{
		BookingID: details.BookingID,
		When:      details.When,
		People:    details.People,
		Lanes:     details.Lanes,
		Shoes:     append([]string{}, details.Shoes...),
		Price:     details.Price,
	}
}

func toResponse(c *domain.Confirmation) *Response {
	return &Response{
		BookingID: c.BookingID,
		When:      c.When,
		People:    c.People,
		Lanes:     c.Lanes,
		Shoes:     append([]string{}, c.Shoes...),
		Price:     c.Price,
	}
}
