package submit_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/strike-booking/internal/api/handlers"
	"github.com/m04kA/strike-booking/internal/api/middleware"
	"github.com/m04kA/strike-booking/internal/domain"
	submitBooking "github.com/m04kA/strike-booking/internal/usecase/submit_booking"
)

const (
	msgMissingSession       = "отсутствует сессия"
	msgDraftNotFound        = "форма бронирования не открыта"
	msgSubmissionInProgress = "бронирование уже отправляется"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking/submit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Warn("POST /booking/submit - Missing session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &submitBooking.Request{SessionID: sessionID})
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("POST /booking/submit - Validation failed: session=%s, rule=%s",
				sessionID, validationErr.Rule)
			handlers.RespondUnprocessable(w, validationErr.Message)

		case errors.Is(err, submitBooking.ErrSubmissionInProgress):
			h.logger.Warn("POST /booking/submit - Already submitting: session=%s", sessionID)
			handlers.RespondConflict(w, msgSubmissionInProgress)

		case errors.Is(err, submitBooking.ErrDraftNotFound):
			h.logger.Warn("POST /booking/submit - Draft not found: session=%s", sessionID)
			handlers.RespondNotFound(w, msgDraftNotFound)

		case errors.Is(err, submitBooking.ErrSubmission):
			h.logger.Warn("POST /booking/submit - Booking failed: session=%s", sessionID)
			handlers.RespondBadGateway(w, domain.MsgBookingFailed)

		default:
			h.logger.Error("POST /booking/submit - Failed to submit booking: session=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking/submit - Booking confirmed: booking_id=%s, session=%s", result.BookingID, sessionID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
