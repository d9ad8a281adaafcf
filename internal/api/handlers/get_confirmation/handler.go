package get_confirmation

import (
	"net/http"

	"github.com/m04kA/strike-booking/internal/api/handlers"
	"github.com/m04kA/strike-booking/internal/api/middleware"
)

const msgMissingSession = "отсутствует сессия"

type Handler struct {
	service ConfirmationService
	logger  Logger
}

func NewHandler(service ConfirmationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/confirmation
// Отсутствие бронирования - пустое состояние страницы, а не 404.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Warn("GET /confirmation - Missing session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	confirmation, source, err := h.service.Load(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("GET /confirmation - Failed to load confirmation: session=%s, error=%v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	if confirmation == nil {
		h.logger.Info("GET /confirmation - No booking: session=%s", sessionID)
		handlers.RespondJSON(w, http.StatusOK, NotFoundResponse())
		return
	}

	h.logger.Info("GET /confirmation - Confirmation shown: booking_id=%s, session=%s, source=%s",
		confirmation.BookingID, sessionID, source)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(confirmation, source))
}
