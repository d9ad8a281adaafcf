package update_field

import (
	"errors"
	"net/http"

	"github.com/m04kA/strike-booking/internal/api/handlers"
	"github.com/m04kA/strike-booking/internal/api/middleware"
	"github.com/m04kA/strike-booking/internal/service/drafts"
)

const (
	msgMissingSession       = "отсутствует сессия"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgUnknownField         = "неизвестное поле формы"
	msgDraftNotFound        = "форма бронирования не открыта"
	msgSubmissionInProgress = "бронирование уже отправляется"
)

type Handler struct {
	service DraftService
	logger  Logger
}

func NewHandler(service DraftService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/booking/fields
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /booking/fields - Missing session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	var req UpdateFieldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /booking/fields - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, err := h.service.UpdateField(sessionID, req.Name, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrUnknownField):
			h.logger.Warn("PATCH /booking/fields - Unknown field: session=%s, name=%q", sessionID, req.Name)
			handlers.RespondBadRequest(w, msgUnknownField)

		case errors.Is(err, drafts.ErrDraftNotFound):
			h.logger.Warn("PATCH /booking/fields - Draft not found: session=%s", sessionID)
			handlers.RespondNotFound(w, msgDraftNotFound)

		case errors.Is(err, drafts.ErrSubmissionInProgress):
			h.logger.Warn("PATCH /booking/fields - Form locked: session=%s", sessionID)
			handlers.RespondConflict(w, msgSubmissionInProgress)

		default:
			h.logger.Error("PATCH /booking/fields - Failed to update field: session=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, draft)
}
