package remove_shoe

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/strike-booking/internal/api/handlers"
	"github.com/m04kA/strike-booking/internal/api/middleware"
	"github.com/m04kA/strike-booking/internal/service/drafts"
)

const (
	msgMissingSession       = "отсутствует сессия"
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

// Handle DELETE /api/v1/booking/shoes/{shoeId}
// Неизвестный идентификатор оставляет список без изменений.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shoeID := mux.Vars(r)["shoeId"]

	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /booking/shoes/{id} - Missing session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	draft, err := h.service.RemoveShoe(sessionID, shoeID)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrDraftNotFound):
			h.logger.Warn("DELETE /booking/shoes/{id} - Draft not found: session=%s", sessionID)
			handlers.RespondNotFound(w, msgDraftNotFound)

		case errors.Is(err, drafts.ErrSubmissionInProgress):
			h.logger.Warn("DELETE /booking/shoes/{id} - Form locked: session=%s", sessionID)
			handlers.RespondConflict(w, msgSubmissionInProgress)

		default:
			h.logger.Error("DELETE /booking/shoes/{id} - Failed to remove shoe: session=%s, shoe_id=%s, error=%v",
				sessionID, shoeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, draft)
}
