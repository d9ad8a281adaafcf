package update_shoe_size

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
	msgInvalidRequestBody   = "некорректное тело запроса"
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

// Handle PUT /api/v1/booking/shoes/{shoeId}
// Недопустимый размер не является ошибкой: форма возвращается без изменения размера.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shoeID := mux.Vars(r)["shoeId"]

	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Warn("PUT /booking/shoes/{id} - Missing session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	var req UpdateShoeSizeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /booking/shoes/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, err := h.service.SetShoeSize(sessionID, shoeID, req.Size)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrDraftNotFound):
			h.logger.Warn("PUT /booking/shoes/{id} - Draft not found: session=%s", sessionID)
			handlers.RespondNotFound(w, msgDraftNotFound)

		case errors.Is(err, drafts.ErrSubmissionInProgress):
			h.logger.Warn("PUT /booking/shoes/{id} - Form locked: session=%s", sessionID)
			handlers.RespondConflict(w, msgSubmissionInProgress)

		default:
			h.logger.Error("PUT /booking/shoes/{id} - Failed to set size: session=%s, shoe_id=%s, error=%v",
				sessionID, shoeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, draft)
}
