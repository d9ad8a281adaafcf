package add_shoe

import (
	"errors"
	"net/http"

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

// Handle POST /api/v1/booking/shoes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Warn("POST /booking/shoes - Missing session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	id, draft, err := h.service.AddShoe(sessionID)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrDraftNotFound):
			h.logger.Warn("POST /booking/shoes - Draft not found: session=%s", sessionID)
			handlers.RespondNotFound(w, msgDraftNotFound)

		case errors.Is(err, drafts.ErrSubmissionInProgress):
			h.logger.Warn("POST /booking/shoes - Form locked: session=%s", sessionID)
			handlers.RespondConflict(w, msgSubmissionInProgress)

		default:
			h.logger.Error("POST /booking/shoes - Failed to add shoe: session=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, AddShoeResponse{ID: id, Draft: draft})
}
