package get_draft

import (
	"errors"
	"net/http"

	"github.com/m04kA/strike-booking/internal/api/handlers"
	"github.com/m04kA/strike-booking/internal/api/middleware"
	"github.com/m04kA/strike-booking/internal/service/drafts"
)

const (
	msgMissingSession = "отсутствует сессия"
	msgDraftNotFound  = "форма бронирования не открыта"
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

// Handle GET /api/v1/booking
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Warn("GET /booking - Missing session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	draft, err := h.service.Get(sessionID)
	if err != nil {
		switch {
		case errors.Is(err, drafts.ErrDraftNotFound):
			h.logger.Warn("GET /booking - Draft not found: session=%s", sessionID)
			handlers.RespondNotFound(w, msgDraftNotFound)

		default:
			h.logger.Error("GET /booking - Failed to get draft: session=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, draft)
}
