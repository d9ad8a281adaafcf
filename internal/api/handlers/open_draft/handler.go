package open_draft

import (
	"net/http"

	"github.com/m04kA/strike-booking/internal/api/handlers"
	"github.com/m04kA/strike-booking/internal/api/middleware"
)

const msgMissingSession = "отсутствует сессия"

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

// Handle POST /api/v1/booking
// Открывает пустую форму; несохранённый черновик сессии отбрасывается.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		h.logger.Warn("POST /booking - Missing session")
		handlers.RespondUnauthorized(w, msgMissingSession)
		return
	}

	draft, err := h.service.Open(sessionID)
	if err != nil {
		h.logger.Error("POST /booking - Failed to open draft: session=%s, error=%v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /booking - Draft opened: session=%s", sessionID)
	handlers.RespondJSON(w, http.StatusCreated, draft)
}
