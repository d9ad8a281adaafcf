package open_draft

import "github.com/m04kA/strike-booking/internal/service/drafts/models"

type DraftService interface {
	Open(sessionID string) (*models.DraftResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
