package add_shoe

import "github.com/m04kA/strike-booking/internal/service/drafts/models"

// AddShoeResponse идентификатор новой записи и состояние формы
type AddShoeResponse struct {
	ID    string                `json:"id"`
	Draft *models.DraftResponse `json:"draft"`
}
