package get_confirmation

import (
	"fmt"

	"github.com/m04kA/strike-booking/internal/domain"
	"github.com/m04kA/strike-booking/internal/service/confirmations"
)

// ConfirmationResponse страница подтверждения. Без бронирования заполнены только Found и Message.
type ConfirmationResponse struct {
	Found   bool   `json:"found"`
	Message string `json:"message,omitempty"`
	*ConfirmationView
}

// ConfirmationView отображаемые данные бронирования
type ConfirmationView struct {
	When          string   `json:"when"`
	Who           int      `json:"who"`
	Lanes         int      `json:"lanes"`
	BookingNumber string   `json:"bookingNumber"`
	Price         int      `json:"price"`
	Total         string   `json:"total"`
	Shoes         []string `json:"shoes"`
	Source        string   `json:"source"`
}

// NotFoundResponse пустое состояние страницы подтверждения
func NotFoundResponse() *ConfirmationResponse {
	return &ConfirmationResponse{Found: false, Message: domain.MsgNoBooking}
}

// FromDomain конвертирует подтверждение в HTTP ответ
func FromDomain(c *domain.Confirmation, source confirmations.Source) *ConfirmationResponse {
	if c == nil {
		return NotFoundResponse()
	}

	shoes := c.Shoes
	if shoes == nil {
		shoes = []string{}
	}

	return &ConfirmationResponse{
		Found: true,
		ConfirmationView: &ConfirmationView{
			When:          c.DisplayWhen(),
			Who:           c.People,
			Lanes:         c.Lanes,
			BookingNumber: c.BookingID,
			Price:         c.Price,
			Total:         fmt.Sprintf("%d %s", c.Price, domain.PriceCurrency),
			Shoes:         shoes,
			Source:        string(source),
		},
	}
}
