package submit_booking

import (
	"fmt"

	"github.com/m04kA/strike-booking/internal/domain"
	submitBooking "github.com/m04kA/strike-booking/internal/usecase/submit_booking"
)

// ConfirmationResponse данные для страницы подтверждения
type ConfirmationResponse struct {
	When          string   `json:"when"`
	Who           int      `json:"who"`
	Lanes         int      `json:"lanes"`
	BookingNumber string   `json:"bookingNumber"`
	Price         int      `json:"price"`
	Total         string   `json:"total"`
	Shoes         []string `json:"shoes"`
}

// FromUseCaseResponse конвертирует результат use case в HTTP ответ
func FromUseCaseResponse(resp *submitBooking.Response) *ConfirmationResponse {
	c := &domain.Confirmation{
		BookingID: resp.BookingID,
		When:      resp.When,
		People:    resp.People,
		Lanes:     resp.Lanes,
		Shoes:     resp.Shoes,
		Price:     resp.Price,
	}

	shoes := c.Shoes
	if shoes == nil {
		shoes = []string{}
	}

	return &ConfirmationResponse{
		When:          c.DisplayWhen(),
		Who:           c.People,
		Lanes:         c.Lanes,
		BookingNumber: c.BookingID,
		Price:         c.Price,
		Total:         fmt.Sprintf("%d %s", c.Price, domain.PriceCurrency),
		Shoes:         shoes,
	}
}
