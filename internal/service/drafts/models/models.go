package models

import "github.com/m04kA/strike-booking/internal/domain"

// ShoeResponse запись обуви
type ShoeResponse struct {
	ID   string `json:"id"`
	Size string `json:"size"`
}

// DraftResponse состояние формы бронирования
type DraftResponse struct {
	When   string         `json:"when"`
	Time   string         `json:"time"`
	Lanes  int            `json:"lanes"`
	People int            `json:"people"`
	Shoes  []ShoeResponse `json:"shoes"`
	Error  string         `json:"error"`
	State  string         `json:"state"`
}

// FromDomainDraft конвертирует domain модель в DTO
func FromDomainDraft(d *domain.BookingDraft) *DraftResponse {
	if d == nil {
		return nil
	}

	entries := d.Shoes.Entries()
	shoes := make([]ShoeResponse, len(entries))
	for i, e := range entries {
		shoes[i] = ShoeResponse{ID: e.ID, Size: e.Size}
	}

	return &DraftResponse{
		When:   d.Date,
		Time:   d.Time,
		Lanes:  d.Lanes,
		People: d.People,
		Shoes:  shoes,
		Error:  d.Error,
		State:  string(d.State),
	}
}
