package domain

import "strings"

// DraftState represents the workflow state of a booking draft
type DraftState string

const (
	StateEditing    DraftState = "editing"
	StateSubmitting DraftState = "submitting"
	StateConfirmed  DraftState = "confirmed"
)

// BookingDraft represents the in-progress, unsubmitted booking form
type BookingDraft struct {
	Date   string // Свободный текст даты, календарная корректность не проверяется
	Time   string // Свободный текст времени
	Lanes  int    // Может быть нулевым или отрицательным, не ограничивается при вводе
	People int    // Может быть нулевым или отрицательным
	Shoes  ShoeEntryList

	// Error сообщение для отображения; пустая строка - ошибки нет.
	// Валидатор это поле никогда не читает.
	Error string
	State DraftState
}

// NewBookingDraft creates a draft with empty/zero defaults
func NewBookingDraft() *BookingDraft {
	return &BookingDraft{
		State: StateEditing,
	}
}

// When returns the combined date and time in wire format
func (d *BookingDraft) When() string {
	return d.Date + "T" + d.Time
}

// ClearError resets the displayed error
func (d *BookingDraft) ClearError() {
	d.Error = ""
}

// IsSubmitting returns true while a submission is in flight
func (d *BookingDraft) IsSubmitting() bool {
	return d.State == StateSubmitting
}

// IsEditable returns true if the draft accepts field edits and submit triggers
func (d *BookingDraft) IsEditable() bool {
	return d.State == StateEditing
}

// Snapshot returns a deep copy of the draft
func (d *BookingDraft) Snapshot() BookingDraft {
	snapshot := *d
	snapshot.Shoes = d.Shoes.Clone()
	return snapshot
}

// Confirmation represents the immutable, server-confirmed booking record
type Confirmation struct {
	BookingID string
	When      string
	People    int
	Lanes     int
	Shoes     []string
	Price     int
}

// Clone returns a copy that shares no memory with the original
func (c *Confirmation) Clone() *Confirmation {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Shoes != nil {
		clone.Shoes = make([]string, len(c.Shoes))
		copy(clone.Shoes, c.Shoes)
	}
	return &clone
}

// DisplayWhen returns the booking time with the date/time separator replaced by a space
func (c *Confirmation) DisplayWhen() string {
	return strings.Replace(c.When, "T", " ", 1)
}
