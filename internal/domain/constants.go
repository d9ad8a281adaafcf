package domain

// Business rules
const (
	MaxPlayersPerLane = 4
	MinLanes          = 1
	MinPeople         = 1
	ShoeSizeLength    = 2 // Размер обуви - ровно два символа (или пусто)
)

// Draft field names accepted by field-edit handlers
const (
	FieldWhen   = "when"
	FieldDate   = "date" // Синоним FieldWhen
	FieldTime   = "time"
	FieldLanes  = "lanes"
	FieldPeople = "people"
)

// ConfirmationSlot name of the durable session-scoped storage slot
const ConfirmationSlot = "confirmation"

// User-facing messages
const (
	MsgFieldsRequired        = "Alla fälten måste vara ifyllda"
	MsgShoeCountMismatch     = "Antalet skor måste stämma överens med antal spelare"
	MsgShoeSizesRequired     = "Alla skor måste vara ifyllda"
	MsgTooManyPlayersPerLane = "Det får max vara 4 spelare per bana"
	MsgBookingFailed         = "Ett fel uppstod vid bokningen. Försök igen."
	MsgNoBooking             = "Inga bokning gjord!"
	PriceCurrency            = "sek"
)
