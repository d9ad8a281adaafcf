package submit_booking

import "time"

// EventBookingConfirmed routing key события о подтверждённом бронировании
const EventBookingConfirmed = "booking.confirmed"

// Request модель запроса на отправку черновика
type Request struct {
	SessionID string
}

// Response подтверждённое бронирование (состояние навигации для страницы подтверждения)
type Response struct {
	BookingID string
	When      string
	People    int
	Lanes     int
	Shoes     []string
	Price     int
}

// BookingConfirmedEvent событие о подтверждённом бронировании
type BookingConfirmedEvent struct {
	BookingID   string    `json:"bookingId"`
	SessionID   string    `json:"sessionId"`
	When        string    `json:"when"`
	People      int       `json:"people"`
	Lanes       int       `json:"lanes"`
	Shoes       []string  `json:"shoes"`
	Price       int       `json:"price"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}
