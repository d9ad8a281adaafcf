package bookingapi

// Request тело запроса на бронирование
type Request struct {
	When   string   `json:"when"` // "<date>T<time>"
	Lanes  int      `json:"lanes"`
	People int      `json:"people"`
	Shoes  []string `json:"shoes"`
}

// Response тело успешного ответа
type Response struct {
	BookingDetails *BookingDetails `json:"bookingDetails"`
}

// BookingDetails подтверждение бронирования от сервиса
type BookingDetails struct {
	BookingID string   `json:"bookingId"`
	When      string   `json:"when"`
	People    int      `json:"people"`
	Lanes     int      `json:"lanes"`
	Shoes     []string `json:"shoes"`
	Price     int      `json:"price"`
}
