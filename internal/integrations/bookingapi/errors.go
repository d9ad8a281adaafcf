package bookingapi

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmission общая ошибка отправки бронирования; причина пользователю не различается
	ErrSubmission = errors.New("bookingapi: submission failed")

	// ErrInternal возвращается при ошибках транспорта (сеть, timeout, построение запроса)
	ErrInternal = errors.New("bookingapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном теле ответа
	ErrInvalidResponse = errors.New("bookingapi client: invalid response")
)

// StatusError ответ сервиса с не-2xx статусом
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bookingapi: unexpected status code %d: %s", e.StatusCode, e.Body)
}

// Is позволяет сопоставлять StatusError с ErrSubmission через errors.Is
func (e *StatusError) Is(target error) bool {
	return target == ErrSubmission
}
