package drafts

import "errors"

var (
	// ErrDraftNotFound возвращается, когда у сессии нет открытого черновика
	ErrDraftNotFound = errors.New("drafts: draft not found")

	// ErrUnknownField возвращается при редактировании неизвестного поля
	ErrUnknownField = errors.New("drafts: unknown field")

	// ErrSubmissionInProgress возвращается, пока бронирование отправляется
	ErrSubmissionInProgress = errors.New("drafts: submission in progress")

	// ErrSubmissionStale возвращается, когда черновик был заменён во время отправки
	ErrSubmissionStale = errors.New("drafts: draft replaced during submission")

	// ErrInvalidInput возвращается при пустом идентификаторе сессии
	ErrInvalidInput = errors.New("drafts: invalid input data")
)
