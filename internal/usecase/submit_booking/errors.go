package submit_booking

import "errors"

var (
	// ErrDraftNotFound возвращается, когда у сессии нет открытого черновика
	ErrDraftNotFound = errors.New("submit_booking: draft not found")

	// ErrSubmissionInProgress возвращается при повторной отправке до завершения первой
	ErrSubmissionInProgress = errors.New("submit_booking: submission already in progress")

	// ErrSubmission возвращается при неудачной отправке или сохранении; причина сохраняется в цепочке
	ErrSubmission = errors.New("submit_booking: booking failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_booking: internal error")
)
