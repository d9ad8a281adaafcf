package confirmations

import "errors"

var (
	// ErrInvalidInput возвращается при пустой сессии или пустом подтверждении
	ErrInvalidInput = errors.New("confirmations: invalid input data")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("confirmations: internal error")
)
