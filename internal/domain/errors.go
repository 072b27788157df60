package domain

import "errors"

var (
	// ErrNoQuestions is returned when the question store is empty.
	ErrNoQuestions = errors.New("no questions available")
	// ErrUnknownPlayer is returned when an action references a name that was never registered.
	ErrUnknownPlayer = errors.New("player not registered")
	// ErrBankNotFound indicates the configured question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
)
