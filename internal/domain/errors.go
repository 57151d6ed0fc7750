package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz id is not in the catalog.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidState is returned when a command is issued in a state that forbids it.
	ErrInvalidState = errors.New("invalid state for operation")
	// ErrInvalidQuiz indicates a malformed catalog entry, e.g. one without questions.
	ErrInvalidQuiz = errors.New("invalid quiz definition")
	// ErrRegistrationNotFound is returned when approving or rejecting an unknown registration.
	ErrRegistrationNotFound = errors.New("registration not found")
	// ErrMemberNotFound is returned when updating or removing an unknown member.
	ErrMemberNotFound = errors.New("member not found")
	// ErrInvalidMember rejects a member edit with an unknown status.
	ErrInvalidMember = errors.New("invalid member update")
)
