package http

import (
	"errors"
	"net/http"

	"nanonerds-quiz-service/internal/domain"
)

var (
	errBadPayload  = errors.New("invalid payload")
	errUnsupported = errors.New("unsupported message type")
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrRegistrationNotFound),
		errors.Is(err, domain.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidQuiz), errors.Is(err, domain.ErrInvalidMember):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadPayload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
