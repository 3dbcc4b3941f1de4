package api

import "net/http"

// Error represents an error that occurred while handling a request.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func NewBadRequestError(message string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Message: message}
}

func NewTooManyRequests(message string) *Error {
	return &Error{StatusCode: http.StatusTooManyRequests, Message: message}
}

func NewInternalServerError(message string) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Message: message}
}

func NewBadGatewayError(message string) *Error {
	return &Error{StatusCode: http.StatusBadGateway, Message: message}
}
