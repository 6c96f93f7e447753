package response

import "net/http"

// Error is the data behind the error page.
type Error struct {
	Code    int
	Title   string
	Message string
}

func (e Error) Error() string {
	return e.Message
}

func NewError(code int, message string) Error {
	return Error{
		Code:    code,
		Title:   http.StatusText(code),
		Message: message,
	}
}
