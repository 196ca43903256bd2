package bff

// Error is the structured failure raised by the routing layer. It travels as
// an ordinary Go error until the dispatcher converts it into an HTTP response;
// nothing below the dispatcher writes error responses for routing conditions.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}
