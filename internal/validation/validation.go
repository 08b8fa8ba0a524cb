package validation

// Error marks input validation failures so transport code can distinguish
// them from storage or auth errors.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

func newError(msg string) error {
	return &Error{msg: msg}
}
