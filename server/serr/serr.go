// Package serr holds the error values shared by the layers of the tunacmd
// server. Its Error type can be created with one or more 'cause' errors, and
// calling errors.Is() on it with any of those causes will return true.
package serr

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied username/password combination is incorrect")
	ErrPermissions    = errors.New("you don't have permission to do that")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrAlreadyExists  = errors.New("resource with same identifying information already exists")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
)

// Error is returned by the service layer. It holds a message explaining what
// happened along with the errors it considers its causes, so callers can check
// for failure conditions with errors.Is instead of inspecting types.
//
// Error() gives the message followed by the message of the first cause.
//
// Create one with New or WrapDB.
type Error struct {
	msg   string
	cause []error
}

func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}

	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}

	return e.msg
}

// Unwrap returns the causes of the Error, or nil if it has none.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// WrapDB creates an Error caused by err and ErrDB. msg may be left as "".
func WrapDB(msg string, err error) Error {
	return Error{
		msg:   msg,
		cause: []error{err, ErrDB},
	}
}

// New creates a new Error with the given message, along with any errors it
// should wrap as its causes.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	for _, c := range causes {
		if c != nil {
			err.cause = append(err.cause, c)
		}
	}
	return err
}
