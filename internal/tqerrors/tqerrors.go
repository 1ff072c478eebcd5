// Package tqerrors contains errors that carry a message meant to be shown to
// whoever typed a command alongside the usual technical error message.
package tqerrors

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCommand is the cause of errors returned when a command line has
	// no tokens in it at all.
	ErrEmptyCommand = errors.New("empty command")

	// ErrUnknownCommand is the cause of errors returned when the first token of
	// a command line is not a registered keyword.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrSyntax is the cause of errors returned when no grammar registered for
	// a keyword fully matches the command line.
	ErrSyntax = errors.New("invalid syntax")

	// ErrInternal is the cause of errors returned when dispatch was aborted
	// because a command was wired up incorrectly. The details of such errors
	// are only ever logged; the message shown is always InternalMessage.
	ErrInternal = errors.New("internal error")
)

// InternalMessage is the only message ever shown to a sender when a command
// fails due to a problem in the server rather than in their input.
const InternalMessage = "Internal error (see server logs for details)"

// interpreterError is an error caused by attempting to interpret input. Either
// the input could not be understood or it specifies doing something that is
// impossible or not allowed at the current time.
//
// It includes a human-readable message to show to the sender as well as a
// typical more technical "error message" style message.
type interpreterError struct {
	msg   string
	human string
	wrap  error
}

func (e *interpreterError) Error() string {
	return e.msg
}

// GameMessage shows the message that should be displayed in-game to describe
// the error.
func (e *interpreterError) GameMessage() string {
	return e.human
}

// Unwrap gives the error that the interpreterError wraps, if it wraps one.
func (e *interpreterError) Unwrap() error {
	return e.wrap
}

// Interpreter returns a new InterpreterError that has both the message to show
// the sender and the technical description of the error.
func Interpreter(game, technical string) error {
	return WrapInterpreter(nil, game, technical)
}

// Interpreterf returns a new InterpreterError that has a message to show to
// the sender and an automatically generated Error() description.
func Interpreterf(gameFormat string, a ...interface{}) error {
	return Interpreter(fmt.Sprintf(gameFormat, a...), "")
}

// WrapInterpreter returns a new InterpreterError that has both the message to
// show the sender and the technical description of the error, and that wraps
// the given error so errors.Is can be used to check its cause.
func WrapInterpreter(e error, game, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q)", game)
		if e != nil {
			technical = e.Error() + ": " + technical
		}
	}
	return &interpreterError{
		msg:   technical,
		human: game,
		wrap:  e,
	}
}

// WrapInterpreterf is like WrapInterpreter but formats the game message.
func WrapInterpreterf(e error, gameFormat string, a ...interface{}) error {
	return WrapInterpreter(e, fmt.Sprintf(gameFormat, a...), "")
}

// EmptyCommand returns the error for a command line with nothing in it.
func EmptyCommand() error {
	return WrapInterpreter(ErrEmptyCommand, "Empty command", "")
}

// UnknownCommand returns the error for a command line whose keyword is not
// registered.
func UnknownCommand(keyword string) error {
	return WrapInterpreter(ErrUnknownCommand, fmt.Sprintf("Unknown command %q", keyword), "")
}

// Syntax returns the error for a command line that no grammar of its keyword
// matches. usage is appended to the message shown to the sender.
func Syntax(usage string) error {
	return WrapInterpreter(ErrSyntax, "Invalid syntax. Usage:\n"+usage, "")
}

// Internal returns the opaque error given to a sender when dispatch had to be
// aborted. technical is not shown to the sender.
func Internal(technical string) error {
	return WrapInterpreter(ErrInternal, InternalMessage, technical)
}

// GameMessage gets the message to display to the sender for the given error.
// If it is one of the types defined in tqerrors, the special game message is
// returned. Otherwise, err.Error() is returned.
func GameMessage(err error) string {
	var intErr *interpreterError
	if errors.As(err, &intErr) {
		return intErr.GameMessage()
	}
	return err.Error()
}
