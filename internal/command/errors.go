package command

import (
	"errors"
	"fmt"
)

// ErrInvalidTree is the cause of every error returned when a tree is rejected
// at registration.
var ErrInvalidTree = errors.New("invalid command tree")

// TreeErrorKind is the kind of contract a command tree broke.
type TreeErrorKind int

const (
	// InvalidConsumption means an argument that a consumer had already
	// accepted turned out to be unusable once the handler ran.
	InvalidConsumption TreeErrorKind = iota

	// InvalidRequirement means something a require node on the path was
	// supposed to guarantee did not hold.
	InvalidRequirement
)

func (k TreeErrorKind) String() string {
	switch k {
	case InvalidConsumption:
		return "invalid consumption"
	case InvalidRequirement:
		return "invalid requirement"
	default:
		return fmt.Sprintf("TreeErrorKind(%d)", int(k))
	}
}

// TreeError is a bug in a command tree detected while running it. It is never
// the fault of the sender and its contents are never shown to them.
type TreeError struct {
	Kind TreeErrorKind

	// Detail describes what went wrong. It may be empty.
	Detail string
}

var (
	// ErrInvalidConsumption matches any TreeError of kind InvalidConsumption
	// when used with errors.Is.
	ErrInvalidConsumption = &TreeError{Kind: InvalidConsumption}

	// ErrInvalidRequirement is returned by a handler when a requirement that
	// should have been guaranteed by the path was not met. It also matches
	// any TreeError of kind InvalidRequirement when used with errors.Is.
	ErrInvalidRequirement = &TreeError{Kind: InvalidRequirement}
)

// InvalidConsumptionf returns a TreeError of kind InvalidConsumption with the
// given formatted detail.
func InvalidConsumptionf(format string, a ...interface{}) error {
	return &TreeError{Kind: InvalidConsumption, Detail: fmt.Sprintf(format, a...)}
}

// InvalidRequirementf returns a TreeError of kind InvalidRequirement with the
// given formatted detail.
func InvalidRequirementf(format string, a ...interface{}) error {
	return &TreeError{Kind: InvalidRequirement, Detail: fmt.Sprintf(format, a...)}
}

func (e *TreeError) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

// Is returns whether target is a TreeError of the same kind. A target with a
// detail only matches an error with the same detail.
func (e *TreeError) Is(target error) bool {
	t, ok := target.(*TreeError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Detail == "" || t.Detail == e.Detail)
}

// asTreeError converts an error returned by a handler into the TreeError it
// represents. Errors that are not already TreeErrors are accepted arguments
// the handler could not use, so they become InvalidConsumption.
func asTreeError(err error) *TreeError {
	var te *TreeError
	if errors.As(err, &te) {
		if te.Detail == "" && err.Error() != te.Error() {
			// keep context that was wrapped around the sentinel
			return &TreeError{Kind: te.Kind, Detail: err.Error()}
		}
		return te
	}
	return &TreeError{Kind: InvalidConsumption, Detail: err.Error()}
}
