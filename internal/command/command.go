// Package command routes raw command lines to the handler of the one grammar
// that matches them exactly.
//
// Each keyword is registered with a Tree, a set of grammars sharing that
// keyword. A grammar is a path from the root of the tree to an execute leaf,
// made up of literal tokens, typed arguments, and requirements on whoever sent
// the command. The Dispatcher tries every path of the keyword's tree in the
// order they were declared and runs the leaf of the first one that consumes
// the whole command line.
//
// Failures come in two flavors. A command line that doesn't fit any grammar is
// the sender's problem and produces an error with a message meant for them
// (see tqerrors.GameMessage). A grammar that accepted input which its handler
// then rejected is a bug in how the command was built; those are logged in
// full and the sender only ever sees a generic internal error.
package command

import (
	"strconv"
	"strings"
)

// MaxPermissionLevel is the permission level held by the server console. No
// requirement can demand more than this.
const MaxPermissionLevel = 4

// SenderKind is the kind of actor that sent a command.
type SenderKind int

const (
	// SenderConsole is the operator at the server's own console.
	SenderConsole SenderKind = iota

	// SenderPlayer is a player in the game world.
	SenderPlayer

	// SenderRemote is an operator connected over the remote API who is not
	// acting as any player.
	SenderRemote
)

func (sk SenderKind) String() string {
	switch sk {
	case SenderConsole:
		return "console"
	case SenderPlayer:
		return "player"
	case SenderRemote:
		return "remote"
	default:
		return "SenderKind(" + strconv.Itoa(int(sk)) + ")"
	}
}

// Sender is whoever sent a command. It is passed untouched to every consumer,
// predicate, and handler along the path being tried.
type Sender interface {
	// Name is the display name of the sender.
	Name() string

	// Kind is what type of actor the sender is.
	Kind() SenderKind

	// PermissionLevel is the level of access the sender has, from 0 to
	// MaxPermissionLevel.
	PermissionLevel() int

	// SendMessage shows a message to the sender.
	SendMessage(msg string)
}

// Tokenize splits a command line on ASCII whitespace. Other whitespace
// characters, such as a non-breaking space, are kept as part of a token.
func Tokenize(line string) []string {
	return strings.FieldsFunc(line, isASCIISpace)
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	default:
		return false
	}
}
