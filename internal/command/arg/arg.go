// Package arg has the argument consumers used by the server's commands. Every
// consumer here takes tokens only when they make a valid value; when it
// reports no value the stack is exactly as it was given.
package arg

import (
	"math"
	"strconv"
	"strings"

	"github.com/dekarrin/tunacmd/internal/command"
	"github.com/dekarrin/tunacmd/internal/game"
	"golang.org/x/text/cases"
)

// Word consumes a single token of any content and produces it as a string.
func Word() command.Consumer {
	return command.ConsumerFunc(func(_ command.Sender, args *command.RawArgs) (any, bool) {
		return args.Pop()
	})
}

// Int consumes one token that is a base-10 integer from min to max inclusive
// and produces it as an int.
func Int(min, max int) command.Consumer {
	return command.ConsumerFunc(func(_ command.Sender, args *command.RawArgs) (any, bool) {
		tok, ok := args.Peek()
		if !ok {
			return nil, false
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < min || n > max {
			return nil, false
		}
		args.Pop()
		return n, true
	})
}

// Choice consumes one token that is equal to one of values, ignoring case, and
// produces the matching entry of values as a string.
func Choice(values ...string) command.Consumer {
	folder := cases.Fold()
	folded := make(map[string]string, len(values))
	for _, v := range values {
		folded[folder.String(v)] = v
	}

	return command.ConsumerFunc(func(_ command.Sender, args *command.RawArgs) (any, bool) {
		tok, ok := args.Peek()
		if !ok {
			return nil, false
		}
		v, ok := folded[cases.Fold().String(tok)]
		if !ok {
			return nil, false
		}
		args.Pop()
		return v, true
	})
}

// Gamemode consumes one token naming a game mode and produces it as a
// game.Gamemode.
func Gamemode() command.Consumer {
	return command.ConsumerFunc(func(_ command.Sender, args *command.RawArgs) (any, bool) {
		tok, ok := args.Peek()
		if !ok {
			return nil, false
		}
		gm, err := game.ParseGamemode(tok)
		if err != nil {
			return nil, false
		}
		args.Pop()
		return gm, true
	})
}

// Player consumes one token naming a player that find can locate and produces
// whatever find returns for it.
func Player[T any](find func(name string) (T, bool)) command.Consumer {
	return command.ConsumerFunc(func(_ command.Sender, args *command.RawArgs) (any, bool) {
		tok, ok := args.Peek()
		if !ok {
			return nil, false
		}
		p, ok := find(tok)
		if !ok {
			return nil, false
		}
		args.Pop()
		return p, true
	})
}

// Position consumes three tokens giving the X, Y, and Z of a location and
// produces a game.Position. A coordinate prefixed with ~ is relative to the
// sender's own position if the sender is a player, and relative to the origin
// otherwise; a bare ~ is the same as ~0. Either all three tokens are consumed
// or none are.
func Position() command.Consumer {
	return command.ConsumerFunc(func(src command.Sender, args *command.RawArgs) (any, bool) {
		remaining := args.Remaining()
		if len(remaining) < 3 {
			return nil, false
		}

		var origin game.Position
		if p, ok := src.(*game.Player); ok {
			origin = p.Position()
		}

		x, okX := parseCoord(remaining[0], origin.X)
		y, okY := parseCoord(remaining[1], origin.Y)
		z, okZ := parseCoord(remaining[2], origin.Z)
		if !okX || !okY || !okZ {
			return nil, false
		}

		args.Take(3)
		return game.Position{X: x, Y: y, Z: z}, true
	})
}

func parseCoord(tok string, relativeTo float64) (float64, bool) {
	relative := strings.HasPrefix(tok, "~")
	if relative {
		tok = tok[1:]
		if tok == "" {
			return relativeTo, true
		}
	}

	f, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if relative {
		f += relativeTo
	}
	return f, true
}

// Greedy consumes every remaining token and produces them joined by single
// spaces. It requires at least one token.
func Greedy() command.Consumer {
	return command.ConsumerFunc(func(_ command.Sender, args *command.RawArgs) (any, bool) {
		if args.Empty() {
			return nil, false
		}
		return strings.Join(args.Drain(), " "), true
	})
}
