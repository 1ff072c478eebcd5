// Package require has the predicates that server commands use to restrict who
// may take a path.
package require

import "github.com/dekarrin/tunacmd/internal/command"

// PermissionLevel holds for senders whose permission level is at least level.
func PermissionLevel(level int) command.Predicate {
	return command.PredicateFunc(func(src command.Sender) bool {
		return src.PermissionLevel() >= level
	})
}

// Player holds for senders that are players in the world.
func Player() command.Predicate {
	return Kind(command.SenderPlayer)
}

// Console holds only for the server console.
func Console() command.Predicate {
	return Kind(command.SenderConsole)
}

// Kind holds for senders of the given kind.
func Kind(kind command.SenderKind) command.Predicate {
	return command.PredicateFunc(func(src command.Sender) bool {
		return src.Kind() == kind
	})
}

// Not holds when p does not.
func Not(p command.Predicate) command.Predicate {
	return command.PredicateFunc(func(src command.Sender) bool {
		return !p.Test(src)
	})
}

// All holds when every one of preds does.
func All(preds ...command.Predicate) command.Predicate {
	return command.PredicateFunc(func(src command.Sender) bool {
		for _, p := range preds {
			if !p.Test(src) {
				return false
			}
		}
		return true
	})
}
