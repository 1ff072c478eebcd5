package service

import (
	"errors"

	"github.com/dekarrin/tunacmd/internal/command"
	"github.com/dekarrin/tunacmd/internal/game"
	"github.com/dekarrin/tunacmd/internal/tqerrors"
	"github.com/dekarrin/tunacmd/server/dao"
)

// CommandResult is what came of running one command line for an account.
type CommandResult struct {
	// Output is every message the command sent back to the account.
	Output []string

	// Err is the dispatch error, or nil if the command ran. Its GameMessage
	// is suitable for showing to the account.
	Err error
}

// OK returns whether the command ran without error.
func (cr CommandResult) OK() bool {
	return cr.Err == nil
}

// Internal returns whether the command failed because of a fault in the
// server's command definitions rather than anything the account did.
func (cr CommandResult) Internal() bool {
	return errors.Is(cr.Err, tqerrors.ErrInternal)
}

// RunCommand dispatches line as a remote operator named after the account,
// with the permission level of the account's role.
func (svc Service) RunCommand(acct dao.Account, line string) CommandResult {
	src := game.NewRemote(acct.Username, acct.Role.PermissionLevel())
	err := svc.Dispatcher.Dispatch(src, line)
	return CommandResult{Output: src.Messages(), Err: err}
}

// Commands returns every registered command, sorted by name.
func (svc Service) Commands() []command.Entry {
	return svc.Registry.Entries()
}
