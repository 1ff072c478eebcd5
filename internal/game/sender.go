package game

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tunacmd/internal/command"
)

// ConsoleName is the name that the server console sends commands as.
const ConsoleName = "Server"

// Console is the operator at the server's own terminal. It always has the
// highest permission level. Messages are written to its output followed by a
// newline, with any line longer than its width wrapped.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	width int
}

// NewConsole creates a Console that writes to out. If width is greater than 0,
// messages are wrapped to it.
func NewConsole(out io.Writer, width int) *Console {
	return &Console{out: out, width: width}
}

func (c *Console) Name() string {
	return ConsoleName
}

func (c *Console) Kind() command.SenderKind {
	return command.SenderConsole
}

func (c *Console) PermissionLevel() int {
	return command.MaxPermissionLevel
}

func (c *Console) SendMessage(msg string) {
	if c.width > 0 {
		lines := strings.Split(msg, "\n")
		for i := range lines {
			if len(lines[i]) > c.width {
				lines[i] = rosed.Edit(lines[i]).Wrap(c.width).String()
			}
		}
		msg = strings.Join(lines, "\n")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, msg)
}

// Remote is an operator using the remote API who is not acting as a player in
// the world. Messages sent to it are collected so they can be returned in the
// response to the request that sent the command.
type Remote struct {
	mu    sync.Mutex
	name  string
	level int
	msgs  []string
}

// NewRemote creates a Remote sender with the given name and permission level.
func NewRemote(name string, level int) *Remote {
	return &Remote{name: name, level: level}
}

func (r *Remote) Name() string {
	return r.name
}

func (r *Remote) Kind() command.SenderKind {
	return command.SenderRemote
}

func (r *Remote) PermissionLevel() int {
	return r.level
}

func (r *Remote) SendMessage(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

// Messages returns every message the Remote was sent, in order.
func (r *Remote) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}
