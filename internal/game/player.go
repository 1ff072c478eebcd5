package game

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/dekarrin/tunacmd/internal/command"
)

// Position is a location in the world.
type Position struct {
	X, Y, Z float64
}

func (p Position) String() string {
	return fmt.Sprintf("%s %s %s", fmtCoord(p.X), fmtCoord(p.Y), fmtCoord(p.Z))
}

func fmtCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Player is a player known to a World. It implements command.Sender; messages
// sent to it are kept until they are taken with TakeMessages.
type Player struct {
	mu      sync.Mutex
	name    string
	opLevel int
	mode    Gamemode
	online  bool
	pos     Position
	inbox   []string
}

// Name is the name the player joined with.
func (p *Player) Name() string {
	return p.name
}

// Kind is always command.SenderPlayer.
func (p *Player) Kind() command.SenderKind {
	return command.SenderPlayer
}

// PermissionLevel is the player's op level.
func (p *Player) PermissionLevel() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opLevel
}

// SendMessage adds msg to the messages waiting to be taken.
func (p *Player) SendMessage(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inbox = append(p.inbox, msg)
}

// Messages returns every message sent to the player that has not been taken.
func (p *Player) Messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.inbox...)
}

// TakeMessages returns every message sent to the player that has not been
// taken and clears them.
func (p *Player) TakeMessages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := p.inbox
	p.inbox = nil
	return msgs
}

// Gamemode is the player's current game mode.
func (p *Player) Gamemode() Gamemode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// SetGamemode changes the player's game mode.
func (p *Player) SetGamemode(gm Gamemode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = gm
}

// Position is where the player is.
func (p *Player) Position() Position {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

// Teleport moves the player to pos.
func (p *Player) Teleport(pos Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = pos
}

// Online returns whether the player has joined and not yet left.
func (p *Player) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

func (p *Player) setOnline(online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online = online
}

func (p *Player) setOpLevel(level int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opLevel = level
}

// state gives a copy of everything about the player that is saved in a
// snapshot.
func (p *Player) state() playerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return playerState{
		Name:    p.name,
		OpLevel: p.opLevel,
		Mode:    p.mode,
		Online:  p.online,
		Pos:     p.pos,
	}
}
