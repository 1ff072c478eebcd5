// Package game holds the state of the world that server commands act on: the
// players that have joined it and whether the server is still running. It also
// provides the non-player senders, Console and Remote.
package game

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dekarrin/tunacmd/internal/command"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

var (
	// ErrNoPlayer is returned when a named player is not in the world.
	ErrNoPlayer = errors.New("no such player")

	// ErrPlayerExists is returned when adding a player whose name is taken.
	ErrPlayerExists = errors.New("player already exists")

	// ErrOffline is returned when a player must be online and is not.
	ErrOffline = errors.New("player is not online")
)

// Receiver is anything that can be shown a message.
type Receiver interface {
	SendMessage(msg string)
}

// World is the shared state of the running server. All methods are safe to
// call concurrently.
type World struct {
	mu        sync.RWMutex
	name      string
	motd      string
	players   map[string]*Player
	listeners []Receiver

	stopOnce sync.Once
	done     chan struct{}

	log *zap.Logger
}

// NewWorld creates an empty world called name. If log is nil, nothing is
// logged.
func NewWorld(name string, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		name:    name,
		players: map[string]*Player{},
		done:    make(chan struct{}),
		log:     log,
	}
}

func playerKey(name string) string {
	return cases.Fold().String(name)
}

// Name is the name of the world.
func (w *World) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// MOTD is the message shown to players when they join.
func (w *World) MOTD() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.motd
}

// AddPlayer adds a new offline player to the world. Player names are compared
// without regard to case.
func (w *World) AddPlayer(name string, opLevel int, mode Gamemode) (*Player, error) {
	if len(command.Tokenize(name)) != 1 {
		return nil, fmt.Errorf("player name %q must be a single word", name)
	}
	if opLevel < 0 || opLevel > command.MaxPermissionLevel {
		return nil, fmt.Errorf("op level must be between 0 and %d", command.MaxPermissionLevel)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid game mode %d", int(mode))
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	key := playerKey(name)
	if _, ok := w.players[key]; ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerExists, name)
	}

	p := &Player{name: name, opLevel: opLevel, mode: mode}
	w.players[key] = p
	return p, nil
}

// Join brings the named player online, adding them as a new survival player
// with no permissions if they have never joined before.
func (w *World) Join(name string) (*Player, error) {
	p, ok := w.Player(name)
	if !ok {
		var err error
		p, err = w.AddPlayer(name, 0, Survival)
		if err != nil && !errors.Is(err, ErrPlayerExists) {
			return nil, err
		}
		if err != nil {
			// lost a race with another join of the same name
			p, _ = w.Player(name)
		}
	}

	if !p.Online() {
		p.setOnline(true)
		w.log.Info("player joined", zap.String("player", p.Name()))
		w.Broadcast(p.Name() + " joined the game")
		if motd := w.MOTD(); motd != "" {
			p.SendMessage(motd)
		}
	}
	return p, nil
}

// Leave takes the named player offline.
func (w *World) Leave(name string) error {
	p, ok := w.Player(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPlayer, name)
	}
	if !p.Online() {
		return fmt.Errorf("%w: %s", ErrOffline, p.Name())
	}

	p.setOnline(false)
	w.log.Info("player left", zap.String("player", p.Name()))
	w.Broadcast(p.Name() + " left the game")
	return nil
}

// Player gets the player called name, online or not.
func (w *World) Player(name string) (*Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.players[playerKey(name)]
	return p, ok
}

// OnlinePlayer gets the player called name only if they are online.
func (w *World) OnlinePlayer(name string) (*Player, bool) {
	p, ok := w.Player(name)
	if !ok || !p.Online() {
		return nil, false
	}
	return p, true
}

// Players returns every player in the world sorted by name.
func (w *World) Players() []*Player {
	w.mu.RLock()
	all := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		all = append(all, p)
	}
	w.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return playerKey(all[i].name) < playerKey(all[j].name)
	})
	return all
}

// Online returns every online player sorted by name.
func (w *World) Online() []*Player {
	var online []*Player
	for _, p := range w.Players() {
		if p.Online() {
			online = append(online, p)
		}
	}
	return online
}

// Listen adds r to the receivers that are shown every broadcast in addition to
// online players.
func (w *World) Listen(r Receiver) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, r)
}

// Broadcast shows msg to every online player and every listener.
func (w *World) Broadcast(msg string) {
	w.mu.RLock()
	listeners := append([]Receiver(nil), w.listeners...)
	w.mu.RUnlock()

	w.log.Debug("broadcast", zap.String("message", msg))
	for _, p := range w.Online() {
		p.SendMessage(msg)
	}
	for _, l := range listeners {
		l.SendMessage(msg)
	}
}

// Kick takes an online player offline and tells them why.
func (w *World) Kick(name, reason string) error {
	p, ok := w.OnlinePlayer(name)
	if !ok {
		if _, exists := w.Player(name); exists {
			return fmt.Errorf("%w: %s", ErrOffline, name)
		}
		return fmt.Errorf("%w: %s", ErrNoPlayer, name)
	}

	if reason == "" {
		reason = "Kicked by an operator"
	}
	p.SendMessage("You were kicked: " + reason)
	p.setOnline(false)
	w.log.Info("player kicked", zap.String("player", p.Name()), zap.String("reason", reason))
	w.Broadcast(p.Name() + " was kicked: " + reason)
	return nil
}

// SetOpLevel changes the permission level of a player.
func (w *World) SetOpLevel(name string, level int) error {
	if level < 0 || level > command.MaxPermissionLevel {
		return fmt.Errorf("op level must be between 0 and %d", command.MaxPermissionLevel)
	}
	p, ok := w.Player(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPlayer, name)
	}

	p.setOpLevel(level)
	w.log.Info("op level changed", zap.String("player", p.Name()), zap.Int("level", level))
	return nil
}

// Stop marks the world as stopped. It is safe to call more than once.
func (w *World) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("world stopping")
		close(w.done)
	})
}

// Done returns a channel that is closed once Stop has been called.
func (w *World) Done() <-chan struct{} {
	return w.done
}

// Stopped returns whether Stop has been called.
func (w *World) Stopped() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}
