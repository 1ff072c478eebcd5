// Package service has the operations of the tunacmd server, decoupled from
// the HTTP API that exposes them.
package service

import (
	"github.com/dekarrin/tunacmd/internal/command"
	"github.com/dekarrin/tunacmd/internal/game"
	"github.com/dekarrin/tunacmd/server/dao"
	"golang.org/x/crypto/bcrypt"
)

// Service performs the actions requested of the server. Account changes are
// kept in DB and commands are run with Dispatcher.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB and set Registry, Dispatcher, and World before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// Registry lists the commands that can be sent.
	Registry *command.Registry

	// Dispatcher runs commands that accounts send.
	Dispatcher *command.Dispatcher

	// World is where accounts join as players. It must be the world that
	// Dispatcher's commands act on.
	World *game.World

	// PasswordCost is the bcrypt cost used to hash new passwords. If 0,
	// bcrypt.DefaultCost is used.
	PasswordCost int
}

func (svc Service) passwordCost() int {
	if svc.PasswordCost == 0 {
		return bcrypt.DefaultCost
	}
	return svc.PasswordCost
}
