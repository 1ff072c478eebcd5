package game

import (
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
)

// Gamemode is the set of rules a player is currently playing under.
type Gamemode int

const (
	Survival Gamemode = iota
	Creative
	Adventure
	Spectator
)

// Gamemodes is every Gamemode in order of their numeric IDs.
var Gamemodes = []Gamemode{Survival, Creative, Adventure, Spectator}

var gamemodeNames = map[Gamemode]string{
	Survival:  "survival",
	Creative:  "creative",
	Adventure: "adventure",
	Spectator: "spectator",
}

var gamemodeAbbrevs = map[string]Gamemode{
	"s":  Survival,
	"c":  Creative,
	"a":  Adventure,
	"sp": Spectator,
}

func (gm Gamemode) String() string {
	if name, ok := gamemodeNames[gm]; ok {
		return name
	}
	return fmt.Sprintf("Gamemode(%d)", int(gm))
}

// Valid returns whether gm is one of the defined Gamemodes.
func (gm Gamemode) Valid() bool {
	_, ok := gamemodeNames[gm]
	return ok
}

// ParseGamemode gets the Gamemode that s names. It accepts the full name in any
// case, its one or two letter abbreviation, or its numeric ID.
func ParseGamemode(s string) (Gamemode, error) {
	folded := cases.Fold().String(s)

	for gm, name := range gamemodeNames {
		if folded == name {
			return gm, nil
		}
	}
	if gm, ok := gamemodeAbbrevs[folded]; ok {
		return gm, nil
	}
	if id, err := strconv.Atoi(s); err == nil && Gamemode(id).Valid() {
		return Gamemode(id), nil
	}

	return Survival, fmt.Errorf("%q is not a game mode", s)
}
