package arg

import (
	"testing"

	"github.com/dekarrin/tunacmd/internal/command"
	"github.com/dekarrin/tunacmd/internal/game"
	"github.com/stretchr/testify/assert"
)

func Test_Consumers(t *testing.T) {
	w := game.NewWorld("test", nil)
	w.AddPlayer("Steve", 0, game.Survival)
	findPlayer := Player(w.Player)

	console := game.NewRemote("op", command.MaxPermissionLevel)

	testCases := []struct {
		name       string
		consumer   command.Consumer
		input      []string
		expect     any
		expectOK   bool
		expectLeft []string
	}{
		{
			name:       "word",
			consumer:   Word(),
			input:      []string{"hello", "there"},
			expect:     "hello",
			expectOK:   true,
			expectLeft: []string{"there"},
		},
		{
			name:       "word with nothing",
			consumer:   Word(),
			input:      nil,
			expectLeft: []string{},
		},
		{
			name:       "int in range",
			consumer:   Int(0, 4),
			input:      []string{"4"},
			expect:     4,
			expectOK:   true,
			expectLeft: []string{},
		},
		{
			name:       "int out of range",
			consumer:   Int(0, 4),
			input:      []string{"5", "x"},
			expectLeft: []string{"5", "x"},
		},
		{
			name:       "int not a number",
			consumer:   Int(0, 4),
			input:      []string{"four"},
			expectLeft: []string{"four"},
		},
		{
			name:       "choice ignores case",
			consumer:   Choice("day", "night"),
			input:      []string{"NiGhT"},
			expect:     "night",
			expectOK:   true,
			expectLeft: []string{},
		},
		{
			name:       "choice not listed",
			consumer:   Choice("day", "night"),
			input:      []string{"noon"},
			expectLeft: []string{"noon"},
		},
		{
			name:       "gamemode",
			consumer:   Gamemode(),
			input:      []string{"Creative", "steve"},
			expect:     game.Creative,
			expectOK:   true,
			expectLeft: []string{"steve"},
		},
		{
			name:       "gamemode unknown",
			consumer:   Gamemode(),
			input:      []string{"hardcore"},
			expectLeft: []string{"hardcore"},
		},
		{
			name:       "player unknown",
			consumer:   findPlayer,
			input:      []string{"herobrine"},
			expectLeft: []string{"herobrine"},
		},
		{
			name:       "position absolute",
			consumer:   Position(),
			input:      []string{"1", "64.5", "-3", "extra"},
			expect:     game.Position{X: 1, Y: 64.5, Z: -3},
			expectOK:   true,
			expectLeft: []string{"extra"},
		},
		{
			name:       "position relative to origin for non-player",
			consumer:   Position(),
			input:      []string{"~", "~10", "5"},
			expect:     game.Position{X: 0, Y: 10, Z: 5},
			expectOK:   true,
			expectLeft: []string{},
		},
		{
			name:       "position too few tokens",
			consumer:   Position(),
			input:      []string{"1", "2"},
			expectLeft: []string{"1", "2"},
		},
		{
			name:       "position bad last coordinate consumes nothing",
			consumer:   Position(),
			input:      []string{"1", "2", "up"},
			expectLeft: []string{"1", "2", "up"},
		},
		{
			name:       "position rejects NaN",
			consumer:   Position(),
			input:      []string{"NaN", "2", "3"},
			expectLeft: []string{"NaN", "2", "3"},
		},
		{
			name:       "greedy",
			consumer:   Greedy(),
			input:      []string{"hello", "big", "world"},
			expect:     "hello big world",
			expectOK:   true,
			expectLeft: []string{},
		},
		{
			name:       "greedy needs a token",
			consumer:   Greedy(),
			input:      nil,
			expectLeft: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			args := command.NewRawArgs(tc.input)

			actual, ok := tc.consumer.Consume(console, args)

			assert.Equal(tc.expectOK, ok)
			if tc.expectOK {
				assert.Equal(tc.expect, actual)
			}
			assert.Equal(tc.expectLeft, args.Remaining())
		})
	}
}

func Test_Player_found(t *testing.T) {
	assert := assert.New(t)

	w := game.NewWorld("test", nil)
	steve, _ := w.AddPlayer("Steve", 0, game.Survival)

	args := command.NewRawArgs([]string{"steve"})
	actual, ok := Player(w.Player).Consume(steve, args)

	assert.True(ok)
	assert.Same(steve, actual)
	assert.True(args.Empty())
}

func Test_Position_relativeToPlayer(t *testing.T) {
	assert := assert.New(t)

	w := game.NewWorld("test", nil)
	steve, _ := w.AddPlayer("steve", 0, game.Survival)
	steve.Teleport(game.Position{X: 10, Y: 64, Z: -5})

	args := command.NewRawArgs([]string{"~1", "~", "~-5"})
	actual, ok := Position().Consume(steve, args)

	assert.True(ok)
	assert.Equal(game.Position{X: 11, Y: 64, Z: -10}, actual)
}
