package tqerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_GameMessage(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		expect    string
		expectIs  error
		expectNot error
	}{
		{
			name:   "plain error",
			err:    errors.New("bad thing"),
			expect: "bad thing",
		},
		{
			name:   "interpreter error",
			err:    Interpreterf("You can't %s that", "take"),
			expect: "You can't take that",
		},
		{
			name:      "empty command",
			err:       EmptyCommand(),
			expect:    "Empty command",
			expectIs:  ErrEmptyCommand,
			expectNot: ErrUnknownCommand,
		},
		{
			name:      "unknown command",
			err:       UnknownCommand("foo"),
			expect:    `Unknown command "foo"`,
			expectIs:  ErrUnknownCommand,
			expectNot: ErrSyntax,
		},
		{
			name:     "syntax",
			err:      Syntax("gamemode survival"),
			expect:   "Invalid syntax. Usage:\ngamemode survival",
			expectIs: ErrSyntax,
		},
		{
			name:     "internal hides technical detail",
			err:      Internal("handler for \"kick\" got wrong type"),
			expect:   InternalMessage,
			expectIs: ErrInternal,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("dispatch: %w", Syntax("say <message>")),
			expect:   "Invalid syntax. Usage:\nsay <message>",
			expectIs: ErrSyntax,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, GameMessage(tc.err))
			if tc.expectIs != nil {
				assert.ErrorIs(tc.err, tc.expectIs)
			}
			if tc.expectNot != nil {
				assert.NotErrorIs(tc.err, tc.expectNot)
			}
		})
	}
}

func Test_Internal_technicalMessageKept(t *testing.T) {
	assert := assert.New(t)

	err := Internal("consumed \"abc\" could not be parsed")

	assert.Equal("consumed \"abc\" could not be parsed", err.Error())
}
