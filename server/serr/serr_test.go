package serr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Error(t *testing.T) {
	underlying := errors.New("disk on fire")

	testCases := []struct {
		name      string
		err       error
		expectMsg string
		expectIs  []error
		expectNot []error
	}{
		{
			name:      "message only",
			err:       New("username cannot be blank"),
			expectMsg: "username cannot be blank",
			expectNot: []error{ErrBadArgument},
		},
		{
			name:      "message and causes",
			err:       New("ID is not valid", ErrBadArgument),
			expectMsg: "ID is not valid: " + ErrBadArgument.Error(),
			expectIs:  []error{ErrBadArgument},
			expectNot: []error{ErrNotFound},
		},
		{
			name:      "nil causes are ignored",
			err:       New("password cannot be blank", nil, ErrBadArgument),
			expectMsg: "password cannot be blank: " + ErrBadArgument.Error(),
			expectIs:  []error{ErrBadArgument},
		},
		{
			name:      "db wrap",
			err:       WrapDB("", underlying),
			expectMsg: "disk on fire",
			expectIs:  []error{underlying, ErrDB},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expectMsg, tc.err.Error())
			for _, target := range tc.expectIs {
				assert.ErrorIs(tc.err, target)
			}
			for _, target := range tc.expectNot {
				assert.NotErrorIs(tc.err, target)
			}
		})
	}
}
