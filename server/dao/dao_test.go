package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseRole(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expect      Role
		expectLevel int
		expectErr   bool
	}{
		{name: "normal", input: "normal", expect: Normal, expectLevel: 0},
		{name: "moderator", input: "Moderator", expect: Moderator, expectLevel: 2},
		{name: "operator", input: "OPERATOR", expect: Operator, expectLevel: 3},
		{name: "admin", input: "admin", expect: Admin, expectLevel: 4},
		{name: "unknown", input: "guest", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseRole(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
			assert.Equal(tc.expectLevel, actual.PermissionLevel())

			reparsed, err := ParseRole(actual.String())
			assert.NoError(err)
			assert.Equal(actual, reparsed)
		})
	}
}
