package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Tokenize(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "empty",
			input:  "",
			expect: []string{},
		},
		{
			name:   "only whitespace",
			input:  " \t\r\n\f ",
			expect: []string{},
		},
		{
			name:   "single word",
			input:  "help",
			expect: []string{"help"},
		},
		{
			name:   "runs of mixed whitespace",
			input:  "  tp\tsteve \n 1  2\r\n3 ",
			expect: []string{"tp", "steve", "1", "2", "3"},
		},
		{
			name:   "non-ASCII space is part of token",
			input:  "say a b",
			expect: []string{"say", "a b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := Tokenize(tc.input)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_RawArgs_popOrder(t *testing.T) {
	testCases := []struct {
		name  string
		input []string
	}{
		{name: "none", input: nil},
		{name: "one", input: []string{"a"}},
		{name: "several", input: []string{"gamemode", "creative", "steve", "now"}},
		{name: "repeated values", input: []string{"x", "x", "y", "x"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ra := NewRawArgs(tc.input)

			var actual []string
			for {
				tok, ok := ra.Pop()
				if !ok {
					break
				}
				actual = append(actual, tok)
			}

			assert.Equal(tc.input, actual)
			assert.True(ra.Empty())
		})
	}
}

func Test_RawArgs_NewDoesNotModifyInput(t *testing.T) {
	assert := assert.New(t)

	input := []string{"a", "b", "c"}
	ra := NewRawArgs(input)
	ra.Pop()

	assert.Equal([]string{"a", "b", "c"}, input)
}

func Test_RawArgs_Clone(t *testing.T) {
	assert := assert.New(t)

	orig := NewRawArgs([]string{"a", "b", "c"})
	cp := orig.Clone()

	tok, _ := cp.Pop()
	assert.Equal("a", tok)
	assert.Equal(2, cp.Len())
	assert.Equal(3, orig.Len())
	assert.Equal([]string{"a", "b", "c"}, orig.Remaining())
}

func Test_RawArgs_Take(t *testing.T) {
	testCases := []struct {
		name       string
		input      []string
		n          int
		expect     []string
		expectOK   bool
		expectLeft []string
	}{
		{
			name:       "take some",
			input:      []string{"1", "2", "3", "4"},
			n:          3,
			expect:     []string{"1", "2", "3"},
			expectOK:   true,
			expectLeft: []string{"4"},
		},
		{
			name:       "take all",
			input:      []string{"1", "2"},
			n:          2,
			expect:     []string{"1", "2"},
			expectOK:   true,
			expectLeft: []string{},
		},
		{
			name:       "too many leaves stack alone",
			input:      []string{"1", "2"},
			n:          3,
			expectOK:   false,
			expectLeft: []string{"1", "2"},
		},
		{
			name:       "negative",
			input:      []string{"1"},
			n:          -1,
			expectOK:   false,
			expectLeft: []string{"1"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ra := NewRawArgs(tc.input)
			actual, ok := ra.Take(tc.n)

			assert.Equal(tc.expectOK, ok)
			if tc.expectOK {
				assert.Equal(tc.expect, actual)
			}
			assert.Equal(tc.expectLeft, ra.Remaining())
		})
	}
}

func Test_RawArgs_Peek(t *testing.T) {
	assert := assert.New(t)

	ra := NewRawArgs([]string{"x", "y"})

	tok, ok := ra.Peek()
	assert.True(ok)
	assert.Equal("x", tok)
	assert.Equal(2, ra.Len())

	ra.Drain()
	_, ok = ra.Peek()
	assert.False(ok)
}

func Test_Arg(t *testing.T) {
	args := ConsumedArgs{
		"count": 3,
		"name":  "steve",
	}

	t.Run("present with right type", func(t *testing.T) {
		assert := assert.New(t)

		actual, err := Arg[int](args, "count")

		assert.NoError(err)
		assert.Equal(3, actual)
	})

	t.Run("missing", func(t *testing.T) {
		assert := assert.New(t)

		_, err := Arg[int](args, "amount")

		assert.ErrorIs(err, ErrInvalidConsumption)
	})

	t.Run("wrong type", func(t *testing.T) {
		assert := assert.New(t)

		_, err := Arg[int](args, "name")

		assert.ErrorIs(err, ErrInvalidConsumption)
		assert.NotErrorIs(err, ErrInvalidRequirement)
	})

	t.Run("optional missing", func(t *testing.T) {
		assert := assert.New(t)

		_, present, err := OptionalArg[string](args, "reason")

		assert.NoError(err)
		assert.False(present)
	})

	t.Run("optional present", func(t *testing.T) {
		assert := assert.New(t)

		actual, present, err := OptionalArg[string](args, "name")

		assert.NoError(err)
		assert.True(present)
		assert.Equal("steve", actual)
	})
}
