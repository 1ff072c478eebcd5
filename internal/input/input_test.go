package input

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DirectReader_ReadLine(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "empty", input: "", expect: nil},
		{name: "one line no newline", input: "list", expect: []string{"list"}},
		{name: "blank lines skipped", input: "\n  \nsay hi\n\n\tlist \n", expect: []string{"say hi", "list"}},
		{name: "trailing blank at end", input: "stop\n   ", expect: []string{"stop"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewDirectReader(strings.NewReader(tc.input))
			defer r.Close()

			var actual []string
			for {
				line, err := r.ReadLine()
				if err == io.EOF {
					break
				}
				if !assert.NoError(err) {
					return
				}
				actual = append(actual, line)
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_DirectReader_Close(t *testing.T) {
	t.Run("closes underlying closer", func(t *testing.T) {
		assert := assert.New(t)

		pr, pw := io.Pipe()
		r := NewDirectReader(pr)

		readErr := make(chan error, 1)
		go func() {
			_, err := r.ReadLine()
			readErr <- err
		}()

		assert.NoError(r.Close())
		assert.ErrorIs(<-readErr, io.ErrClosedPipe)

		_, err := pw.Write([]byte("list\n"))
		assert.ErrorIs(err, io.ErrClosedPipe)
	})

	t.Run("plain reader", func(t *testing.T) {
		assert := assert.New(t)

		r := NewDirectReader(strings.NewReader("list\n"))

		assert.NoError(r.Close())
	})
}
