// Package input reads command lines for the server console from a terminal or
// any other stream.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader gives the console one command line at a time.
type Reader interface {
	// ReadLine blocks until a line that is not blank is read and returns it
	// with surrounding whitespace removed. At end of input it returns io.EOF.
	ReadLine() (string, error)

	// Close releases whatever the Reader holds. It must be called when the
	// Reader is no longer needed.
	Close() error
}

// DirectReader implements Reader by reading lines straight from any
// io.Reader. It does not interpret control or escape sequences, so it is best
// for piped input.
//
// Create one with NewDirectReader.
type DirectReader struct {
	r      *bufio.Reader
	closer io.Closer
}

// InteractiveReader implements Reader with a go implementation of GNU
// Readline, which keeps typing and editing escape sequences out of the line.
// Lines are not saved to a history file. It should only be used when
// connected to a TTY.
//
// Create one with NewInteractiveReader.
type InteractiveReader struct {
	rl *readline.Instance
}

// NewDirectReader creates a DirectReader over r. If r is also an io.Closer,
// closing the DirectReader closes r.
func NewDirectReader(r io.Reader) *DirectReader {
	dr := &DirectReader{r: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		dr.closer = c
	}
	return dr
}

// NewInteractiveReader initializes readline on the terminal with the given
// prompt.
func NewInteractiveReader(prompt string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "stop",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveReader{rl: rl}, nil
}

// Close closes the underlying reader if it can be closed, which makes a
// ReadLine blocked on it return. Some readers, such as a terminal, do not
// unblock when closed.
func (dr *DirectReader) Close() error {
	if dr.closer == nil {
		return nil
	}
	return dr.closer.Close()
}

// Close tears down readline.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// ReadLine reads the next non-blank line.
func (dr *DirectReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line == "" && err == io.EOF {
			return "", io.EOF
		}
	}

	return line, nil
}

// ReadLine reads the next non-blank line from the terminal. Pressing Ctrl-C
// discards the line being typed.
func (ir *InteractiveReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = ir.rl.Readline()
		if err == readline.ErrInterrupt {
			line = ""
			continue
		}
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
	}

	return line, nil
}

// SetPrompt updates the prompt to the given text.
func (ir *InteractiveReader) SetPrompt(p string) {
	ir.rl.SetPrompt(p)
}

// Stdout is where output should be written so it does not garble the line
// being typed.
func (ir *InteractiveReader) Stdout() io.Writer {
	return ir.rl.Stdout()
}
