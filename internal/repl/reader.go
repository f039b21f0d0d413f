// Package repl drives an interactive read-eval-print loop over casengine's
// analysis pipeline, the same role the teacher's top-level Engine played for
// its game loop (engine.go), reading commands via the same
// readline-or-direct split the teacher's internal/input package offers.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// reader is anything that can fetch one line of user input at a time and be
// closed when the REPL ends.
type reader interface {
	ReadLine() (string, error)
	Close() error
	SetPrompt(string)
}

// directReader reads raw lines from any io.Reader, with no history or
// editing support. Used for piped input and non-tty sessions.
type directReader struct {
	r      *bufio.Reader
	prompt string
	out    io.Writer
}

func newDirectReader(in io.Reader, out io.Writer) *directReader {
	return &directReader{r: bufio.NewReader(in), out: out}
}

func (d *directReader) SetPrompt(p string) { d.prompt = p }

func (d *directReader) ReadLine() (string, error) {
	if d.prompt != "" && d.out != nil {
		fmt.Fprint(d.out, d.prompt)
	}
	line, err := d.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (d *directReader) Close() error { return nil }

// interactiveReader reads lines via GNU-readline-style editing and history,
// meant for a real tty session.
type interactiveReader struct {
	rl *readline.Instance
}

func newInteractiveReader(prompt string) (*interactiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &interactiveReader{rl: rl}, nil
}

func (i *interactiveReader) SetPrompt(p string) { i.rl.SetPrompt(p) }

func (i *interactiveReader) ReadLine() (string, error) {
	line, err := i.rl.Readline()
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (i *interactiveReader) Close() error { return i.rl.Close() }
