package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/casengine"
	"github.com/dekarrin/casengine/internal/i18n"
	"github.com/dekarrin/casengine/internal/util"
)

const outputWidth = 80

// Session holds the streams and reader needed to run an interactive casengine
// prompt, mirroring the role the teacher's top-level Engine played for its
// own game loop.
type Session struct {
	in          reader
	out         *bufio.Writer
	strings     *i18n.Table
	forceDirect bool
	running     bool
}

// New builds a Session over the given streams. If inputStream is os.Stdin,
// outputStream is os.Stdout, and forceDirect is false, input is read via
// readline-style editing; otherwise it is read as plain lines, the same
// decision the teacher's Engine.New makes for its own input/output pair.
func New(inputStream io.Reader, outputStream io.Writer, forceDirect bool) (*Session, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	strs, err := i18n.Default()
	if err != nil {
		return nil, fmt.Errorf("load message strings: %w", err)
	}

	sess := &Session{
		out:         bufio.NewWriter(outputStream),
		strings:     strs,
		forceDirect: forceDirect,
	}

	useReadline := !forceDirect && inputStream == os.Stdin && outputStream == os.Stdout
	prompt := strs.Lookup("prompt")
	if useReadline {
		sess.in, err = newInteractiveReader(prompt)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		sess.in = newDirectReader(inputStream, outputStream)
		sess.in.SetPrompt(prompt)
	}

	return sess, nil
}

// Close tears down any readline resources held by the session.
func (s *Session) Close() error {
	if s.running {
		return fmt.Errorf("cannot close a running session")
	}
	return s.in.Close()
}

func (s *Session) writeln(msg string) error {
	if _, err := s.out.WriteString(msg + "\n"); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return s.out.Flush()
}

// RunUntilQuit reads expressions from the session's input until "quit" (or
// EOF), printing the analysis of each. Any startCommands are run immediately
// before reading interactively, mirroring the teacher's -c/--command flag.
func (s *Session) RunUntilQuit(startCommands []string) error {
	if err := s.writeln(s.strings.Lookup("welcome")); err != nil {
		return err
	}

	s.running = true
	defer func() { s.running = false }()

	for _, cmd := range startCommands {
		cmd = strings.TrimSpace(cmd)
		if cmd == "" {
			continue
		}
		if err := s.evalAndPrint(cmd); err != nil {
			return err
		}
	}

	for s.running {
		line, err := s.in.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "quit") || strings.EqualFold(line, "exit") {
			break
		}
		if err := s.evalAndPrint(line); err != nil {
			return err
		}
	}

	return s.writeln("Goodbye")
}

func (s *Session) evalAndPrint(input string) error {
	eval, err := casengine.Analyze(input)
	if err != nil {
		msg := s.strings.Lookup("syntax-error", err.Error())
		return s.writeln(rosed.Edit(msg).Wrap(outputWidth).String())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "= %s\n", eval.Bundle.Result.String())
	fmt.Fprintf(&b, "strategy: %s\n", eval.Strategy)
	for _, step := range eval.Bundle.Steps {
		fmt.Fprintf(&b, "  - %s\n", step.Description)
	}
	if eval.Approx != "" {
		fmt.Fprintln(&b, s.strings.Lookup("result-approx", eval.Approx))
	}
	fmt.Fprintln(&b, s.strings.Lookup("result-tex", eval.Tex))
	if len(eval.Bundle.FollowUps) > 0 {
		labels := make([]string, len(eval.Bundle.FollowUps))
		for i, f := range eval.Bundle.FollowUps {
			labels[i] = f.Label
		}
		fmt.Fprintf(&b, "next: try %s\n", util.MakeTextList(labels))
	}

	return s.writeln(rosed.Edit(strings.TrimRight(b.String(), "\n")).Wrap(outputWidth).String())
}
