package core

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/mercury/commands"
	"github.com/josephlewis42/mercury/core/cmderr"
)

// DefaultExitStatus is used by Terminate when none is configured.
const DefaultExitStatus = 666

// LineReader supplies lines of input, readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
}

// Options configures a Shell.
type Options struct {
	Session *commands.Session
	Reader  LineReader
	// Tokenizer defaults to Tokenize.
	Tokenizer Tokenizer
	// ExitStatus is passed to Exit by Terminate.
	ExitStatus int
	// Exit ends the program, os.Exit in production.
	Exit func(code int)
	// Logger receives diagnostics, it may be nil.
	Logger *log.Logger
}

// Shell is the read-eval loop.
type Shell struct {
	session    *commands.Session
	reader     LineReader
	tokenize   Tokenizer
	exitStatus int
	exit       func(code int)
	logger     *log.Logger

	terminateOnce sync.Once
}

func NewShell(opts Options) *Shell {
	s := &Shell{
		session:    opts.Session,
		reader:     opts.Reader,
		tokenize:   opts.Tokenizer,
		exitStatus: opts.ExitStatus,
		exit:       opts.Exit,
		logger:     opts.Logger,
	}

	if s.tokenize == nil {
		s.tokenize = Tokenize
	}
	if s.exitStatus == 0 {
		s.exitStatus = DefaultExitStatus
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	return s
}

// Session gets the state shared with builtins.
func (s *Shell) Session() *commands.Session {
	return s.session
}

// Run reads and evaluates lines until input is closed or an interrupt
// terminates the shell.
func (s *Shell) Run() error {
	for {
		line, err := s.reader.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Ctrl-C while the terminal is in raw mode never becomes a SIGINT.
			s.Terminate()
			return nil

		case err != nil:
			return err

		case len(line) == 0:
			continue // empty line
		}

		s.Eval(line)
	}
}

// Eval tokenizes and dispatches a single line, printing any failure.
func (s *Shell) Eval(line string) error {
	tokens, err := s.tokenize(line)
	if err != nil {
		s.logger.Printf("couldn't tokenize %q: %v", line, err)
		s.printError(cmderr.InvalidArgument)
		return cmderr.InvalidArgument
	}
	if len(tokens) == 0 {
		return nil
	}

	err = s.Dispatch(tokens)
	if err != nil {
		s.printError(err)
	}
	return err
}

// Dispatch runs tokens as a builtin, or launches them as processes if
// tokens[0] isn't a builtin.
func (s *Shell) Dispatch(tokens []string) error {
	err := commands.Execute(s.session, tokens)
	if errors.Is(err, cmderr.UnknownCommand) {
		return s.launchExternal(tokens)
	}
	return err
}

// launchExternal is the fallthrough for names that aren't builtins. The
// entire line is launched, split on "&&".
func (s *Shell) launchExternal(tokens []string) error {
	return s.session.Launcher.LaunchAll(tokens)
}

func (s *Shell) printError(err error) {
	msg := err.Error()
	if code, ok := cmderr.FromError(err); ok {
		if !code.Displayed() {
			return
		}
		msg = code.Message()
	}

	out := s.session.Stdout
	fmt.Fprintln(out, s.session.Color.Sprintf(commands.ColorRed, "%s", msg))
}
