package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	fcolor "github.com/fatih/color"
	"github.com/josephlewis42/mercury/core/cmderr"
	"github.com/josephlewis42/mercury/core/config"
	"github.com/josephlewis42/mercury/core/jobs"
	"github.com/josephlewis42/mercury/core/logger"
	"github.com/spf13/afero"
)

// Session is the state every builtin acts on. It owns the job table so
// nothing about job control lives in package globals.
type Session struct {
	Jobs     *jobs.Table
	Launcher *jobs.Launcher

	// Fs is the filesystem ls and cat read from.
	Fs     afero.Fs
	Stdout io.Writer
	Color  *ColorPrinter

	// Notepad is the program the notepad builtin launches.
	Notepad string

	Events *logger.SessionLogger
}

// NewSession creates a session around a launcher, the launcher's table
// becomes the session's job table.
func NewSession(launcher *jobs.Launcher, fs afero.Fs, stdout io.Writer) *Session {
	return &Session{
		Jobs:     launcher.Table,
		Launcher: launcher,
		Fs:       fs,
		Stdout:   stdout,
		Color:    &ColorPrinter{},
		Notepad:  config.Default().Notepad,
	}
}

// Builtin is a command implemented by the shell itself.
type Builtin interface {
	Main(s *Session, args []string) error
}

// BuiltinFunc adapts a function to a Builtin.
type BuiltinFunc func(s *Session, args []string) error

func (f BuiltinFunc) Main(s *Session, args []string) error {
	return f(s, args)
}

var _ Builtin = (BuiltinFunc)(nil)

// AllBuiltins holds every registered builtin by name. It's filled once at
// startup and never modified afterwards.
var AllBuiltins = make(map[string]Builtin)

func mustAddBuiltin(name string, cmd BuiltinFunc) {
	if _, ok := AllBuiltins[name]; ok {
		panic(fmt.Sprintf("builtin %q registered twice", name))
	}
	AllBuiltins[name] = cmd
}

// Lookup finds a builtin by name, returning cmderr.UnknownCommand on a miss.
func Lookup(name string) (Builtin, error) {
	if cmd, ok := AllBuiltins[name]; ok {
		return cmd, nil
	}
	return nil, cmderr.UnknownCommand
}

// ListBuiltins gets the names of all builtins in sorted order.
func ListBuiltins() []string {
	var out []string
	for name := range AllBuiltins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Execute runs tokens[0] as a builtin with the rest as arguments.
//
// A name that isn't a builtin returns cmderr.UnknownCommand and has no side
// effects, the caller decides whether to launch it as a process instead.
func Execute(s *Session, tokens []string) error {
	cmd, err := Lookup(tokens[0])
	if err != nil {
		return err
	}

	s.Events.Record(logger.EventBuiltin, logger.Fields{
		"name": tokens[0],
		"args": logger.StringList(tokens[1:]),
	})
	return cmd.Main(s, tokens[1:])
}

// parseInt parses a numeric argument, malformed input is cmderr.InvalidArgument.
func parseInt(arg string) (int, error) {
	v, err := strconv.Atoi(arg)
	if err != nil {
		return 0, cmderr.InvalidArgument
	}
	return v, nil
}

var (
	ColorBlue    = fcolor.New(fcolor.FgBlue)
	ColorCyan    = fcolor.New(fcolor.FgCyan)
	ColorRed     = fcolor.New(fcolor.FgRed)
	ColorMagenta = fcolor.New(fcolor.FgMagenta)
)

// ColorPrinter decides whether output is colorized. The zero value never
// colors.
type ColorPrinter struct {
	Enabled bool
}

// NewColorPrinter resolves a color mode (always|auto|never), auto colors when
// the output is a terminal.
func NewColorPrinter(mode string, isTerminal bool) *ColorPrinter {
	switch mode {
	case config.ColorAlways:
		return &ColorPrinter{Enabled: true}
	case config.ColorNever:
		return &ColorPrinter{Enabled: false}
	default:
		return &ColorPrinter{Enabled: isTerminal}
	}
}

func (c *ColorPrinter) ShouldColor() bool {
	return c != nil && c.Enabled
}

func (c *ColorPrinter) Sprintf(color *fcolor.Color, format string, a ...interface{}) string {
	if !c.ShouldColor() {
		return fmt.Sprintf(format, a...)
	}

	// fatih/color disables itself globally when stdout isn't a TTY, force it
	// on for our copy.
	forced := *color
	forced.EnableColor()
	return forced.Sprintf(format, a...)
}

// EraseLine clears the most recently rendered line. It's a no-op when the
// output isn't colored since there's no terminal to redraw.
func (c *ColorPrinter) EraseLine(w io.Writer) {
	if c.ShouldColor() {
		fmt.Fprint(w, "\x1b[2K\x1b[1A")
	}
}

// printKill writes the banner job-control commands show before acting.
func printKill(s *Session, command string) {
	s.Color.EraseLine(s.Stdout)
	fmt.Fprintln(s.Stdout, s.Color.Sprintf(ColorRed, "🜏🜏🜏 %s", command))
}

// printKitten writes the banner shown before file output.
func printKitten(s *Session, command string) {
	s.Color.EraseLine(s.Stdout)
	fmt.Fprintf(s.Stdout, "%s %s\n", s.Color.Sprintf(ColorCyan, "･ω･"), command)
}
