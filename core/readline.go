package core

import (
	"io"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/mercury/commands"
)

// ReadlineConfig holds the terminal settings for the line editor. Nil
// streams default to the process's own.
type ReadlineConfig struct {
	Prompt      string
	HistoryFile string
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	IsTerminal  bool
}

// Completer completes builtin names at the start of a line.
func Completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range commands.ListBuiltins() {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}

// NewReadline creates the line editor the shell reads from.
func NewReadline(rc ReadlineConfig) (*readline.Instance, error) {
	cfg := &readline.Config{
		Prompt:          rc.Prompt,
		HistoryFile:     rc.HistoryFile,
		AutoComplete:    Completer(),
		InterruptPrompt: "^C",
		Stdout:          rc.Stdout,
		Stderr:          rc.Stderr,
		FuncIsTerminal: func() bool {
			return rc.IsTerminal
		},
	}
	if rc.Stdin != nil {
		cfg.Stdin = readline.NewCancelableStdin(rc.Stdin)
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	return readline.NewEx(cfg)
}
