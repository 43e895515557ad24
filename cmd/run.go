package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/mercury/commands"
	"github.com/josephlewis42/mercury/core"
	"github.com/josephlewis42/mercury/core/jobs"
	"github.com/josephlewis42/mercury/core/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// runCmd runs the shell over the local terminal.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive shell.",
	Args:  cobra.ExactArgs(0),
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	diagnostics := log.New(cmd.ErrOrStderr(), "[mercury] ", 0)
	debug := debugLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig(diagnostics)
	if err != nil {
		return err
	}

	tokenizer, err := core.TokenizerFor(cfg.Tokenizer)
	if err != nil {
		return err
	}

	eventLog := logger.NewNopLogger()
	if cfg.HasEventLog() {
		fd, err := cfg.OpenEventLog()
		if err != nil {
			return fmt.Errorf("opening event log: %w", err)
		}
		defer fd.Close()
		eventLog = logger.NewJsonLinesLogRecorder(fd)
	}
	events := eventLog.NewSession()
	debug.Printf("session %s", events.SessionID())

	isTerminal := readline.IsTerminal(int(os.Stdout.Fd()))
	color := commands.NewColorPrinter(cfg.Color, isTerminal)

	launcher := jobs.NewLauncher(jobs.NewTable(), &jobs.ExecStarter{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	launcher.Logger = debug
	launcher.Events = events

	session := commands.NewSession(launcher, afero.NewOsFs(), os.Stdout)
	session.Color = color
	session.Notepad = cfg.Notepad
	session.Events = events

	rl, err := core.NewReadline(core.ReadlineConfig{
		Prompt:      color.Sprintf(commands.ColorMagenta, "%s", cfg.Prompt),
		HistoryFile: cfg.HistoryPath(),
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		IsTerminal:  isTerminal && readline.IsTerminal(int(os.Stdin.Fd())),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	shell := core.NewShell(core.Options{
		Session:    session,
		Reader:     rl,
		Tokenizer:  tokenizer,
		ExitStatus: cfg.ExitStatus,
		Exit: func(code int) {
			rl.Close()
			os.Exit(code)
		},
		Logger: debug,
	})

	shell.WatchInterrupts(cmd.Context())
	return shell.Run()
}

func init() {
	rootCmd.AddCommand(runCmd)
}
