package commands

import (
	"fmt"

	"github.com/josephlewis42/mercury/core/cmderr"
	"github.com/josephlewis42/mercury/core/jobs"
)

// Notepad opens the configured editor as a tracked job.
func Notepad(s *Session, args []string) error {
	if len(args) != 0 {
		return cmderr.InvalidArgumentNumber
	}

	pid, err := s.Launcher.Launch(jobs.Request{Argv: []string{s.Notepad}})
	if err != nil {
		return cmderr.UnableToOpenNotepad
	}

	fmt.Fprintf(s.Stdout, "Opened notepad with PID:\t%d\n", pid)
	return nil
}

func init() {
	mustAddBuiltin("notepad", Notepad)
}
