package commands

import (
	"strings"

	"github.com/josephlewis42/mercury/core/cmderr"
	"github.com/josephlewis42/mercury/core/jobs"
)

// Nice launches a program with a scheduling priority.
//
// Everything after the priority is the program name; it isn't split into
// arguments.
func Nice(s *Session, args []string) error {
	if len(args) < 2 {
		return cmderr.InvalidArgumentNumber
	}

	priority, err := parseInt(args[0])
	if err != nil {
		return err
	}

	program := strings.Join(args[1:], " ")
	_, err = s.Launcher.Launch(jobs.Request{
		Argv:     []string{program},
		Priority: priority,
	})
	return err
}

func init() {
	mustAddBuiltin("nice", Nice)
}
