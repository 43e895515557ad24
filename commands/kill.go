package commands

import (
	"github.com/josephlewis42/mercury/core/cmderr"
	"github.com/josephlewis42/mercury/core/logger"
)

// Kill force terminates a single tracked job.
func Kill(s *Session, args []string) error {
	if len(args) != 1 {
		return cmderr.InvalidArgumentNumber
	}

	pid, err := parseInt(args[0])
	if err != nil {
		return err
	}
	if !s.Jobs.Contains(pid) {
		return cmderr.InvalidPID
	}

	printKill(s, "kill "+args[0])
	if err := s.Jobs.Kill(pid); err != nil {
		return err
	}

	s.Events.Record(logger.EventKill, logger.Fields{"pid": pid})
	return nil
}

func init() {
	mustAddBuiltin("kill", Kill)
}
