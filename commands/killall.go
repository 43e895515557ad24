package commands

import (
	"github.com/josephlewis42/mercury/core/cmderr"
	"github.com/josephlewis42/mercury/core/logger"
)

// Killall force terminates every tracked job and empties the table.
func Killall(s *Session, args []string) error {
	if len(args) != 0 {
		return cmderr.InvalidArgumentNumber
	}

	printKill(s, "killall")
	pids := s.Jobs.KillAll()

	s.Events.Record(logger.EventKillall, logger.Fields{"pids": logger.IntList(pids)})
	return nil
}

func init() {
	mustAddBuiltin("killall", Killall)
}
