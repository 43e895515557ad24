package commands

import (
	"fmt"

	"github.com/josephlewis42/mercury/core/cmderr"
)

// Pids lists every tracked job.
func Pids(s *Session, args []string) error {
	if len(args) != 0 {
		return cmderr.InvalidArgumentNumber
	}

	fmt.Fprint(s.Stdout, "PIDS:\t")
	for _, pid := range s.Jobs.Pids() {
		fmt.Fprintf(s.Stdout, "%d\t", pid)
	}
	fmt.Fprintln(s.Stdout)
	return nil
}

func init() {
	mustAddBuiltin("pids", Pids)
}
