package commands

import (
	"fmt"
	"io"

	"github.com/josephlewis42/mercury/core/cmderr"
)

// Cat prints the contents of a single regular file.
func Cat(s *Session, args []string) error {
	if len(args) != 1 {
		return cmderr.InvalidArgumentNumber
	}

	path := args[0]
	info, err := s.Fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return cmderr.InvalidFilePath
	}

	fd, err := s.Fs.Open(path)
	if err != nil {
		return cmderr.InvalidFilePath
	}
	defer fd.Close()

	printKitten(s, "cat "+path)
	_, err = io.Copy(s.Stdout, fd)
	fmt.Fprintln(s.Stdout)
	if err != nil {
		return cmderr.InvalidFilePath
	}
	return nil
}

func init() {
	mustAddBuiltin("cat", Cat)
}
