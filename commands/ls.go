package commands

import (
	"fmt"
	"os"

	fcolor "github.com/fatih/color"
	"github.com/josephlewis42/mercury/core/cmderr"
	"github.com/spf13/afero"
)

// Ls lists the entries of the current directory on one line.
func Ls(s *Session, args []string) error {
	if len(args) != 0 {
		return cmderr.InvalidArgumentNumber
	}

	entries, err := afero.ReadDir(s.Fs, ".")
	if err != nil {
		return cmderr.InvalidFilePath
	}

	for _, entry := range entries {
		name := entry.Name()
		if color := Dircolor(entry); color != nil {
			name = s.Color.Sprintf(color, "%s", name)
		}
		fmt.Fprintf(s.Stdout, "%s\t", name)
	}
	fmt.Fprintln(s.Stdout)
	return nil
}

// Dircolor picks the color of a listing entry: directories are blue, regular
// files are uncolored and everything else is red.
func Dircolor(fileInfo os.FileInfo) *fcolor.Color {
	switch {
	case fileInfo.IsDir():
		return ColorBlue
	case fileInfo.Mode().IsRegular():
		return nil
	default:
		return ColorRed
	}
}

func init() {
	mustAddBuiltin("ls", Ls)
}
