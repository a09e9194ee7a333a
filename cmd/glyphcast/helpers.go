package main

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// defaultOutputPath derives the cast destination from the input file or
// directory name.
func defaultOutputPath(input string) string {
	base := filepath.Base(filepath.Clean(input))
	if ext := filepath.Ext(base); ext != "" && base != ext {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".cast"
}

// terminalSize reports the terminal dimensions for the given descriptor.
func terminalSize(fd uintptr) (columns, rows int, err error) {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}
