package tui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY returns true if both stdin and stdout are terminals and /dev/tty can be opened
func IsTTY() bool {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return false
	}
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// IsTerminal reports whether f is a terminal, including Cygwin ptys
func IsTerminal(f *os.File) bool {
	return isTerminal(f)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
