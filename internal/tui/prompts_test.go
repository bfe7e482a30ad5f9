package tui

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfirmDisabled(t *testing.T) {
	t.Setenv("BOARDKIT_NO_INTERACTIVE", "1")

	ok, err := Confirm("Delete?", false)
	require.ErrorIs(t, err, ErrInteractiveDisabled)
	require.False(t, ok)
}

func TestIsTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "not-a-tty")
	require.NoError(t, err)
	defer f.Close()

	require.False(t, IsTerminal(f))
}
