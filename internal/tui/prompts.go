package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInteractiveDisabled is returned when interactive prompts are disabled via BOARDKIT_NO_INTERACTIVE
var ErrInteractiveDisabled = fmt.Errorf("interactive prompts are disabled (BOARDKIT_NO_INTERACTIVE is set)")

// checkInteractiveAllowed returns an error if interactive mode is disabled
func checkInteractiveAllowed() error {
	if os.Getenv("BOARDKIT_NO_INTERACTIVE") != "" {
		return ErrInteractiveDisabled
	}
	return nil
}

// Confirm asks a yes/no question. Ctrl+C answers no.
func Confirm(message string, defaultYes bool) (bool, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return false, err
	}

	answer := false
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultYes,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return answer, nil
}
