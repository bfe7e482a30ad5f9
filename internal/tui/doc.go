// Package tui provides the terminal interaction for boardkit.
//
// It handles:
//   - Detecting whether stdin and stdout are attached to a terminal
//   - Yes/no confirmation prompts (using survey)
package tui
