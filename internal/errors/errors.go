// Package errors provides sentinel errors and custom error types for boardkit.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrDefinitionNotFound indicates that the hierarchy definition file does not exist
	ErrDefinitionNotFound = errors.New("definition not found")

	// ErrDefinitionParse indicates that the hierarchy definition could not be parsed or is malformed
	ErrDefinitionParse = errors.New("definition parse error")

	// ErrManifestCorrupt indicates that a saved manifest exists but cannot be read
	ErrManifestCorrupt = errors.New("manifest is corrupt")

	// ErrLinkFailed indicates that a child could not be linked to its parent
	ErrLinkFailed = errors.New("link failed")

	// ErrUnknownWorkItemType indicates a work item type outside Epic, Feature and Product Backlog Item
	ErrUnknownWorkItemType = errors.New("unknown work item type")

	// ErrUnknownBackend indicates an unsupported backend or manifest store name in configuration
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrAborted indicates that the user declined a confirmation prompt
	ErrAborted = errors.New("aborted by user")
)

// DefinitionError wraps a failure to load a hierarchy definition
type DefinitionError struct {
	Path string
	Err  error
	// Kind is ErrDefinitionNotFound or ErrDefinitionParse
	Kind error
}

func (e *DefinitionError) Error() string {
	if e.Kind == ErrDefinitionNotFound {
		return fmt.Sprintf("YAML file not found: %s", e.Path)
	}
	return fmt.Sprintf("error parsing YAML file %s: %v", e.Path, e.Err)
}

// Is returns true if the target error matches the error kind
func (e *DefinitionError) Is(target error) bool {
	return target == e.Kind
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// NewDefinitionNotFoundError creates a DefinitionError of kind ErrDefinitionNotFound
func NewDefinitionNotFoundError(path string, err error) *DefinitionError {
	return &DefinitionError{Path: path, Err: err, Kind: ErrDefinitionNotFound}
}

// NewDefinitionParseError creates a DefinitionError of kind ErrDefinitionParse
func NewDefinitionParseError(path string, err error) *DefinitionError {
	return &DefinitionError{Path: path, Err: err, Kind: ErrDefinitionParse}
}

// LinkError represents a failed child to parent link
type LinkError struct {
	ChildID  string
	ParentID string
	Err      error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link work item %s to parent %s: %v", e.ChildID, e.ParentID, e.Err)
}

// Is returns true if the target error is ErrLinkFailed
func (e *LinkError) Is(target error) bool {
	return target == ErrLinkFailed
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

// NewLinkError creates a new LinkError
func NewLinkError(childID, parentID string, err error) *LinkError {
	return &LinkError{ChildID: childID, ParentID: parentID, Err: err}
}

// CommandError represents an error from an external command execution
type CommandError struct {
	Command  string
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int // -1 when the process never produced an exit status
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s command failed", e.Command)
	if len(e.Args) > 0 {
		msg += ": " + strings.Join(e.Args, " ")
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", strings.TrimSpace(e.Stderr))
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Exited reports whether the command ran to completion with a non-zero status,
// as opposed to failing to start or being killed by a deadline.
func (e *CommandError) Exited() bool {
	return e.ExitCode > 0
}

// NewCommandError creates a new CommandError
func NewCommandError(command string, args []string, stdout, stderr string, exitCode int, err error) *CommandError {
	return &CommandError{
		Command:  command,
		Args:     args,
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
		Err:      err,
	}
}
