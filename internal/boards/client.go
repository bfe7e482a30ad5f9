// Package boards defines the client contract for the remote work-tracking
// system. Implementations live in the azcli and github subpackages.
package boards

import (
	"context"
	"fmt"
	"strings"

	boarderrors "boardkit.dev/boardkit/internal/errors"
	"boardkit.dev/boardkit/internal/workitem"
)

// Client is the set of remote operations the engines rely on.
// Every call is a blocking remote call.
type Client interface {
	// CreateItem creates a work item with no parent and returns its id
	CreateItem(ctx context.Context, itemType workitem.Type, title string) (workitem.ID, error)

	// LinkParentChild makes parent the "Parent" of child
	LinkParentChild(ctx context.Context, child, parent workitem.ID) error

	// DeleteItem deletes a work item. A rejection by the backend is reported
	// as (false, nil); only transport-level failures return an error.
	DeleteItem(ctx context.Context, id workitem.ID) (bool, error)

	// QueryByTypeAndTitle returns the ids of all items whose type and title
	// match exactly
	QueryByTypeAndTitle(ctx context.Context, itemType workitem.Type, title string) ([]workitem.ID, error)

	// Name identifies the backend in log messages
	Name() string
}

// Backend names accepted in configuration
const (
	BackendAzure  = "az"
	BackendGitHub = "github"
)

// ValidateBackend checks that name is a supported backend
func ValidateBackend(name string) error {
	switch strings.ToLower(name) {
	case BackendAzure, BackendGitHub:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected %q or %q)", boarderrors.ErrUnknownBackend, name, BackendAzure, BackendGitHub)
	}
}
