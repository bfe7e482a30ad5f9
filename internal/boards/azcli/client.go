package azcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"boardkit.dev/boardkit/internal/boards"
	boarderrors "boardkit.dev/boardkit/internal/errors"
	"boardkit.dev/boardkit/internal/workitem"
)

// Logger receives backend diagnostics such as az stderr output
type Logger interface {
	Debug(format string, args ...interface{})
}

// Options scopes every command to an organization and project. Empty values
// fall back to the az CLI defaults (`az devops configure`).
type Options struct {
	Organization string
	Project      string
	Logger       Logger
}

// Client implements boards.Client with the Azure CLI
type Client struct {
	runner Runner
	opts   Options
}

var _ boards.Client = (*Client)(nil)

// NewClient creates a Client that runs commands through runner
func NewClient(runner Runner, opts Options) *Client {
	return &Client{runner: runner, opts: opts}
}

// Name identifies the backend
func (c *Client) Name() string {
	return "Azure Boards (az)"
}

// CreateItem runs `az boards work-item create` and returns the new id
func (c *Client) CreateItem(ctx context.Context, itemType workitem.Type, title string) (workitem.ID, error) {
	args := []string{
		"boards", "work-item", "create",
		"--type", itemType.String(),
		"--title", title,
		"--query", "id",
		"-o", "tsv",
	}
	args = c.withScope(args, true)

	out, err := c.runner.Run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("error creating work item: %w", err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		return "", fmt.Errorf("error creating work item: az returned no id for %s %q", itemType, title)
	}
	return workitem.ID(id), nil
}

// LinkParentChild runs `az boards work-item relation add` with relation type Parent
func (c *Client) LinkParentChild(ctx context.Context, child, parent workitem.ID) error {
	args := []string{
		"boards", "work-item", "relation", "add",
		"--id", string(child),
		"--relation-type", "Parent",
		"--target-id", string(parent),
	}
	args = c.withScope(args, false)

	if _, err := c.runner.Run(ctx, args...); err != nil {
		return boarderrors.NewLinkError(string(child), string(parent), err)
	}
	return nil
}

// DeleteItem runs `az boards work-item delete --yes`. A non-zero exit status
// is reported as (false, nil).
func (c *Client) DeleteItem(ctx context.Context, id workitem.ID) (bool, error) {
	if id == "" {
		return false, nil
	}
	args := []string{
		"boards", "work-item", "delete",
		"--id", string(id),
		"--yes",
	}
	args = c.withScope(args, true)

	if _, err := c.runner.Run(ctx, args...); err != nil {
		var cmdErr *boarderrors.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Exited() {
			c.debug("Error deleting work item %s: %s", id, strings.TrimSpace(cmdErr.Stderr))
			return false, nil
		}
		return false, fmt.Errorf("error deleting work item %s: %w", id, err)
	}
	return true, nil
}

// QueryByTypeAndTitle runs a WIQL query matching type and title exactly
func (c *Client) QueryByTypeAndTitle(ctx context.Context, itemType workitem.Type, title string) ([]workitem.ID, error) {
	args := []string{
		"boards", "query",
		"--wiql", BuildWIQL(itemType, title),
		"-o", "json",
	}
	args = c.withScope(args, true)

	out, err := c.runner.Run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("error finding %s '%s': %w", itemType, title, err)
	}
	ids, err := parseQueryResult(out)
	if err != nil {
		return nil, fmt.Errorf("error parsing response when finding %s '%s': %w", itemType, title, err)
	}
	return ids, nil
}

// BuildWIQL returns the exact-match query for a type and title.
// Single quotes are doubled as WIQL string literals require.
func BuildWIQL(itemType workitem.Type, title string) string {
	return fmt.Sprintf(
		"SELECT [System.Id] FROM WorkItems WHERE [System.WorkItemType] = '%s' AND [System.Title] = '%s'",
		escapeWIQL(itemType.String()), escapeWIQL(title),
	)
}

func escapeWIQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// parseQueryResult extracts ids from `az boards query -o json` output, which
// is an array of objects carrying a numeric or string "id".
func parseQueryResult(out string) ([]workitem.ID, error) {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(out)))
	dec.UseNumber()
	var rows []map[string]interface{}
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}

	ids := make([]workitem.ID, 0, len(rows))
	for _, row := range rows {
		raw, ok := row["id"]
		if !ok || raw == nil {
			continue
		}
		id := strings.TrimSpace(fmt.Sprint(raw))
		if id == "" {
			continue
		}
		ids = append(ids, workitem.ID(id))
	}
	return ids, nil
}

// withScope appends --org and, where supported, --project
func (c *Client) withScope(args []string, project bool) []string {
	if c.opts.Organization != "" {
		args = append(args, "--org", c.opts.Organization)
	}
	if project && c.opts.Project != "" {
		args = append(args, "--project", c.opts.Project)
	}
	return args
}

func (c *Client) debug(format string, args ...interface{}) {
	if c.opts.Logger != nil {
		c.opts.Logger.Debug(format, args...)
	}
}
