package azcli

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	boarderrors "boardkit.dev/boardkit/internal/errors"
	"boardkit.dev/boardkit/internal/workitem"
)

// fakeRunner records invocations and replies from a script keyed by the
// first three args joined with spaces.
type fakeRunner struct {
	calls   [][]string
	replies map[string]fakeReply
}

type fakeReply struct {
	out string
	err error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{replies: map[string]fakeReply{}}
}

func (f *fakeRunner) on(prefix string, out string, err error) *fakeRunner {
	f.replies[prefix] = fakeReply{out: out, err: err}
	return f
}

func (f *fakeRunner) Run(_ context.Context, args ...string) (string, error) {
	f.calls = append(f.calls, args)
	for prefix, reply := range f.replies {
		if strings.HasPrefix(strings.Join(args, " "), prefix) {
			return reply.out, reply.err
		}
	}
	return "", nil
}

type debugRecorder struct {
	lines []string
}

func (d *debugRecorder) Debug(format string, _ ...interface{}) {
	d.lines = append(d.lines, format)
}

func exitedErr(stderr string) error {
	return boarderrors.NewCommandError("az", nil, "", stderr, 1, &exec.ExitError{})
}

func TestCreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the create command and returns the id", func(t *testing.T) {
		runner := newFakeRunner().on("boards work-item create", "1234\n", nil)
		client := NewClient(runner, Options{})

		id, err := client.CreateItem(ctx, workitem.ProductBacklogItem, "Write docs")
		require.NoError(t, err)
		require.Equal(t, workitem.ID("1234"), id)
		require.Equal(t, []string{
			"boards", "work-item", "create",
			"--type", "Product Backlog Item",
			"--title", "Write docs",
			"--query", "id",
			"-o", "tsv",
		}, runner.calls[0])
	})

	t.Run("adds organization and project scope", func(t *testing.T) {
		runner := newFakeRunner().on("boards work-item create", "1", nil)
		client := NewClient(runner, Options{Organization: "https://dev.azure.com/acme", Project: "Web"})

		_, err := client.CreateItem(ctx, workitem.Epic, "E1")
		require.NoError(t, err)
		call := runner.calls[0]
		require.Equal(t, []string{"--org", "https://dev.azure.com/acme", "--project", "Web"}, call[len(call)-4:])
	})

	t.Run("non-zero exit is an error", func(t *testing.T) {
		runner := newFakeRunner().on("boards work-item create", "", exitedErr("TF401320: denied"))
		client := NewClient(runner, Options{})

		_, err := client.CreateItem(ctx, workitem.Epic, "E1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "TF401320")
	})

	t.Run("empty output is an error", func(t *testing.T) {
		runner := newFakeRunner().on("boards work-item create", "  ", nil)
		client := NewClient(runner, Options{})

		_, err := client.CreateItem(ctx, workitem.Epic, "E1")
		require.Error(t, err)
	})
}

func TestLinkParentChild(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the Parent relation from the child", func(t *testing.T) {
		runner := newFakeRunner()
		client := NewClient(runner, Options{Organization: "org", Project: "ignored"})

		require.NoError(t, client.LinkParentChild(ctx, "3", "2"))
		require.Equal(t, []string{
			"boards", "work-item", "relation", "add",
			"--id", "3",
			"--relation-type", "Parent",
			"--target-id", "2",
			"--org", "org",
		}, runner.calls[0])
	})

	t.Run("failure is a LinkError", func(t *testing.T) {
		runner := newFakeRunner().on("boards work-item relation", "", exitedErr("boom"))
		client := NewClient(runner, Options{})

		err := client.LinkParentChild(ctx, "3", "2")
		require.Error(t, err)
		require.True(t, errors.Is(err, boarderrors.ErrLinkFailed))
		var linkErr *boarderrors.LinkError
		require.True(t, errors.As(err, &linkErr))
		require.Equal(t, "3", linkErr.ChildID)
		require.Equal(t, "2", linkErr.ParentID)
	})
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		runner := newFakeRunner()
		client := NewClient(runner, Options{})

		ok, err := client.DeleteItem(ctx, "7")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []string{"boards", "work-item", "delete", "--id", "7", "--yes"}, runner.calls[0])
	})

	t.Run("non-zero exit reports false without error", func(t *testing.T) {
		logs := &debugRecorder{}
		runner := newFakeRunner().on("boards work-item delete", "", exitedErr("not found"))
		client := NewClient(runner, Options{Logger: logs})

		ok, err := client.DeleteItem(ctx, "7")
		require.NoError(t, err)
		require.False(t, ok)
		require.Len(t, logs.lines, 1)
	})

	t.Run("transport failure is an error", func(t *testing.T) {
		runner := newFakeRunner().on("boards work-item delete", "", boarderrors.NewCommandError("az", nil, "", "", -1, exec.ErrNotFound))
		client := NewClient(runner, Options{})

		ok, err := client.DeleteItem(ctx, "7")
		require.Error(t, err)
		require.False(t, ok)
		require.True(t, errors.Is(err, exec.ErrNotFound))
	})

	t.Run("empty id is never sent", func(t *testing.T) {
		runner := newFakeRunner()
		client := NewClient(runner, Options{})

		ok, err := client.DeleteItem(ctx, "")
		require.NoError(t, err)
		require.False(t, ok)
		require.Empty(t, runner.calls)
	})
}

func TestQueryByTypeAndTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("parses numeric and string ids", func(t *testing.T) {
		runner := newFakeRunner().on("boards query", `[{"id": 10, "fields": {}}, {"id": "20"}, {"fields": {}}]`, nil)
		client := NewClient(runner, Options{Project: "Web"})

		ids, err := client.QueryByTypeAndTitle(ctx, workitem.ProductBacklogItem, "I1")
		require.NoError(t, err)
		require.Equal(t, []workitem.ID{"10", "20"}, ids)

		call := runner.calls[0]
		require.Equal(t, "--wiql", call[2])
		require.Equal(t, BuildWIQL(workitem.ProductBacklogItem, "I1"), call[3])
		require.Equal(t, []string{"--project", "Web"}, call[len(call)-2:])
	})

	t.Run("empty output means no matches", func(t *testing.T) {
		runner := newFakeRunner().on("boards query", "", nil)
		client := NewClient(runner, Options{})

		ids, err := client.QueryByTypeAndTitle(ctx, workitem.Epic, "E1")
		require.NoError(t, err)
		require.Empty(t, ids)
	})

	t.Run("invalid json is an error", func(t *testing.T) {
		runner := newFakeRunner().on("boards query", "not json", nil)
		client := NewClient(runner, Options{})

		_, err := client.QueryByTypeAndTitle(ctx, workitem.Epic, "E1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "error parsing response")
	})

	t.Run("command failure is an error", func(t *testing.T) {
		runner := newFakeRunner().on("boards query", "", exitedErr("bad wiql"))
		client := NewClient(runner, Options{})

		_, err := client.QueryByTypeAndTitle(ctx, workitem.Epic, "E1")
		require.Error(t, err)
	})
}

func TestBuildWIQL(t *testing.T) {
	require.Equal(t,
		"SELECT [System.Id] FROM WorkItems WHERE [System.WorkItemType] = 'Feature' AND [System.Title] = 'Bob''s feature'",
		BuildWIQL(workitem.Feature, "Bob's feature"),
	)
}

func TestCommandRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx := context.Background()

	t.Run("returns trimmed stdout", func(t *testing.T) {
		runner := NewCommandRunner("sh", 0)
		out, err := runner.Run(ctx, "-c", "echo '  42  '")
		require.NoError(t, err)
		require.Equal(t, "42", out)
	})

	t.Run("non-zero exit carries exit code and stderr", func(t *testing.T) {
		runner := NewCommandRunner("sh", 0)
		_, err := runner.Run(ctx, "-c", "echo oops >&2; exit 3")
		require.Error(t, err)

		var cmdErr *boarderrors.CommandError
		require.True(t, errors.As(err, &cmdErr))
		require.Equal(t, 3, cmdErr.ExitCode)
		require.True(t, cmdErr.Exited())
		require.Contains(t, cmdErr.Stderr, "oops")
	})

	t.Run("missing executable has no exit status", func(t *testing.T) {
		runner := NewCommandRunner("boardkit-definitely-missing-binary", 0)
		_, err := runner.Run(ctx, "boards")
		require.Error(t, err)

		var cmdErr *boarderrors.CommandError
		require.True(t, errors.As(err, &cmdErr))
		require.False(t, cmdErr.Exited())
	})

	t.Run("defaults", func(t *testing.T) {
		runner := NewCommandRunner("", 0)
		require.Equal(t, DefaultCommand, runner.Command())
		require.Equal(t, DefaultCommandTimeout, runner.timeout)
	})
}
