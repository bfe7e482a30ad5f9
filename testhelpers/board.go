package testhelpers

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"boardkit.dev/boardkit/internal/boards"
	boarderrors "boardkit.dev/boardkit/internal/errors"
	"boardkit.dev/boardkit/internal/workitem"
)

// Operation names recorded by FakeBoard
const (
	OpCreate = "create"
	OpLink   = "link"
	OpDelete = "delete"
	OpQuery  = "query"
)

// BoardCall is one recorded call against a FakeBoard
type BoardCall struct {
	Op     string
	Type   workitem.Type
	Title  string
	ID     workitem.ID
	Parent workitem.ID
}

type typeTitle struct {
	itemType workitem.Type
	title    string
}

// FakeBoard is a scripted boards.Client. Creates succeed with incrementing
// ids starting at 1 unless a failure was registered for the type and title.
type FakeBoard struct {
	mu     sync.Mutex
	nextID int
	calls  []BoardCall

	createFailures map[typeTitle]error
	createEmpty    map[typeTitle]bool
	linkFailures   map[workitem.ID]error
	deleteRejects  map[workitem.ID]bool
	deleteErrors   map[workitem.ID]error
	queryResults   map[typeTitle][]workitem.ID
	queryFailures  map[typeTitle]error
}

var _ boards.Client = (*FakeBoard)(nil)

// NewFakeBoard creates a FakeBoard whose first created id is "1"
func NewFakeBoard() *FakeBoard {
	return &FakeBoard{
		nextID:         1,
		createFailures: map[typeTitle]error{},
		createEmpty:    map[typeTitle]bool{},
		linkFailures:   map[workitem.ID]error{},
		deleteRejects:  map[workitem.ID]bool{},
		deleteErrors:   map[workitem.ID]error{},
		queryResults:   map[typeTitle][]workitem.ID{},
		queryFailures:  map[typeTitle]error{},
	}
}

// StartAt sets the next id handed out by CreateItem
func (f *FakeBoard) StartAt(id int) *FakeBoard {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID = id
	return f
}

// FailCreate makes CreateItem fail for the given type and title
func (f *FakeBoard) FailCreate(itemType workitem.Type, title string) *FakeBoard {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createFailures[typeTitle{itemType, title}] = fmt.Errorf("TF401320: cannot create %s %q", itemType, title)
	return f
}

// ReturnNoID makes CreateItem succeed without an id for the given type and title
func (f *FakeBoard) ReturnNoID(itemType workitem.Type, title string) *FakeBoard {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createEmpty[typeTitle{itemType, title}] = true
	return f
}

// FailLink makes LinkParentChild fail when child is linked to any parent
func (f *FakeBoard) FailLink(child workitem.ID) *FakeBoard {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.linkFailures[child] = fmt.Errorf("relation add failed for %s", child)
	return f
}

// RejectDelete makes DeleteItem report (false, nil) for id
func (f *FakeBoard) RejectDelete(id workitem.ID) *FakeBoard {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteRejects[id] = true
	return f
}

// FailDelete makes DeleteItem return err for id
func (f *FakeBoard) FailDelete(id workitem.ID, err error) *FakeBoard {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteErrors[id] = err
	return f
}

// SetQueryResult scripts the ids returned for a type and title query
func (f *FakeBoard) SetQueryResult(itemType workitem.Type, title string, ids ...workitem.ID) *FakeBoard {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryResults[typeTitle{itemType, title}] = ids
	return f
}

// FailQuery makes QueryByTypeAndTitle fail for a type and title
func (f *FakeBoard) FailQuery(itemType workitem.Type, title string) *FakeBoard {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryFailures[typeTitle{itemType, title}] = fmt.Errorf("query failed for %s %q", itemType, title)
	return f
}

// Name identifies the fake backend
func (f *FakeBoard) Name() string {
	return "fake board"
}

// CreateItem records the call and hands out the next id
func (f *FakeBoard) CreateItem(_ context.Context, itemType workitem.Type, title string) (workitem.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, BoardCall{Op: OpCreate, Type: itemType, Title: title})
	if err, ok := f.createFailures[typeTitle{itemType, title}]; ok {
		return "", err
	}
	if f.createEmpty[typeTitle{itemType, title}] {
		return "", nil
	}
	id := workitem.ID(strconv.Itoa(f.nextID))
	f.nextID++
	f.calls[len(f.calls)-1].ID = id
	return id, nil
}

// LinkParentChild records the call
func (f *FakeBoard) LinkParentChild(_ context.Context, child, parent workitem.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, BoardCall{Op: OpLink, ID: child, Parent: parent})
	if err, ok := f.linkFailures[child]; ok {
		return boarderrors.NewLinkError(string(child), string(parent), err)
	}
	return nil
}

// DeleteItem records the call
func (f *FakeBoard) DeleteItem(_ context.Context, id workitem.ID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, BoardCall{Op: OpDelete, ID: id})
	if err, ok := f.deleteErrors[id]; ok {
		return false, err
	}
	if f.deleteRejects[id] {
		return false, nil
	}
	return true, nil
}

// QueryByTypeAndTitle records the call and returns the scripted ids
func (f *FakeBoard) QueryByTypeAndTitle(_ context.Context, itemType workitem.Type, title string) ([]workitem.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, BoardCall{Op: OpQuery, Type: itemType, Title: title})
	key := typeTitle{itemType, title}
	if err, ok := f.queryFailures[key]; ok {
		return nil, err
	}
	return append([]workitem.ID(nil), f.queryResults[key]...), nil
}

// Calls returns every recorded call in order
func (f *FakeBoard) Calls() []BoardCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]BoardCall(nil), f.calls...)
}

// CallsOf returns the recorded calls of one operation
func (f *FakeBoard) CallsOf(op string) []BoardCall {
	var out []BoardCall
	for _, call := range f.Calls() {
		if call.Op == op {
			out = append(out, call)
		}
	}
	return out
}

// Links returns recorded links as [child, parent] pairs
func (f *FakeBoard) Links() [][2]workitem.ID {
	var out [][2]workitem.ID
	for _, call := range f.CallsOf(OpLink) {
		out = append(out, [2]workitem.ID{call.ID, call.Parent})
	}
	return out
}

// Deletes returns the ids passed to DeleteItem in call order
func (f *FakeBoard) Deletes() []workitem.ID {
	var out []workitem.ID
	for _, call := range f.CallsOf(OpDelete) {
		out = append(out, call.ID)
	}
	return out
}

// Queries returns "Type/Title" for each query in call order
func (f *FakeBoard) Queries() []string {
	var out []string
	for _, call := range f.CallsOf(OpQuery) {
		out = append(out, call.Type.String()+"/"+call.Title)
	}
	return out
}
