package engine

import (
	"context"
	"fmt"

	"boardkit.dev/boardkit/internal/boards"
	"boardkit.dev/boardkit/internal/definition"
	"boardkit.dev/boardkit/internal/manifest"
	"boardkit.dev/boardkit/internal/workitem"
)

// Strategy names the path a teardown took
type Strategy string

const (
	// StrategyReplay deletes the ids recorded in the manifest, newest first
	StrategyReplay Strategy = "manifest"
	// StrategyDiscovery finds items by exact type and title
	StrategyDiscovery Strategy = "discovery"
)

// TeardownOptions tunes a teardown run
type TeardownOptions struct {
	// IgnoreManifest forces title-based discovery even when a manifest exists
	IgnoreManifest bool
}

// Report summarizes a teardown run
type Report struct {
	Strategy Strategy
	Deleted  int
	Failed   int
	// Skipped counts manifest records without an id
	Skipped int
	// NotFound counts discovery lookups with no match
	NotFound int
	// QueryFailed counts discovery lookups the backend could not answer
	QueryFailed int
}

// Teardown deletes the items a provisioning run created
type Teardown struct {
	client boards.Client
	store  manifest.Store
	log    Logger
}

// NewTeardown creates a Teardown
func NewTeardown(client boards.Client, store manifest.Store, log Logger) *Teardown {
	return &Teardown{client: client, store: store, log: log}
}

// Run deletes via manifest replay when the store holds a non-empty manifest,
// otherwise by title-based discovery over def. Individual delete and query
// failures are logged and counted; only an unreadable manifest or a
// cancelled context end the run early.
func (t *Teardown) Run(ctx context.Context, def definition.Hierarchy, opts TeardownOptions) (Report, error) {
	if opts.IgnoreManifest {
		t.log.Info("Ignoring manifest at %s.", t.store.Location())
		return t.discover(ctx, def)
	}

	m, found, err := t.store.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load manifest: %w", err)
	}
	switch {
	case !found:
		t.log.Warn("No manifest found at %s. Attempting to delete based on input YAML...", t.store.Location())
	case m.Empty():
		t.log.Warn("Manifest at %s is empty. Attempting to delete based on input YAML...", t.store.Location())
	default:
		return t.replay(ctx, m)
	}
	return t.discover(ctx, def)
}

// replay deletes manifest records in reverse creation order
func (t *Teardown) replay(ctx context.Context, m workitem.Manifest) (Report, error) {
	report := Report{Strategy: StrategyReplay}
	t.log.Info("Deleting %d work items from saved list...", m.Len())

	for _, record := range m.Reversed() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		id, ok := record.ID.Get()
		if !ok {
			t.log.Debug("Skipping %s: %s (no ID)", record.Type, record.Title)
			report.Skipped++
			continue
		}
		t.log.Info("Deleting %s: %s (ID: %s)", record.Type, record.Title, id)
		t.delete(ctx, &report, record.Type, id)
	}
	return report, nil
}

// discover deletes by title: each feature's items, then the feature, and
// after all features the epic. Order within a level follows the definition.
func (t *Teardown) discover(ctx context.Context, def definition.Hierarchy) (Report, error) {
	report := Report{Strategy: StrategyDiscovery}
	t.log.Info("Searching for work items to delete based on titles in the YAML file...")

	for _, epic := range def.Epics {
		for _, feature := range epic.Features {
			for _, item := range feature.Items {
				if err := t.findAndDelete(ctx, &report, workitem.ProductBacklogItem, item.Title); err != nil {
					return report, err
				}
			}
			if err := t.findAndDelete(ctx, &report, workitem.Feature, feature.Title); err != nil {
				return report, err
			}
		}
		if err := t.findAndDelete(ctx, &report, workitem.Epic, epic.Title); err != nil {
			return report, err
		}
	}
	return report, nil
}

// findAndDelete deletes every item matching itemType and title. The only
// error it returns is context cancellation.
func (t *Teardown) findAndDelete(ctx context.Context, report *Report, itemType workitem.Type, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ids, err := t.client.QueryByTypeAndTitle(ctx, itemType, title)
	if err != nil {
		t.log.Error("Error finding %s '%s': %v", itemType, title, err)
		report.QueryFailed++
		return nil
	}
	if len(ids) == 0 {
		t.log.Warn("No %s found with title: %s", itemType, title)
		report.NotFound++
		return nil
	}

	for _, id := range ids {
		t.log.Info("Found %s: %s (ID: %s)", itemType, title, id)
		t.delete(ctx, report, itemType, id)
	}
	return nil
}

func (t *Teardown) delete(ctx context.Context, report *Report, itemType workitem.Type, id workitem.ID) {
	ok, err := t.client.DeleteItem(ctx, id)
	switch {
	case err != nil:
		t.log.Error("  Failed to delete %s with ID %s: %v", itemType, id, err)
		report.Failed++
	case !ok:
		t.log.Error("  Failed to delete %s with ID %s", itemType, id)
		report.Failed++
	default:
		t.log.Info("  Successfully deleted %s with ID %s", itemType, id)
		report.Deleted++
	}
}
