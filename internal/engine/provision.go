package engine

import (
	"context"
	"fmt"
	"strings"

	"boardkit.dev/boardkit/internal/boards"
	"boardkit.dev/boardkit/internal/definition"
	"boardkit.dev/boardkit/internal/manifest"
	"boardkit.dev/boardkit/internal/workitem"
)

// ProvisionOptions tunes a Provisioner
type ProvisionOptions struct {
	// FlushEachRecord saves the manifest after every record, not just at the end
	FlushEachRecord bool
}

// Provisioner creates a definition's hierarchy on a backend
type Provisioner struct {
	client boards.Client
	store  manifest.Store
	log    Logger
	opts   ProvisionOptions
}

// NewProvisioner creates a Provisioner
func NewProvisioner(client boards.Client, store manifest.Store, log Logger, opts ProvisionOptions) *Provisioner {
	return &Provisioner{client: client, store: store, log: log, opts: opts}
}

// Provision walks def depth-first and returns the manifest of every create
// attempt. A failed create is recorded with an absent id and its subtree is
// skipped. A failed link aborts the run; the manifest gathered so far is
// saved before the link error is returned.
func (p *Provisioner) Provision(ctx context.Context, def definition.Hierarchy, source string) (workitem.Manifest, error) {
	m := workitem.NewManifest(source)

	for _, epic := range def.Epics {
		if err := ctx.Err(); err != nil {
			return p.abort(ctx, m, err)
		}

		epicID, ok := p.create(ctx, &m, workitem.Epic, epic.Title)
		if !ok {
			p.log.Warn("Failed to create Epic. Skipping features.")
			continue
		}

		for _, feature := range epic.Features {
			featureID, ok := p.create(ctx, &m, workitem.Feature, feature.Title)
			if !ok {
				p.log.Warn("  Failed to create Feature. Skipping items.")
				continue
			}
			if err := p.client.LinkParentChild(ctx, featureID, epicID); err != nil {
				return p.abort(ctx, m, err)
			}

			for _, item := range feature.Items {
				itemID, ok := p.create(ctx, &m, workitem.ProductBacklogItem, item.Title)
				if !ok {
					p.log.Warn("    Failed to create work item for: %s", item.Title)
					continue
				}
				if err := p.client.LinkParentChild(ctx, itemID, featureID); err != nil {
					return p.abort(ctx, m, err)
				}
			}
		}
	}

	if err := p.store.Save(ctx, m); err != nil {
		return m, fmt.Errorf("failed to save manifest to %s: %w", p.store.Location(), err)
	}
	p.log.Debug("Saved %d created items to %s", m.Len(), p.store.Location())
	return m, nil
}

// create calls the backend and appends the outcome to m
func (p *Provisioner) create(ctx context.Context, m *workitem.Manifest, itemType workitem.Type, title string) (workitem.ID, bool) {
	id, err := p.client.CreateItem(ctx, itemType, title)
	if err != nil {
		p.log.Error("Error creating work item: %v", err)
		id = ""
	}

	record := workitem.Record{Type: itemType, ID: workitem.Some(id), Title: title}
	m.Append(record)
	p.log.Info("%sCreated %s: %s (ID: %s)", indent(itemType), itemType.Label(), title, record.ID)

	if p.opts.FlushEachRecord {
		if err := p.store.Save(ctx, *m); err != nil {
			p.log.Warn("Failed to save manifest to %s: %v", p.store.Location(), err)
		}
	}
	return record.ID.Get()
}

// abort saves the partial manifest and returns cause
func (p *Provisioner) abort(ctx context.Context, m workitem.Manifest, cause error) (workitem.Manifest, error) {
	// ctx may already be done; the save must still reach the store
	if err := p.store.Save(context.WithoutCancel(ctx), m); err != nil {
		p.log.Error("Failed to save manifest to %s: %v", p.store.Location(), err)
	} else {
		p.log.Debug("Saved %d created items to %s", m.Len(), p.store.Location())
	}
	return m, cause
}

func indent(t workitem.Type) string {
	return strings.Repeat("  ", t.Depth())
}
