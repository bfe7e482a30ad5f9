// Package engine provisions and tears down Epic → Feature → Product Backlog
// Item hierarchies on a work-tracking backend.
//
// It is the core of boardkit, responsible for:
//   - Walking a definition depth-first, creating and linking each node
//   - Recording every create outcome, including failures, in a manifest
//   - Replaying the manifest in reverse to delete what a run created
//   - Falling back to exact type and title lookups when no manifest exists
//
// Calls to the backend are issued one at a time in a fixed order. Create,
// delete and query failures are logged and absorbed; a failed parent link
// ends the provisioning run.
package engine
