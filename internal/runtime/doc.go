// Package runtime provides the execution context for boardkit commands.
//
// It encapsulates shared dependencies needed by actions, such as the
// resolved configuration, the logger, the backend client and the manifest
// store. The backend and store are created on first use.
package runtime
