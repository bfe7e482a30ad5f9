// Package actions provides high-level business logic for CLI commands.
//
// Each subpackage corresponds to a boardkit command and exposes
// Action(ctx *runtime.Context, opts Options). Actions load the definition,
// run the engine against the backend and manifest store from the runtime
// Context, and print a summary through ctx.Splog.
package actions
