// Package cli defines the Cobra command tree for the ngxe CLI. Each file
// in this package registers one top-level command (add, store, batch, etc.)
// with the root command. Commands stage their changes on a tree, print the
// staged actions, and commit them unless --dry-run is set.
package cli
