// Package pkgjson patches a project's package.json for the signal-store
// tooling: it reads the framework core version, refuses versions below the
// supported minimum, pins the companion package to the same major, moves
// the tool itself into devDependencies and sorts both dependency sections.
package pkgjson
