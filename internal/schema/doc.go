// Package schema validates generator options against embedded JSON Schemas,
// the same way Angular schematics describe their inputs with schema.json.
// It covers the store, add and batch inputs and accepts either Go values or
// raw YAML/JSON documents.
package schema
