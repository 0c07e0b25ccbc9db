// Package store generates an @ngrx/signals store for one entity: the
// model, service and store files, the shared entity feature, and the
// entity's block in the directory's index.ts.
//
// Generation only stages writes on a tree.Tree. Nothing reaches disk until
// the caller commits the tree, so a failed or dry run leaves the project
// untouched.
package store
