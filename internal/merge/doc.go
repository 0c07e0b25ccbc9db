// Package merge decides, file by file, how rendered templates land in a
// tree that may already contain earlier generations or hand edits.
//
// Every rendered entry gets a tagged Decision: create when the path is
// free, skip when the existing file already contains the rendered content,
// conflict otherwise. The Policy chosen by the caller settles conflicts;
// the default never touches an existing file.
package merge
