// Package tree is the virtual filesystem the generators mutate. Reads see
// staged content first; writes are recorded as ordered actions and only
// reach the backing afero filesystem on Commit, so a failed or dry run
// leaves the project untouched.
package tree
