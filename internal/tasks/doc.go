// Package tasks holds follow-up work that runs after a tree is committed,
// such as installing node dependencies.
package tasks
