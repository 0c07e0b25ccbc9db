package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/ngx-essentials/ngxe/internal/merge"
	"github.com/ngx-essentials/ngxe/internal/tasks"
	"github.com/ngx-essentials/ngxe/internal/tree"
	"go.uber.org/zap"
)

func actionLabel(kind tree.ActionKind) string {
	switch kind {
	case tree.ActionCreate:
		return color.New(color.FgGreen).Sprint("CREATE")
	case tree.ActionOverwrite:
		return color.New(color.FgCyan).Sprint("UPDATE")
	}
	return string(kind)
}

// printActions lists staged writes, one per line.
func printActions(w io.Writer, actions []tree.Action) {
	for _, a := range actions {
		fmt.Fprintf(w, "%s %s (%d bytes)\n", actionLabel(a.Kind), a.Path[1:], len(a.Content))
	}
}

// printConflicts lists files left untouched because they diverged.
// Appended conflicts are already listed as UPDATE by printActions.
func printConflicts(w io.Writer, reports ...*merge.Report) {
	for _, r := range reports {
		if r == nil {
			continue
		}
		for _, p := range r.Kept() {
			fmt.Fprintf(w, "%s %s (modified locally, kept)\n", color.New(color.FgYellow).Sprint("SKIP  "), p[1:])
		}
	}
}

// finish prints the staged actions, commits them unless --dry-run is set
// and then runs the queued tasks.
func finish(ctx context.Context, w io.Writer, t *tree.Staged, queue *tasks.Queue) error {
	actions := t.Actions()
	printActions(w, actions)
	if len(actions) == 0 {
		fmt.Fprintln(w, "Nothing to do.")
	}

	if dryRun {
		t.Discard()
		fmt.Fprintln(w, color.New(color.FgYellow).Sprint("Dry run: no files were written."))
		return nil
	}
	if err := t.Commit(ctx); err != nil {
		return fmt.Errorf("writing changes: %w", err)
	}
	if queue == nil || queue.Len() == 0 {
		return nil
	}
	log.Debug("running tasks", zap.Strings("tasks", queue.Names()))
	return queue.Run(ctx, log)
}
