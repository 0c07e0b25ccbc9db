package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ngx-essentials/ngxe/internal/logx"
	"go.uber.org/zap"
)

// ErrToolMissing is returned by a task whose executable is not on PATH.
// Queue.Run treats it as a warning.
var ErrToolMissing = errors.New("executable not found")

// Task is a unit of post-commit work.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// Queue runs tasks in the order they were added.
type Queue struct {
	tasks []Task
}

// Add appends t to the queue.
func (q *Queue) Add(t Task) {
	q.tasks = append(q.tasks, t)
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Names lists queued task names in run order.
func (q *Queue) Names() []string {
	names := make([]string, len(q.tasks))
	for i, t := range q.tasks {
		names[i] = t.Name()
	}
	return names
}

// Run executes every task. A missing executable is logged and skipped;
// any other failure stops the queue.
func (q *Queue) Run(ctx context.Context, log logx.Logger) error {
	if log == nil {
		log = logx.Nop()
	}
	for _, t := range q.tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Info("running task", zap.String("task", t.Name()))
		err := t.Run(ctx)
		if errors.Is(err, ErrToolMissing) {
			log.Warn("skipping task", zap.String("task", t.Name()), zap.Error(err))
			continue
		}
		if err != nil {
			return fmt.Errorf("task %s: %w", t.Name(), err)
		}
	}
	q.tasks = nil
	return nil
}

// Package managers recognised by DetectPackageManager.
const (
	NPM  = "npm"
	Yarn = "yarn"
	PNPM = "pnpm"
	Bun  = "bun"
)

var lockFiles = []struct {
	file    string
	manager string
}{
	{"pnpm-lock.yaml", PNPM},
	{"yarn.lock", Yarn},
	{"bun.lockb", Bun},
	{"bun.lock", Bun},
	{"package-lock.json", NPM},
}

// DetectPackageManager picks a package manager from the lock file in dir,
// falling back to npm.
func DetectPackageManager(dir string) string {
	for _, lf := range lockFiles {
		if _, err := os.Stat(filepath.Join(dir, lf.file)); err == nil {
			return lf.manager
		}
	}
	return NPM
}

// NodePackageInstall runs "<manager> install" in Dir.
type NodePackageInstall struct {
	Dir            string
	PackageManager string // empty means detect from lock files
	Stdout         io.Writer
	Stderr         io.Writer

	// lookPath and command are swapped in tests.
	lookPath func(string) (string, error)
	command  func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func (n *NodePackageInstall) Name() string {
	return "node-package-install"
}

// Manager returns the package manager the task will invoke.
func (n *NodePackageInstall) Manager() string {
	if n.PackageManager != "" {
		return n.PackageManager
	}
	return DetectPackageManager(n.Dir)
}

func (n *NodePackageInstall) Run(ctx context.Context) error {
	lookPath := n.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	command := n.command
	if command == nil {
		command = exec.CommandContext
	}

	manager := n.Manager()
	bin, err := lookPath(manager)
	if err != nil {
		return fmt.Errorf("%s: %w", manager, ErrToolMissing)
	}

	cmd := command(ctx, bin, "install")
	cmd.Dir = n.Dir
	cmd.Stdout = n.Stdout
	cmd.Stderr = n.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = io.Discard
	}
	if cmd.Stderr == nil {
		cmd.Stderr = io.Discard
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s install in %s: %w", manager, n.Dir, err)
	}
	return nil
}
