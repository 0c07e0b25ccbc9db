package tasks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ngx-essentials/ngxe/internal/logx"
)

func TestDetectPackageManager(t *testing.T) {
	tests := []struct {
		lock string
		want string
	}{
		{"", NPM},
		{"package-lock.json", NPM},
		{"pnpm-lock.yaml", PNPM},
		{"yarn.lock", Yarn},
		{"bun.lockb", Bun},
	}
	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.lock, func(t *testing.T) {
			dir := t.TempDir()
			if tt.lock != "" {
				writeFile(t, filepath.Join(dir, tt.lock), "")
			}
			if got := DetectPackageManager(dir); got != tt.want {
				t.Errorf("DetectPackageManager() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNodePackageInstallRunsManager(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "yarn.lock"), "")

	var gotName string
	var gotArgs []string
	task := &NodePackageInstall{
		Dir:      dir,
		lookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil },
		command: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			gotName, gotArgs = name, args
			return exec.CommandContext(ctx, "sh", "-c", "exit 0")
		},
	}
	if err := task.Run(t.Context()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if gotName != "/usr/bin/yarn" {
		t.Errorf("command = %q, want /usr/bin/yarn", gotName)
	}
	if len(gotArgs) != 1 || gotArgs[0] != "install" {
		t.Errorf("args = %v, want [install]", gotArgs)
	}
}

func TestNodePackageInstallExplicitManager(t *testing.T) {
	task := &NodePackageInstall{Dir: t.TempDir(), PackageManager: PNPM}
	if got := task.Manager(); got != PNPM {
		t.Errorf("Manager() = %q, want %q", got, PNPM)
	}
}

func TestNodePackageInstallMissingTool(t *testing.T) {
	task := &NodePackageInstall{
		Dir:      t.TempDir(),
		lookPath: func(string) (string, error) { return "", exec.ErrNotFound },
	}
	err := task.Run(t.Context())
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("Run() error = %v, want ErrToolMissing", err)
	}
}

func TestNodePackageInstallFailure(t *testing.T) {
	task := &NodePackageInstall{
		Dir:      t.TempDir(),
		lookPath: func(name string) (string, error) { return name, nil },
		command: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			return exec.CommandContext(ctx, "sh", "-c", "exit 3")
		},
	}
	err := task.Run(t.Context())
	if err == nil || errors.Is(err, ErrToolMissing) {
		t.Fatalf("Run() error = %v, want a command failure", err)
	}
}

func TestQueueRunOrderAndWarnings(t *testing.T) {
	var order []string
	q := &Queue{}
	q.Add(fakeTask{name: "first", run: func() error { order = append(order, "first"); return nil }})
	q.Add(fakeTask{name: "missing", run: func() error { return ErrToolMissing }})
	q.Add(fakeTask{name: "last", run: func() error { order = append(order, "last"); return nil }})

	if got := strings.Join(q.Names(), ","); got != "first,missing,last" {
		t.Errorf("Names() = %s", got)
	}

	var logs bytes.Buffer
	if err := q.Run(t.Context(), logx.New("info", &logs, false)); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if strings.Join(order, ",") != "first,last" {
		t.Errorf("order = %v", order)
	}
	if !strings.Contains(logs.String(), "WARN") {
		t.Errorf("expected a warning, got:\n%s", logs.String())
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after Run, want 0", q.Len())
	}
}

func TestQueueRunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	q := &Queue{}
	q.Add(fakeTask{name: "fails", run: func() error { return boom }})
	q.Add(fakeTask{name: "never", run: func() error { ran = true; return nil }})

	err := q.Run(t.Context(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want boom", err)
	}
	if ran {
		t.Error("task after failure ran")
	}
}

func TestQueueRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	q := &Queue{}
	q.Add(fakeTask{name: "x", run: func() error { return nil }})
	if err := q.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

// ─── Test Helpers ──────────────────────────────────────────────────

type fakeTask struct {
	name string
	run  func() error
}

func (f fakeTask) Name() string                  { return f.name }
func (f fakeTask) Run(ctx context.Context) error { return f.run() }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
