package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/ngx-essentials/ngxe/internal/merge"
	"github.com/ngx-essentials/ngxe/internal/tree"
	"github.com/spf13/viper"
)

func TestPrintActions(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printActions(&buf, []tree.Action{
		{Kind: tree.ActionCreate, Path: "/src/app/store/index.ts", Content: []byte("abc")},
		{Kind: tree.ActionOverwrite, Path: "/package.json", Content: []byte("{}\n")},
	})
	want := "CREATE src/app/store/index.ts (3 bytes)\nUPDATE package.json (3 bytes)\n"
	if buf.String() != want {
		t.Errorf("printActions() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrintConflictsOnlyListsKeptFiles(t *testing.T) {
	color.NoColor = true
	report := &merge.Report{Decisions: []merge.Decision{
		{Kind: merge.KindConflict, Path: "/src/a.ts"},
		{Kind: merge.KindConflict, Path: "/src/b.ts", Applied: true},
		{Kind: merge.KindCreate, Path: "/src/c.ts", Applied: true},
	}}
	var buf bytes.Buffer
	printConflicts(&buf, report, nil)
	want := "SKIP   src/a.ts (modified locally, kept)\n"
	if buf.String() != want {
		t.Errorf("printConflicts() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestStoreCommandAppendReportsUpdate(t *testing.T) {
	dir := t.TempDir()
	feature := filepath.Join(dir, "src/app/store/common/entity/entity.feature.ts")
	writeFile(t, feature, "export const mine = 1;\n")

	out, err := run(t, "store", "product", "--root", dir, "--on-conflict", "append")
	if err != nil {
		t.Fatalf("store error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "UPDATE src/app/store/common/entity/entity.feature.ts") {
		t.Errorf("appended file not listed as UPDATE:\n%s", out)
	}
	if strings.Contains(out, "SKIP") {
		t.Errorf("appended file listed as kept:\n%s", out)
	}
}

func TestStoreCommandWritesFiles(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "store", "product", "--root", dir, "--path", "src/app/store")
	if err != nil {
		t.Fatalf("store error: %v\n%s", err, out)
	}
	for _, p := range []string{
		"src/app/store/index.ts",
		"src/app/store/product/product.store.ts",
		"src/app/store/common/entity/entity.feature.ts",
	} {
		if _, err := os.Stat(filepath.Join(dir, p)); err != nil {
			t.Errorf("%s not written: %v", p, err)
		}
		if !strings.Contains(out, "CREATE "+p) {
			t.Errorf("output does not list %s:\n%s", p, out)
		}
	}

	// A second run writes nothing.
	out, err = run(t, "store", "product", "--root", dir, "--path", "src/app/store")
	if err != nil {
		t.Fatalf("second store error: %v", err)
	}
	if !strings.Contains(out, "Nothing to do.") {
		t.Errorf("second run output:\n%s", out)
	}
}

func TestStoreCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "store", "product", "--root", dir, "--dry-run")
	if err != nil {
		t.Fatalf("store error: %v", err)
	}
	if !strings.Contains(out, "CREATE src/app/store/product/product.model.ts") {
		t.Errorf("dry run output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "src")); !os.IsNotExist(err) {
		t.Errorf("dry run wrote files (stat err = %v)", err)
	}
}

func TestStoreCommandRejectsEmptyName(t *testing.T) {
	if _, err := run(t, "store", "", "--root", t.TempDir()); err == nil {
		t.Error("store with empty name succeeded")
	}
}

func TestAddCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"dependencies": {"@angular/core": "^17.1.0"}}`+"\n")
	writeFile(t, filepath.Join(dir, "angular.json"), `{"version": 1, "projects": {}}`+"\n")

	out, err := run(t, "add", "--root", dir, "--skip-install", "--pk", "uuid")
	if err != nil {
		t.Fatalf("add error: %v\n%s", err, out)
	}
	manifest := readFile(t, filepath.Join(dir, "package.json"))
	if !strings.Contains(manifest, `"@ngrx/signals": "^17.0.0"`) {
		t.Errorf("package.json:\n%s", manifest)
	}
	ws := readFile(t, filepath.Join(dir, "angular.json"))
	if !strings.Contains(ws, `"pk": "uuid"`) {
		t.Errorf("angular.json:\n%s", ws)
	}

	// The recorded pk becomes the default for new stores.
	if _, err := run(t, "store", "user", "--root", dir); err != nil {
		t.Fatalf("store error: %v", err)
	}
	model := readFile(t, filepath.Join(dir, "src/app/store/user/user.model.ts"))
	if !strings.Contains(model, "uuid: string | number;") {
		t.Errorf("user.model.ts:\n%s", model)
	}
}

func TestAddCommandUnsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	original := `{"dependencies": {"@angular/core": "15.2.0"}}` + "\n"
	writeFile(t, filepath.Join(dir, "package.json"), original)

	out, err := run(t, "add", "--root", dir)
	if err != nil {
		t.Fatalf("add error: %v", err)
	}
	if !strings.Contains(out, "No changes made.") {
		t.Errorf("output:\n%s", out)
	}
	if got := readFile(t, filepath.Join(dir, "package.json")); got != original {
		t.Errorf("package.json modified:\n%s", got)
	}
}

func TestAddCommandMissingManifest(t *testing.T) {
	if _, err := run(t, "add", "--root", t.TempDir()); err == nil {
		t.Error("add without package.json succeeded")
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(t.TempDir(), "stores.yaml")
	writeFile(t, file, "entities:\n  - name: product\n  - name: category\n")

	out, err := run(t, "batch", file, "--root", dir)
	if err != nil {
		t.Fatalf("batch error: %v\n%s", err, out)
	}
	index := readFile(t, filepath.Join(dir, "src/app/store/index.ts"))
	if !strings.Contains(index, "/* PRODUCT */") || !strings.Contains(index, "/* CATEGORY */") {
		t.Errorf("index.ts:\n%s", index)
	}
}

func TestBatchCommandFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(t.TempDir(), "stores.yaml")
	writeFile(t, file, "entities:\n  - name: product\n  - name: category\n    pk: not-valid\n")

	if _, err := run(t, "batch", file, "--root", dir); err == nil {
		t.Fatal("batch with invalid entity succeeded")
	}
	if _, err := os.Stat(filepath.Join(dir, "src")); !os.IsNotExist(err) {
		t.Errorf("failed batch wrote files (stat err = %v)", err)
	}
}

func TestConfigSetGet(t *testing.T) {
	if _, err := run(t, "config", "set", "pk", "code"); err != nil {
		t.Fatalf("config set error: %v", err)
	}
	out, err := run(t, "config", "get", "pk")
	if err != nil {
		t.Fatalf("config get error: %v", err)
	}
	if strings.TrimSpace(out) != "code" {
		t.Errorf("config get pk = %q, want code", out)
	}
	if _, err := run(t, "config", "set", "colour", "red"); err == nil {
		t.Error("config set of unknown key succeeded")
	}
}

func TestVersionShort(t *testing.T) {
	buildVersion = "1.2.3"
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version --short = %q", out)
	}
}

// ─── Test Helpers ──────────────────────────────────────────────────

// run executes the root command with fresh flag values and an isolated
// config directory, returning stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := os.Getenv("NGXE_HOME")
	if home == "" || !strings.HasPrefix(home, os.TempDir()) {
		t.Setenv("NGXE_HOME", t.TempDir())
	}
	viper.Reset()

	rootDir, dryRun, logLevel, noColor = ".", false, "", false
	addPK, addSkipInstall, addPackageManager = "id", false, ""
	storePath, storePK, storeLang, storeProject, storeOnConflict = "", "", "", "", ""
	versionShort, versionJSON = false, false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--no-color", "--log-level", "error"))
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
