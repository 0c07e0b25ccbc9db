// Package setup prepares an Angular project for generated signal stores:
// it pins @ngrx/signals to the framework's major version, registers the
// schematic collection in angular.json and queues a package install.
package setup

import (
	"context"
	"fmt"

	"github.com/ngx-essentials/ngxe/internal/branding"
	"github.com/ngx-essentials/ngxe/internal/logx"
	"github.com/ngx-essentials/ngxe/internal/pkgjson"
	"github.com/ngx-essentials/ngxe/internal/schema"
	"github.com/ngx-essentials/ngxe/internal/tasks"
	"github.com/ngx-essentials/ngxe/internal/tree"
	"github.com/ngx-essentials/ngxe/internal/workspace"
	"go.uber.org/zap"
)

// Options controls a setup run.
type Options struct {
	PK             string `json:"pk"`
	SkipInstall    bool   `json:"skipInstall,omitempty"`
	PackageManager string `json:"packageManager,omitempty"`
	// Dir is where the install task runs; it is not validated.
	Dir string `json:"-"`
}

// Result reports what a setup run staged.
type Result struct {
	Manifest      *pkgjson.Result
	Workspace     *workspace.PatchResult
	InstallQueued bool
}

// Applied reports whether the project was changed. It is false when the
// framework version is unsupported.
func (r *Result) Applied() bool {
	return r != nil && r.Manifest != nil && r.Manifest.Applied
}

// Run stages the package.json and angular.json changes in t and, unless
// opts.SkipInstall is set, adds an install task to queue. When the
// framework version is unsupported nothing is staged or queued.
func Run(ctx context.Context, t tree.Tree, opts Options, queue *tasks.Queue, log logx.Logger) (*Result, error) {
	if log == nil {
		log = logx.Nop()
	}
	res, err := schema.ValidateValue(schema.Add, opts)
	if err != nil {
		return nil, err
	}
	if err := res.Error(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest, err := pkgjson.Patch(t, pkgjson.PatchOptions{
		HostPackage:      branding.HostPackage(),
		CompanionPackage: branding.CompanionPackage(),
		ToolPackage:      branding.Collection(),
		MinMajor:         branding.MinHostMajor(),
	}, log)
	if err != nil {
		return nil, err
	}
	out := &Result{Manifest: manifest}
	if !manifest.Applied {
		return out, nil
	}

	out.Workspace, err = workspace.Patch(ctx, t, branding.Collection(), branding.GlobalOptionsKey(), opts.PK)
	if err != nil {
		return nil, fmt.Errorf("patching workspace: %w", err)
	}
	if !out.Workspace.Found {
		log.Warn("angular.json not found, skipping collection registration")
	}

	if !opts.SkipInstall && queue != nil {
		queue.Add(&tasks.NodePackageInstall{Dir: opts.Dir, PackageManager: opts.PackageManager})
		out.InstallQueued = true
	}

	log.Info("project configured",
		zap.String(branding.CompanionPackage(), manifest.CompanionVersion),
		zap.String("pk", opts.PK),
		zap.Bool("install", out.InstallQueued))
	return out, nil
}
