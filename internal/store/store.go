package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/ngx-essentials/ngxe/internal/barrel"
	"github.com/ngx-essentials/ngxe/internal/branding"
	"github.com/ngx-essentials/ngxe/internal/logx"
	"github.com/ngx-essentials/ngxe/internal/merge"
	"github.com/ngx-essentials/ngxe/internal/names"
	"github.com/ngx-essentials/ngxe/internal/schema"
	"github.com/ngx-essentials/ngxe/internal/templates"
	"github.com/ngx-essentials/ngxe/internal/tree"
	"github.com/ngx-essentials/ngxe/internal/workspace"
	"go.uber.org/zap"
)

const (
	// DefaultPK is the primary key used when neither the options nor the
	// workspace name one.
	DefaultPK = "id"
	// DefaultLang selects English pluralization.
	DefaultLang = "en"
	// DefaultPath is used when the workspace has no source root.
	DefaultPath = "/src/app/store"

	entityDir = "common/entity"
)

// Options describes one store to generate.
type Options struct {
	Name       string `json:"name"`
	Path       string `json:"path,omitempty"`
	PK         string `json:"pk,omitempty"`
	Lang       string `json:"lang,omitempty"`
	Project    string `json:"project,omitempty"`
	OnConflict string `json:"onConflict,omitempty"`
}

// Validate checks the options against the embedded store schema.
func (o Options) Validate() error {
	res, err := schema.ValidateValue(schema.Store, o)
	if err != nil {
		return err
	}
	return res.Error()
}

// Normalize fills defaults for PK and Lang and cleans Path. An empty Path
// stays empty so the generator can derive it from the workspace.
func (o *Options) Normalize() {
	if o.PK == "" {
		o.PK = DefaultPK
	}
	if o.Lang == "" {
		o.Lang = DefaultLang
	}
	if o.Path != "" {
		o.Path = tree.Clean(o.Path)
	}
}

// Result reports everything staged for one entity.
type Result struct {
	Entity   string
	Path     string // store directory, e.g. /src/app/store
	PK       string
	Plural   string
	Index    barrel.Change
	Store    *merge.Report
	Common   *merge.Report
	PKSource string // options, workspace, config or default
}

// Generator stages store files into Tree.
type Generator struct {
	Tree   tree.Tree
	Logger logx.Logger
	// Policy settles conflicts when Options.OnConflict is empty.
	Policy merge.Policy
	// ConfigPK is used when neither the options nor the workspace name a
	// primary key. Empty means "id".
	ConfigPK string
}

// New returns a Generator over t. A nil logger discards output.
func New(t tree.Tree, log logx.Logger) *Generator {
	return &Generator{Tree: t, Logger: log, Policy: merge.PolicySkip}
}

// Generate validates opts, resolves defaults from the workspace and stages
// the barrel entry, the entity's store files and the shared entity files.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	log := g.Logger
	if log == nil {
		log = logx.Nop()
	}

	// Validation sees the trimmed name so blank names are rejected.
	opts.Name = strings.TrimSpace(opts.Name)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	policy := g.Policy
	if opts.OnConflict != "" {
		p, err := merge.ParsePolicy(opts.OnConflict)
		if err != nil {
			return nil, err
		}
		policy = p
	}

	ws, err := workspace.Load(ctx, g.Tree)
	switch {
	case errors.Is(err, workspace.ErrNotFound):
		ws = nil
	case err != nil:
		return nil, err
	}

	pkSource := "options"
	if opts.PK == "" {
		pkSource = "default"
		if pk, ok := workspacePK(ws, opts.Project); ok {
			opts.PK = pk
			pkSource = "workspace"
		} else if g.ConfigPK != "" {
			opts.PK = g.ConfigPK
			pkSource = "config"
		}
	}
	if opts.Path == "" {
		opts.Path = defaultPath(ws, opts.Project)
	}
	opts.Normalize()

	log = log.With(zap.String("entity", opts.Name))
	dash := names.Dasherize(opts.Name)
	data := templates.NewData(opts.Name, opts.PK, opts.Lang)

	res := &Result{
		Entity:   names.Classify(opts.Name),
		Path:     opts.Path,
		PK:       opts.PK,
		Plural:   data.Plural,
		PKSource: pkSource,
	}

	indexPath := path.Join(opts.Path, barrel.FileName)
	res.Index, err = barrel.Update(g.Tree, indexPath, opts.Name)
	if err != nil {
		return nil, err
	}
	log.Debug("index", zap.String("path", indexPath), zap.String("change", string(res.Index)))

	engine := merge.New(g.Tree, policy, log)

	storeEntries, err := templates.Render(templates.SetStore, data, path.Join(opts.Path, dash))
	if err != nil {
		return nil, fmt.Errorf("rendering store files: %w", err)
	}
	if res.Store, err = engine.Apply(storeEntries); err != nil {
		return nil, err
	}

	commonEntries, err := templates.Render(templates.SetEntity, data, path.Join(opts.Path, entityDir))
	if err != nil {
		return nil, fmt.Errorf("rendering entity files: %w", err)
	}
	if res.Common, err = engine.Apply(commonEntries); err != nil {
		return nil, err
	}

	log.Info("store staged",
		zap.String("path", opts.Path),
		zap.String("pk", opts.PK),
		zap.Int("created", res.Store.Count(merge.KindCreate)+res.Common.Count(merge.KindCreate)),
		zap.Int("conflicts", len(res.Store.Conflicts())+len(res.Common.Conflicts())))
	return res, nil
}

// workspacePK reads the pk default recorded by setup, falling back to the
// key older releases wrote.
func workspacePK(ws *workspace.Document, project string) (string, bool) {
	if ws == nil {
		return "", false
	}
	for _, key := range []string{branding.GlobalOptionsKey(), workspace.LegacyOptionsKey} {
		if pk, ok := ws.SchematicOption(project, key, "pk"); ok {
			return pk, true
		}
	}
	return "", false
}

func defaultPath(ws *workspace.Document, project string) string {
	if ws != nil {
		if root, ok := ws.SourceRoot(project); ok && root != "" {
			return tree.Join(root, "app", "store")
		}
	}
	return DefaultPath
}
