// Package workspace reads and patches angular.json: registered schematic
// collections, per-collection option defaults and project source roots.
package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/ngx-essentials/ngxe/internal/jsondoc"
	"github.com/ngx-essentials/ngxe/internal/tree"
)

// FileName is the workspace configuration path inside the tree.
const FileName = "/angular.json"

// LegacyOptionsKey is the options key older releases read defaults from.
const LegacyOptionsKey = "ngx-autogen:all"

// ErrNotFound is returned by Load when the tree has no angular.json.
var ErrNotFound = errors.New("workspace configuration not found")

// Document is a parsed angular.json.
type Document struct {
	doc *jsondoc.Document
}

// Parse parses angular.json content.
func Parse(data []byte) (*Document, error) {
	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// Load reads and parses the workspace from t.
func Load(ctx context.Context, t tree.Reader) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := t.Read(FileName)
	if !ok {
		return nil, ErrNotFound
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return d, nil
}

// SchematicOption returns a string option from schematics[key][field].
// When project is set, that project's own schematics section wins over the
// workspace-wide one.
func (d *Document) SchematicOption(project, key, field string) (string, bool) {
	root := d.doc.Root()
	if project != "" {
		if opts, ok := root.Lookup("projects", project, "schematics", key); ok {
			if v, ok := opts.String(field); ok && v != "" {
				return v, true
			}
		}
	}
	if opts, ok := root.Lookup("schematics", key); ok {
		if v, ok := opts.String(field); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Collections returns cli.schematicCollections.
func (d *Document) Collections() []string {
	cli, ok := d.doc.Root().Object("cli")
	if !ok {
		return nil
	}
	list, _ := cli.Strings("schematicCollections")
	return list
}

// EnsureCollection appends id to cli.schematicCollections unless present and
// reports whether it was added.
func (d *Document) EnsureCollection(id string) bool {
	for _, c := range d.Collections() {
		if c == id {
			return false
		}
	}
	d.doc.Root().EnsureObject("cli").AppendString("schematicCollections", id)
	return true
}

// SetSchematicOptions replaces schematics[key] with opts.
func (d *Document) SetSchematicOptions(key string, opts map[string]any) error {
	return d.doc.Root().EnsureObject("schematics").Set(key, opts)
}

// Projects returns the project names in document order.
func (d *Document) Projects() []string {
	projects, ok := d.doc.Root().Object("projects")
	if !ok {
		return nil
	}
	return projects.Keys()
}

// SourceRoot returns projects[name].sourceRoot. An empty name selects the
// first project.
func (d *Document) SourceRoot(name string) (string, bool) {
	if name == "" {
		all := d.Projects()
		if len(all) == 0 {
			return "", false
		}
		name = all[0]
	}
	project, ok := d.doc.Root().Lookup("projects", name)
	if !ok {
		return "", false
	}
	return project.String("sourceRoot")
}

// Marshal prints the document with two-space indentation.
func (d *Document) Marshal() ([]byte, error) {
	return d.doc.Marshal()
}

// Save overwrites angular.json in t with the document.
func (d *Document) Save(t tree.Tree) error {
	data, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", FileName, err)
	}
	if t.Exists(FileName) {
		return t.Overwrite(FileName, data)
	}
	return t.Create(FileName, data)
}

// PatchResult reports what Patch changed.
type PatchResult struct {
	Found           bool
	CollectionAdded bool
}

// Patch registers collection in angular.json and records pk as the
// workspace-wide default under optionsKey. A missing angular.json is not an
// error: the result reports Found=false and nothing is staged.
func Patch(ctx context.Context, t tree.Tree, collection, optionsKey, pk string) (*PatchResult, error) {
	d, err := Load(ctx, t)
	if errors.Is(err, ErrNotFound) {
		return &PatchResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	res := &PatchResult{Found: true}
	res.CollectionAdded = d.EnsureCollection(collection)
	if err := d.SetSchematicOptions(optionsKey, map[string]any{"pk": pk}); err != nil {
		return nil, err
	}
	if err := d.Save(t); err != nil {
		return nil, fmt.Errorf("saving %s: %w", FileName, err)
	}
	return res, nil
}
