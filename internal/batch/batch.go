// Package batch generates several stores from one YAML file so a whole
// domain model can be scaffolded, and committed, in one run.
//
// A batch file looks like:
//
//	path: src/app/store
//	lang: en
//	pk: id
//	entities:
//	  - name: product
//	  - name: category
//	    pk: slug
//	  - name: flor
//	    lang: es
package batch

import (
	"context"
	"fmt"
	"os"

	"github.com/ngx-essentials/ngxe/internal/schema"
	"github.com/ngx-essentials/ngxe/internal/store"
	"go.yaml.in/yaml/v3"
)

// File is a parsed batch file. Top-level fields are defaults for every
// entity.
type File struct {
	Path       string   `yaml:"path,omitempty"`
	Lang       string   `yaml:"lang,omitempty"`
	PK         string   `yaml:"pk,omitempty"`
	OnConflict string   `yaml:"onConflict,omitempty"`
	Entities   []Entity `yaml:"entities"`
}

// Entity is one store to generate.
type Entity struct {
	Name string `yaml:"name"`
	Path string `yaml:"path,omitempty"`
	PK   string `yaml:"pk,omitempty"`
	Lang string `yaml:"lang,omitempty"`
}

// Load reads and validates a batch file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse validates data against the batch schema and decodes it.
func Parse(data []byte) (*File, error) {
	res, err := schema.Validate(schema.Batch, data)
	if err != nil {
		return nil, err
	}
	if err := res.Error(); err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing batch file: %w", err)
	}
	return &f, nil
}

// Options returns the store options for each entity with the file-level
// defaults applied.
func (f *File) Options() []store.Options {
	out := make([]store.Options, 0, len(f.Entities))
	for _, e := range f.Entities {
		o := store.Options{
			Name:       e.Name,
			Path:       firstNonEmpty(e.Path, f.Path),
			PK:         firstNonEmpty(e.PK, f.PK),
			Lang:       firstNonEmpty(e.Lang, f.Lang),
			OnConflict: f.OnConflict,
		}
		out = append(out, o)
	}
	return out
}

// Run generates every entity of f with gen. All entities are staged on the
// generator's tree; the first failure stops the run and the caller should
// discard the tree.
func Run(ctx context.Context, gen *store.Generator, f *File) ([]*store.Result, error) {
	var results []*store.Result
	for _, opts := range f.Options() {
		res, err := gen.Generate(ctx, opts)
		if err != nil {
			return results, fmt.Errorf("entity %q: %w", opts.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
