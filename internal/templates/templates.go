// Package templates holds the embedded signal-store template sets and
// renders them against an entity. File contents use [[ ]] delimiters so the
// TypeScript they produce can keep its own braces; file names use Angular's
// __var@func__ placeholders.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
	"text/template"

	"github.com/ngx-essentials/ngxe/internal/names"
	"github.com/ngx-essentials/ngxe/internal/pluralize"
)

//go:embed all:files
var templateFS embed.FS

// Template set names.
const (
	SetStore  = "store"
	SetEntity = "entity"
)

const (
	leftDelim  = "[["
	rightDelim = "]]"
	tmplSuffix = ".tmpl"
)

var placeholderRe = regexp.MustCompile(`__([A-Za-z]+)(?:@([A-Za-z]+))?__`)

// Data holds all template variables available to the template sets.
type Data struct {
	Name       string // raw entity name, e.g. "orderItem"
	Dash       string // "order-item"
	Class      string // "OrderItem"
	Camel      string // "orderItem"
	Underscore string // "order_item"
	Plural     string // pluralized Camel, e.g. "orderItems"
	PK         string // primary key property, e.g. "id"
	Lang       string // pluralization language
}

// Entry is one rendered file.
type Entry struct {
	Path    string
	Content []byte
}

// NewData derives every casing of name. An empty pk defaults to "id".
func NewData(name, pk, lang string) Data {
	if pk == "" {
		pk = "id"
	}
	camel := names.Camelize(name)
	return Data{
		Name:       name,
		Dash:       names.Dasherize(name),
		Class:      names.Classify(name),
		Camel:      camel,
		Underscore: names.Underscore(name),
		Plural:     pluralize.Pluralize(camel, lang),
		PK:         pk,
		Lang:       lang,
	}
}

// Funcs returns the string helpers available to templates and file-name
// placeholders. pluralize follows lang.
func Funcs(lang string) template.FuncMap {
	return template.FuncMap{
		"dasherize":  names.Dasherize,
		"classify":   names.Classify,
		"camelize":   names.Camelize,
		"underscore": names.Underscore,
		"decamelize": names.Decamelize,
		"capitalize": names.Capitalize,
		"pluralize":  pluralize.For(lang),
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
	}
}

// Sets lists the embedded template set names.
func Sets() ([]string, error) {
	entries, err := fs.ReadDir(templateFS, "files")
	if err != nil {
		return nil, err
	}
	var sets []string
	for _, e := range entries {
		if e.IsDir() {
			sets = append(sets, e.Name())
		}
	}
	return sets, nil
}

// Render expands every file of the named set against data and relocates
// the results under dest. Entries come back in lexical path order.
func Render(set string, data Data, dest string) ([]Entry, error) {
	root := path.Join("files", set)
	if _, err := fs.Stat(templateFS, root); err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", set, err)
	}
	return render(templateFS, root, data, dest)
}

func render(fsys fs.FS, root string, data Data, dest string) ([]Entry, error) {
	funcs := Funcs(data.Lang)
	var entries []Entry

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}

		rel := strings.TrimPrefix(p, root+"/")
		outRel, err := expandPath(rel, data, funcs)
		if err != nil {
			return err
		}

		content := raw
		if strings.HasSuffix(outRel, tmplSuffix) {
			outRel = strings.TrimSuffix(outRel, tmplSuffix)
			content, err = execute(p, raw, data, funcs)
			if err != nil {
				return err
			}
		}

		entries = append(entries, Entry{
			Path:    path.Join(dest, outRel),
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func execute(name string, raw []byte, data Data, funcs template.FuncMap) ([]byte, error) {
	tmpl, err := template.New(path.Base(name)).
		Delims(leftDelim, rightDelim).
		Funcs(funcs).
		Option("missingkey=error").
		Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// expandPath replaces __var__ and __var@func__ placeholders in a template
// file path.
func expandPath(rel string, data Data, funcs template.FuncMap) (string, error) {
	var expandErr error
	out := placeholderRe.ReplaceAllStringFunc(rel, func(m string) string {
		parts := placeholderRe.FindStringSubmatch(m)
		value, ok := pathVar(parts[1], data)
		if !ok {
			expandErr = fmt.Errorf("unknown path variable %q in %s", parts[1], rel)
			return m
		}
		if parts[2] == "" {
			return value
		}
		fn, ok := funcs[parts[2]].(func(string) string)
		if !ok {
			expandErr = fmt.Errorf("unknown path function %q in %s", parts[2], rel)
			return m
		}
		return fn(value)
	})
	return out, expandErr
}

func pathVar(name string, data Data) (string, bool) {
	switch name {
	case "name":
		return data.Name, true
	case "pk":
		return data.PK, true
	case "lang":
		return data.Lang, true
	}
	return "", false
}
