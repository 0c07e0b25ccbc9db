// Package barrel maintains the index.ts file that re-exports every store
// generated into a directory. Each entity owns a block headed by a marker
// comment; the file is only ever appended to, so hand edits survive.
package barrel

import (
	"fmt"
	"strings"

	"github.com/ngx-essentials/ngxe/internal/names"
	"github.com/ngx-essentials/ngxe/internal/tree"
)

// FileName is the barrel file generated in each store directory.
const FileName = "index.ts"

// Kinds are the per-entity files re-exported by the barrel, in block order.
var Kinds = []string{"model", "service", "store"}

// Change describes what Update did to the barrel file.
type Change string

const (
	ChangeCreated   Change = "created"
	ChangeUpdated   Change = "updated"
	ChangeUnchanged Change = "unchanged"
)

// Marker returns the comment that identifies an entity's block,
// e.g. "/* ORDERITEM */" for "order-item".
func Marker(entityName string) string {
	return "/* " + strings.ToUpper(names.Classify(entityName)) + " */"
}

// Block returns the marker followed by one export line per kind.
func Block(entityName string) []string {
	dash := names.Dasherize(entityName)
	lines := []string{Marker(entityName)}
	for _, kind := range Kinds {
		lines = append(lines, fmt.Sprintf("export * from './%s/%s.%s';", dash, dash, kind))
	}
	return lines
}

// Merge returns content with the entity's block added. When the marker is
// already present only the block lines missing from content are appended,
// each on a new line; presence is plain substring containment, so the
// block is not checked for order or contiguity. Otherwise the whole block
// is appended after the trimmed content and one blank line.
func Merge(content, entityName string) string {
	block := Block(entityName)

	if strings.Contains(content, Marker(entityName)) {
		var b strings.Builder
		b.WriteString(content)
		for _, line := range block {
			if strings.Contains(b.String(), line) {
				continue
			}
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
			b.WriteString(line + "\n")
		}
		return b.String()
	}

	sep := ""
	if len(content) > 0 {
		sep = "\n\n"
	}
	return strings.TrimSpace(content) + sep + strings.Join(block, "\n") + "\n"
}

// Update merges the entity's block into the barrel at indexPath, creating
// the file if needed. Nothing is staged when the content would not change.
func Update(t tree.Tree, indexPath, entityName string) (Change, error) {
	existing, exists := t.Read(indexPath)
	content := string(existing)

	merged := Merge(content, entityName)

	switch {
	case !exists:
		if err := t.Create(indexPath, []byte(merged)); err != nil {
			return "", fmt.Errorf("creating barrel %s: %w", indexPath, err)
		}
		return ChangeCreated, nil
	case merged == content:
		return ChangeUnchanged, nil
	default:
		if err := t.Overwrite(indexPath, []byte(merged)); err != nil {
			return "", fmt.Errorf("updating barrel %s: %w", indexPath, err)
		}
		return ChangeUpdated, nil
	}
}
