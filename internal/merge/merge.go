package merge

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ngx-essentials/ngxe/internal/logx"
	"github.com/ngx-essentials/ngxe/internal/templates"
	"github.com/ngx-essentials/ngxe/internal/tree"
	"go.uber.org/zap"
)

// Kind tags a Decision.
type Kind string

const (
	KindCreate        Kind = "create"
	KindSkipIdentical Kind = "skip"
	KindConflict      Kind = "conflict"
)

// Policy settles conflicts.
type Policy string

const (
	// PolicySkip leaves divergent files untouched.
	PolicySkip Policy = "skip"
	// PolicyAppend appends the rendered content to the divergent file.
	PolicyAppend Policy = "append"
)

// ParsePolicy maps a flag or config value to a Policy. Empty means PolicySkip.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicySkip:
		return PolicySkip, nil
	case PolicyAppend:
		return PolicyAppend, nil
	}
	return "", fmt.Errorf("unknown conflict policy %q (want skip or append)", s)
}

// Decision is the verdict for one rendered entry.
type Decision struct {
	Kind        Kind
	Path        string
	Content     []byte
	Existing    []byte
	Fingerprint string // sha256 of the trimmed rendered content
	// Applied is true when the decision resulted in a staged write.
	Applied bool
}

// Report collects the decisions of one Apply call.
type Report struct {
	Decisions []Decision
}

// Count returns how many decisions have the given kind.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, d := range r.Decisions {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Conflicts returns the paths whose decision was a conflict.
func (r *Report) Conflicts() []string {
	var paths []string
	for _, d := range r.Decisions {
		if d.Kind == KindConflict {
			paths = append(paths, d.Path)
		}
	}
	return paths
}

// Kept returns the conflicting paths that were left as they were, i.e. the
// conflicts no write was staged for.
func (r *Report) Kept() []string {
	var paths []string
	for _, d := range r.Decisions {
		if d.Kind == KindConflict && !d.Applied {
			paths = append(paths, d.Path)
		}
	}
	return paths
}

// Fingerprint hashes rendered content the same way Decide does.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(string(content))))
	return hex.EncodeToString(sum[:])
}

// Decide classifies one rendered entry against the tree.
func Decide(t tree.Reader, e templates.Entry) Decision {
	d := Decision{
		Path:        e.Path,
		Content:     e.Content,
		Fingerprint: Fingerprint(e.Content),
	}
	existing, ok := t.Read(e.Path)
	if !ok {
		d.Kind = KindCreate
		return d
	}
	d.Existing = existing
	if strings.Contains(string(existing), strings.TrimSpace(string(e.Content))) {
		d.Kind = KindSkipIdentical
	} else {
		d.Kind = KindConflict
	}
	return d
}

// Engine stages rendered entries into a tree.
type Engine struct {
	Tree   tree.Tree
	Policy Policy
	Logger logx.Logger
}

// New returns an Engine over t. A nil logger discards output.
func New(t tree.Tree, policy Policy, log logx.Logger) *Engine {
	if log == nil {
		log = logx.Nop()
	}
	if policy == "" {
		policy = PolicySkip
	}
	return &Engine{Tree: t, Policy: policy, Logger: log}
}

// Apply decides every entry and stages creates, plus appends under
// PolicyAppend. It never deletes, and under PolicySkip never modifies an
// existing file.
func (e *Engine) Apply(entries []templates.Entry) (*Report, error) {
	report := &Report{}
	for _, entry := range entries {
		d := Decide(e.Tree, entry)

		switch d.Kind {
		case KindCreate:
			if err := e.Tree.Create(d.Path, d.Content); err != nil {
				return report, fmt.Errorf("staging %s: %w", d.Path, err)
			}
			d.Applied = true
		case KindSkipIdentical:
			e.Logger.Debug("already generated", zap.String("path", d.Path))
		case KindConflict:
			if e.Policy == PolicyAppend {
				merged := string(d.Existing) + "\n" + string(d.Content)
				if err := e.Tree.Overwrite(d.Path, []byte(merged)); err != nil {
					return report, fmt.Errorf("appending to %s: %w", d.Path, err)
				}
				d.Applied = true
				e.Logger.Warn("appended to modified file", zap.String("path", d.Path))
			} else {
				e.Logger.Warn("kept modified file", zap.String("path", d.Path),
					zap.String("fingerprint", d.Fingerprint[:12]))
			}
		}

		report.Decisions = append(report.Decisions, d)
	}
	return report, nil
}
