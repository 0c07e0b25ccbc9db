package tree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

var (
	// ErrExists is returned by Create when the path already exists.
	ErrExists = errors.New("file already exists")
	// ErrNotExist is returned by Overwrite when the path does not exist.
	ErrNotExist = errors.New("file does not exist")
)

// Reader is the read-only view of a tree.
type Reader interface {
	Exists(p string) bool
	// Read returns the content at p, or nil and false when p does not exist.
	Read(p string) ([]byte, bool)
}

// Tree is a Reader that can stage writes.
type Tree interface {
	Reader
	Create(p string, content []byte) error
	Overwrite(p string, content []byte) error
}

// ActionKind tags a staged write.
type ActionKind string

const (
	ActionCreate    ActionKind = "create"
	ActionOverwrite ActionKind = "overwrite"
)

// Action is one staged write.
type Action struct {
	Kind    ActionKind
	Path    string
	Content []byte
}

// Staged is a Tree over an afero filesystem rooted at Root.
// Staged is not safe for concurrent use.
type Staged struct {
	fs      afero.Fs
	root    string
	staged  map[string][]byte
	actions []Action
}

// New returns a Staged tree rooted at root on fs.
func New(fs afero.Fs, root string) *Staged {
	return &Staged{
		fs:     fs,
		root:   root,
		staged: make(map[string][]byte),
	}
}

// NewOS returns a Staged tree over the OS filesystem rooted at dir.
func NewOS(dir string) *Staged {
	return New(afero.NewOsFs(), dir)
}

// NewMemory returns a Staged tree over an empty in-memory filesystem.
func NewMemory() *Staged {
	return New(afero.NewMemMapFs(), "/")
}

// Clean normalizes p to a slash-rooted tree path ("src/a" -> "/src/a").
func Clean(p string) string {
	return path.Clean("/" + filepath.ToSlash(p))
}

// Join joins tree path elements and cleans the result.
func Join(elem ...string) string {
	return Clean(path.Join(elem...))
}

func (s *Staged) diskPath(p string) string {
	return filepath.Join(s.root, filepath.FromSlash(Clean(p)))
}

// Exists reports whether p is a file in the tree.
func (s *Staged) Exists(p string) bool {
	_, ok := s.Read(p)
	return ok
}

// Read returns the content at p.
func (s *Staged) Read(p string) ([]byte, bool) {
	p = Clean(p)
	if content, ok := s.staged[p]; ok {
		return content, true
	}
	info, err := s.fs.Stat(s.diskPath(p))
	if err != nil || info.IsDir() {
		return nil, false
	}
	data, err := afero.ReadFile(s.fs, s.diskPath(p))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Create stages a new file at p.
func (s *Staged) Create(p string, content []byte) error {
	p = Clean(p)
	if s.Exists(p) {
		return fmt.Errorf("create %s: %w", p, ErrExists)
	}
	s.stage(ActionCreate, p, content)
	return nil
}

// Overwrite stages new content for an existing file at p.
func (s *Staged) Overwrite(p string, content []byte) error {
	p = Clean(p)
	if !s.Exists(p) {
		return fmt.Errorf("overwrite %s: %w", p, ErrNotExist)
	}
	s.stage(ActionOverwrite, p, content)
	return nil
}

// stage records a write. Repeated writes to one path collapse into the
// first action's slot so Actions reports each path once.
func (s *Staged) stage(kind ActionKind, p string, content []byte) {
	buf := append([]byte(nil), content...)
	s.staged[p] = buf
	for i := range s.actions {
		if s.actions[i].Path == p {
			s.actions[i].Content = buf
			return
		}
	}
	s.actions = append(s.actions, Action{Kind: kind, Path: p, Content: buf})
}

// Actions returns the staged writes in the order they were first recorded.
func (s *Staged) Actions() []Action {
	out := make([]Action, len(s.actions))
	copy(out, s.actions)
	return out
}

// Changed reports whether anything is staged.
func (s *Staged) Changed() bool {
	return len(s.actions) > 0
}

// Commit writes every staged action to the backing filesystem and clears
// the stage. It stops at the first error; actions already written stay.
func (s *Staged) Commit(ctx context.Context) error {
	for _, a := range s.actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := s.diskPath(a.Path)
		if err := s.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", a.Path, err)
		}
		if err := afero.WriteFile(s.fs, dst, a.Content, os.FileMode(0644)); err != nil {
			return fmt.Errorf("writing %s: %w", a.Path, err)
		}
	}
	s.Discard()
	return nil
}

// Discard drops all staged actions.
func (s *Staged) Discard() {
	s.staged = make(map[string][]byte)
	s.actions = nil
}
