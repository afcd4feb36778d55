package grammar

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// ErrNotFound is returned by sources which do not know a mime-type.
var ErrNotFound = errors.New("no grammar for mime-type")

// Source resolves mime-types to grammars. It is the interface to the
// grammar-loading collaborator.
type Source interface {
	Grammar(mimeType string) (*Grammar, error)
}

// --- Static sources --------------------------------------------------------

// Static is a source over a fixed set of grammars. It is safe for concurrent use.
type Static struct {
	sync.RWMutex
	grammars map[string]*Grammar
}

var _ Source = (*Static)(nil)

// NewStatic creates a source for a set of grammars, keyed by their mime-types.
func NewStatic(gs ...*Grammar) *Static {
	s := &Static{grammars: make(map[string]*Grammar)}
	for _, g := range gs {
		s.grammars[g.MimeType] = g
	}
	return s
}

// Put adds or replaces a grammar. Clients have to invalidate cached bindings
// for the grammar's mime-type.
func (s *Static) Put(g *Grammar) {
	s.Lock()
	defer s.Unlock()
	s.grammars[g.MimeType] = g
}

// Grammar is part of interface Source.
func (s *Static) Grammar(mimeType string) (*Grammar, error) {
	s.RLock()
	defer s.RUnlock()
	if g, ok := s.grammars[mimeType]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("%s: %w", mimeType, ErrNotFound)
}

// Mimes lists the mime-types of the grammars of s, in no particular order.
func (s *Static) Mimes() []string {
	s.RLock()
	defer s.RUnlock()
	mimes := make([]string, 0, len(s.grammars))
	for m := range s.grammars {
		mimes = append(mimes, m)
	}
	return mimes
}

// Chain is a source which asks a list of sources in turn. The first source
// which knows a mime-type wins; errors other than ErrNotFound stop the search.
type Chain []Source

var _ Source = Chain(nil)

// Grammar is part of interface Source.
func (c Chain) Grammar(mimeType string) (*Grammar, error) {
	for _, src := range c {
		g, err := src.Grammar(mimeType)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%s: %w", mimeType, ErrNotFound)
}

// --- Directory sources -----------------------------------------------------

// DirSource loads grammars from YAML files in a directory. The grammar for a
// mime-type lives in a file named by FileFor. Files are read on every lookup;
// clients are expected to cache results (see package binding).
type DirSource struct {
	fs  afero.Fs
	dir string
}

var _ Source = (*DirSource)(nil)

// NewDirSource creates a source for grammar files in dir. If fs is nil, the
// OS filesystem is used.
func NewDirSource(fs afero.Fs, dir string) *DirSource {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DirSource{fs: fs, dir: dir}
}

// Dir returns the directory of the source.
func (ds *DirSource) Dir() string {
	return ds.dir
}

// Grammar is part of interface Source.
func (ds *DirSource) Grammar(mimeType string) (*Grammar, error) {
	fname := filepath.Join(ds.dir, FileFor(mimeType))
	data, err := afero.ReadFile(ds.fs, fname)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", mimeType, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", mimeType, err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if g.MimeType == "" {
		g.MimeType = mimeType
	} else if g.MimeType != mimeType {
		return nil, fmt.Errorf("%s: grammar declares mime-type %s, expected %s",
			fname, g.MimeType, mimeType)
	}
	return g, nil
}

// MimeTypes lists the mime-types for which grammar files are present.
func (ds *DirSource) MimeTypes() ([]string, error) {
	infos, err := afero.ReadDir(ds.fs, ds.dir)
	if err != nil {
		return nil, err
	}
	var mimes []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		if m, ok := MimeFor(info.Name()); ok {
			mimes = append(mimes, m)
		}
	}
	return mimes, nil
}

const ext = ".yaml"

// FileFor returns the file name for a mime-type's grammar, e.g.
// "text%2Fx-jsp.yaml" for "text/x-jsp".
func FileFor(mimeType string) string {
	return url.PathEscape(mimeType) + ext
}

// MimeFor is the inverse of FileFor. It returns false if name is not the
// name of a grammar file.
func MimeFor(name string) (string, bool) {
	name = filepath.Base(name)
	if !strings.HasSuffix(name, ext) {
		return "", false
	}
	m, err := url.PathUnescape(strings.TrimSuffix(name, ext))
	if err != nil || m == "" {
		return "", false
	}
	return m, true
}
