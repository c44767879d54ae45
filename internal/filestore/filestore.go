// Package filestore provides the flat on-disk file store shared by the
// gateway and the agents. Files are keyed by opaque identifiers; callers
// probe a fixed set of known extensions per source kind.
package filestore

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/kyoshi/internal/models"
)

// Extension probe lists per source kind, in probe order.
var (
	DocumentExts = []string{".pdf", ".pptx", ".docx", ".xlsx", ".txt", ".md"}
	ImageExts    = []string{".png", ".jpg", ".jpeg"}
	AudioExts    = []string{".wav", ".mp3", ".m4a"}
)

// Store is a flat directory keyed by opaque file identifiers, served
// externally at a fixed URL prefix mapping 1:1 to store-relative names.
type Store struct {
	root      string
	urlPrefix string
}

// New creates a store rooted at root. The directory is created if missing.
func New(root, urlPrefix string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &Store{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Resolve maps a file identifier to a concrete path by probing the given
// extension lists in order. An identifier that already carries a known
// extension is probed as-is first. Returns models.ErrNotFound when no
// candidate exists.
func (s *Store) Resolve(id string, extLists ...[]string) (string, error) {
	if ext := filepath.Ext(id); ext != "" {
		direct := filepath.Join(s.root, filepath.Base(id))
		if _, err := os.Stat(direct); err == nil {
			return direct, nil
		}
	}
	for _, exts := range extLists {
		for _, ext := range exts {
			path := filepath.Join(s.root, filepath.Base(id)+ext)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("no file for id %q: %w", id, models.ErrNotFound)
}

// Path returns the absolute path for a store-relative name without checking
// existence. Intended for writers that create the file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.root, filepath.Base(name))
}

// Write stores data under name, overwriting any previous content.
func (s *Store) Write(name string, data []byte) (string, error) {
	path := s.Path(name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// WriteFrom streams r into the store under name.
func (s *Store) WriteFrom(name string, r io.Reader) (string, error) {
	path := s.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// PublicURL returns the externally served URL for a store path or name.
func (s *Store) PublicURL(pathOrName string) string {
	return s.urlPrefix + "/" + filepath.Base(pathOrName)
}

// URLPrefix returns the external prefix the store is served under.
func (s *Store) URLPrefix() string { return s.urlPrefix }

// FileServer returns a handler serving the store's contents. Mounted by the
// gateway under URLPrefix.
func (s *Store) FileServer() http.Handler {
	return http.StripPrefix(s.urlPrefix+"/", http.FileServer(http.Dir(s.root)))
}
