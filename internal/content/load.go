package content

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultDocument []byte

// Parse decodes and normalizes a YAML content document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("content: unmarshal: %w", err)
	}
	if err := doc.normalize(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Default returns the document compiled into the binary.
func Default() *Document {
	doc, err := Parse(defaultDocument)
	if err != nil {
		panic(err)
	}
	return doc
}

// Load reads the document at path. An empty path yields the embedded default.
func Load(path string) (*Document, error) {
	if path == "" {
		return Parse(defaultDocument)
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("content: load %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content: load %s: %w", path, err)
	}
	return doc, nil
}

// Store holds the live document. Readers always see a complete document;
// reloads swap it atomically.
type Store struct {
	path string
	doc  atomic.Pointer[Document]
}

func NewStore(path string) (*Store, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Store{path: path}
	s.doc.Store(doc)
	return s, nil
}

// NewStaticStore wraps an already loaded document. Reload is a no-op.
func NewStaticStore(doc *Document) *Store {
	s := &Store{}
	s.doc.Store(doc)
	return s
}

func (s *Store) Path() string { return s.path }

func (s *Store) Document() *Document { return s.doc.Load() }

// Reload re-reads the backing file. On error the current document is kept.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	doc, err := Load(s.path)
	if err != nil {
		return err
	}
	s.doc.Store(doc)
	return nil
}
