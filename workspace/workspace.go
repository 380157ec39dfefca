// Package workspace keeps parse trees of open documents up to date and
// answers editor queries about them over the language server protocol.
package workspace

import (
	"fmt"
	"os"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/ptree/ebnf/parse"
	"github.com/dhamidi/ptree/parsetree"
	"github.com/dhamidi/ptree/project"
)

var log = commonlog.GetLogger("ptree.workspace")

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	project *project.Project
	grammar *parse.Grammar
	opts    []parse.Option
	files   map[string]*Document
}

// Document is the latest content of a file and the tree parsed from it.
// Tree is nil when the content does not parse.
type Document struct {
	Path     string
	Content  []byte
	Tree     *parsetree.Tree
	ParseErr error
	Lines    *LineIndex
}

// Accessor returns the accessor rendering the document's nodes.
func (d *Document) Accessor(g *parse.Grammar) parsetree.Accessor {
	return parsetree.NewAccessor(parsetree.SourceText(d.Content), g.Symbols())
}

func New(rootDir string, g *parse.Grammar, opts ...parse.Option) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		grammar: g,
		opts:    opts,
		files:   make(map[string]*Document),
	}
}

// Open creates a workspace for the project that rootDir belongs to.
func Open(rootDir string) (*Workspace, error) {
	proj, err := project.LoadFrom(rootDir)
	if err != nil {
		return nil, err
	}
	g, err := proj.LoadGrammar()
	if err != nil {
		return nil, err
	}
	ws := New(proj.RootDir, g, proj.ParseOptions()...)
	ws.project = proj
	return ws, nil
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

func (w *Workspace) Grammar() *parse.Grammar {
	return w.grammar
}

// Project returns the project the workspace was opened from, or nil.
func (w *Workspace) Project() *project.Project {
	return w.project
}

// ScanAll parses every source file of the project.
func (w *Workspace) ScanAll() error {
	if w.project == nil {
		return nil
	}
	files, err := w.project.SourceFiles()
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := w.ScanFile(path); err != nil {
			log.Warningf("scan %s: %s", path, err)
		}
	}
	return nil
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	w.UpdateFile(path, content)
	return nil
}

// UpdateFile replaces the content of path and parses it again.
func (w *Workspace) UpdateFile(path string, content []byte) *Document {
	opts := append([]parse.Option{parse.WithFile(path)}, w.opts...)
	tree, err := parse.ParseFile(w.grammar, content, opts...)
	if err != nil {
		log.Debugf("%s", err)
	}

	doc := &Document{
		Path:     path,
		Content:  content,
		Tree:     tree,
		ParseErr: err,
		Lines:    NewLineIndex(content),
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = doc
	return doc
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Paths returns the paths of all known documents.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	return paths
}
