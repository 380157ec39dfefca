// Package project reads ptree.yaml, the file that tells the ptree tools
// which grammar to parse a directory's sources with.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/ptree/ebnf/parse"
)

// ConfigName is the name of the configuration file.
const ConfigName = "ptree.yaml"

// ErrNotFound is returned when no configuration file exists in a directory
// or any of its parents.
var ErrNotFound = errors.New(ConfigName + " not found")

// Project is a directory of sources described by a ptree.yaml.
type Project struct {
	RootDir    string
	ConfigFile string
	Grammar    string // absolute path of the grammar file
	Start      string // start production, empty for the grammar's default
	Trivia     []string
	Builder    parse.Discipline
	Extensions []string
}

type config struct {
	Grammar    string    `yaml:"grammar"`
	Start      string    `yaml:"start"`
	Trivia     *[]string `yaml:"trivia"`
	Builder    string    `yaml:"builder"`
	Extensions []string  `yaml:"extensions"`
}

// Load finds the configuration for the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom looks for ptree.yaml in dir and then in each of its parents.
func LoadFrom(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	for current := abs; ; {
		path := filepath.Join(current, ConfigName)
		if _, err := os.Stat(path); err == nil {
			return ReadFile(path)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return nil, fmt.Errorf("%w in %s or its parents", ErrNotFound, abs)
		}
		current = parent
	}
}

// ReadFile reads the configuration at path. Relative paths inside it are
// resolved against its directory.
func ReadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	proj, err := decode(bytes.NewReader(data), filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	proj.ConfigFile = abs
	return proj, nil
}

func decode(r io.Reader, rootDir string) (*Project, error) {
	var cfg config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Grammar == "" {
		return nil, fmt.Errorf("grammar: required")
	}
	builder, err := parse.ParseDiscipline(cfg.Builder)
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return nil, fmt.Errorf("extensions: %q does not start with a dot", ext)
		}
	}

	proj := &Project{
		RootDir:    rootDir,
		Grammar:    cfg.Grammar,
		Start:      cfg.Start,
		Trivia:     parse.DefaultSkipKinds,
		Builder:    builder,
		Extensions: cfg.Extensions,
	}
	if !filepath.IsAbs(proj.Grammar) {
		proj.Grammar = filepath.Join(rootDir, proj.Grammar)
	}
	if cfg.Trivia != nil {
		proj.Trivia = *cfg.Trivia
	}
	return proj, nil
}

// LoadGrammar loads and verifies the project's grammar.
func (p *Project) LoadGrammar() (*parse.Grammar, error) {
	g, err := parse.LoadGrammar(p.Grammar)
	if err != nil {
		return nil, err
	}
	start := p.Start
	if start == "" {
		start = g.DefaultStart()
	}
	if err := g.Verify(start); err != nil {
		return nil, fmt.Errorf("verify grammar %s: %w", p.Grammar, err)
	}
	return g, nil
}

// ParseOptions returns the parse options the configuration asks for.
func (p *Project) ParseOptions() []parse.Option {
	opts := []parse.Option{
		parse.WithSkipKinds(p.Trivia...),
		parse.WithDiscipline(p.Builder),
	}
	if p.Start != "" {
		opts = append(opts, parse.WithStart(p.Start))
	}
	return opts
}

// Matches reports whether path is a source file of the project. Without
// configured extensions every file matches.
func (p *Project) Matches(path string) bool {
	if len(p.Extensions) == 0 {
		return true
	}
	return slices.Contains(p.Extensions, filepath.Ext(path))
}

// SourceFiles returns the files below the root directory whose extension is
// configured, skipping hidden directories. A project without extensions has
// no source files.
func (p *Project) SourceFiles() ([]string, error) {
	var files []string

	err := filepath.WalkDir(p.RootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != p.RootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if path == p.Grammar || path == p.ConfigFile || d.Name() == ConfigName {
			return nil
		}
		if len(p.Extensions) > 0 && p.Matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan source files in %s: %w", p.RootDir, err)
	}

	return files, nil
}
