// Package document loads shell configuration files and resolves their
// import graphs.
//
// A document is a single TOML file. Its top-level `imports` array names
// further files to load before the document's own body: entries prefixed
// with `@` resolve relative to the configuration root directory, all
// others relative to the importing file's directory. An entry without an
// extension is given `.toml`.
package document

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Document is a single parsed configuration file.
type Document struct {
	// Path is the canonical absolute path identifying the document.
	Path string

	// Table is the parsed TOML body with the imports directive removed.
	Table map[string]any

	// Imports is the declared import list in file order.
	Imports []string
}

// Result is the outcome of resolving an import graph.
type Result struct {
	// Documents in merge order: each document's imports precede it,
	// the root document comes last. Local keys therefore always
	// outrank keys obtained through imports.
	Documents []*Document

	// Files is the transitive file set, for the reload watcher.
	Files []string
}

// resolver walks the import graph depth-first.
type resolver struct {
	rootDir string
	stack   []string
	order   []*Document
	files   []string
	seen    map[string]bool
}

// Resolve loads rootPath and every file reachable through imports,
// returning documents in merge order. Cycles and missing imports fail
// the whole resolution.
func Resolve(rootPath string) (*Result, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %s: %w", rootPath, err)
	}

	r := &resolver{
		rootDir: filepath.Dir(abs),
		seen:    make(map[string]bool),
	}
	if err := r.load(abs, ""); err != nil {
		return nil, err
	}

	return &Result{Documents: r.order, Files: r.files}, nil
}

// load parses path and recurses into its imports before appending the
// document itself to the merge order. importer is the file that
// referenced path, empty for the root.
func (r *resolver) load(path, importer string) error {
	for _, onStack := range r.stack {
		if onStack == path {
			chain := append(append([]string{}, r.stack...), path)
			return &ImportCycleError{Chain: chain}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && importer != "" {
			return &ImportNotFoundError{Importer: importer, Missing: path}
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	doc, err := parse(path, data)
	if err != nil {
		return err
	}

	if !r.seen[path] {
		r.seen[path] = true
		r.files = append(r.files, path)
	}

	r.stack = append(r.stack, path)
	for _, imp := range doc.Imports {
		resolved := r.resolveImport(path, imp)
		if err := r.load(resolved, path); err != nil {
			r.stack = r.stack[:len(r.stack)-1]
			return err
		}
	}
	r.stack = r.stack[:len(r.stack)-1]

	r.order = append(r.order, doc)
	return nil
}

// resolveImport turns an imports entry into an absolute file path.
func (r *resolver) resolveImport(importer, entry string) string {
	base := filepath.Dir(importer)
	if len(entry) > 0 && entry[0] == '@' {
		base = r.rootDir
		entry = entry[1:]
	}
	if filepath.Ext(entry) == "" {
		entry += ".toml"
	}
	if filepath.IsAbs(entry) {
		return filepath.Clean(entry)
	}
	return filepath.Join(base, entry)
}

// parse decodes TOML data and extracts the imports directive.
func parse(path string, data []byte) (*Document, error) {
	var table map[string]any
	if err := toml.Unmarshal(data, &table); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	if table == nil {
		table = make(map[string]any)
	}

	doc := &Document{Path: path, Table: table}

	raw, ok := table["imports"]
	if !ok {
		return doc, nil
	}
	delete(table, "imports")

	entries, ok := raw.([]any)
	if !ok {
		return nil, &ParseError{Path: path, Message: "imports must be an array of strings"}
	}
	for _, e := range entries {
		s, ok := e.(string)
		if !ok {
			return nil, &ParseError{Path: path, Message: fmt.Sprintf("imports entry %v is not a string", e)}
		}
		doc.Imports = append(doc.Imports, s)
	}
	return doc, nil
}

// defaultConfig is written when no root configuration file exists yet.
const defaultConfig = `# Lume shell configuration.
# Split settings across files with: imports = ["@bar.toml"]
`

// EnsureExists writes a starter configuration file at path if none is
// present, creating parent directories as needed.
func EnsureExists(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfig), 0o644)
}
