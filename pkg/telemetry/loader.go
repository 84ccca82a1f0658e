package telemetry

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Load error operations.
const (
	OpResolve = "resolve"
	OpRead    = "read"
	OpParse   = "parse"
)

// readFile allows tests to stub the single document read.
var readFile = readDocument

var errEmptyPath = errors.New("empty document path")

// LoadError reports why a document could not be obtained at all.
type LoadError struct {
	Op   string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	switch e.Op {
	case OpParse:
		return fmt.Sprintf("parsing telemetry document %s: %v", e.Path, e.Err)
	case OpRead:
		return fmt.Sprintf("reading telemetry document: %v", e.Err)
	default:
		return fmt.Sprintf("resolving telemetry document %q: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader reads documents relative to a fixed base directory.
type Loader struct {
	BaseDir string
	// Confine rejects paths that resolve outside BaseDir.
	Confine bool
}

// NewLoader returns a Loader rooted at the absolute form of baseDir.
func NewLoader(baseDir string, confine bool) (*Loader, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory %q: %w", baseDir, err)
	}
	return &Loader{BaseDir: abs, Confine: confine}, nil
}

// Resolve maps a caller path onto the filesystem. Relative paths are joined
// to BaseDir; absolute paths are used as given unless Confine is set and they
// leave BaseDir, either lexically or by following a symlink.
func (l *Loader) Resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errEmptyPath
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(l.BaseDir, full)
	}
	full = filepath.Clean(full)
	if !l.Confine {
		return full, nil
	}

	base := filepath.Clean(l.BaseDir)
	if !within(base, full) {
		return "", fmt.Errorf("path escapes base directory %s", l.BaseDir)
	}
	realBase, err := evalSymlinks(base)
	if err != nil {
		return "", err
	}
	realFull, err := evalSymlinks(full)
	if err != nil {
		return "", err
	}
	if !within(realBase, realFull) {
		return "", fmt.Errorf("path links outside base directory %s", l.BaseDir)
	}
	return full, nil
}

func within(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// evalSymlinks resolves the longest existing prefix of path and appends the
// missing remainder unchanged.
func evalSymlinks(path string) (string, error) {
	real, err := filepath.EvalSymlinks(path)
	if err == nil {
		return real, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path, nil
	}
	realParent, err := evalSymlinks(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(realParent, filepath.Base(path)), nil
}

// Load resolves, reads and parses one document. It either returns a complete
// Document or a *LoadError, never both.
func (l *Loader) Load(path string) (*Document, error) {
	full, err := l.Resolve(path)
	if err != nil {
		return nil, &LoadError{Op: OpResolve, Path: path, Err: err}
	}
	data, err := readFile(full)
	if err != nil {
		return nil, &LoadError{Op: OpRead, Path: full, Err: err}
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Op: OpParse, Path: full, Err: err}
	}
	doc.Path = full
	return doc, nil
}
