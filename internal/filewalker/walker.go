package filewalker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"

	"localize-gen/internal/parser"
	"localize-gen/internal/worker"
)

// Kind classifies a discovered file.
type Kind int

const (
	KindDictionary Kind = iota + 1
	KindSource
	KindProject
)

func (k Kind) String() string {
	switch k {
	case KindDictionary:
		return "dictionary"
	case KindSource:
		return "source"
	case KindProject:
		return "project"
	default:
		return "unknown"
	}
}

// skippedDirs are build output and tooling directories never walked into.
var skippedDirs = map[string]bool{
	"bin":          true,
	"obj":          true,
	".git":         true,
	".vs":          true,
	".idea":        true,
	"node_modules": true,
}

// FileEntry is a discovered file. Rel is slash-separated and relative to
// the walk root.
type FileEntry struct {
	Path    string
	Rel     string
	Kind    Kind
	Content []byte
}

// Walker discovers resource dictionaries, C# sources and project files.
type Walker struct {
	excludes []glob.Glob
	workers  int
}

// NewWalker creates a walker. Files whose relative path matches any of the
// exclude globs are ignored.
func NewWalker(excludes []string, workers int) (*Walker, error) {
	w := &Walker{workers: workers}
	for _, pattern := range excludes {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}
		w.excludes = append(w.excludes, g)
	}
	return w, nil
}

// dictionaryParser decides which files are resource dictionaries.
var dictionaryParser parser.Parser = parser.NewXAMLParser()

// Classify returns the kind of the file at rel, or 0 for files the tool
// does not use.
func Classify(rel string) Kind {
	switch {
	case dictionaryParser.CanParse(rel):
		return KindDictionary
	case strings.EqualFold(filepath.Ext(rel), ".cs"):
		return KindSource
	case strings.EqualFold(filepath.Ext(rel), ".csproj"):
		return KindProject
	default:
		return 0
	}
}

// SkipDir reports whether a directory with the given base name is never
// walked into.
func SkipDir(name string) bool {
	return skippedDirs[strings.ToLower(name)]
}

// Relevant reports whether the file at rel would be discovered by Walk.
func (w *Walker) Relevant(rel string) bool {
	return Classify(rel) != 0 && !w.excluded(rel)
}

func (w *Walker) excluded(rel string) bool {
	for _, g := range w.excludes {
		if g.Match(rel) || g.Match("/"+rel) {
			return true
		}
	}
	return false
}

// Walk discovers all relevant files under root in lexical order.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		if d.IsDir() {
			if path != root && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if w.excluded(rel) {
			return nil
		}

		if kind := Classify(rel); kind != 0 {
			entries = append(entries, FileEntry{Path: path, Rel: rel, Kind: kind})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}

// Load walks root and reads every discovered file.
func (w *Walker) Load(ctx context.Context, root string) ([]FileEntry, error) {
	entries, err := w.Walk(root)
	if err != nil {
		return nil, err
	}

	pool := worker.NewPool("read", w.workers, func(_ context.Context, e FileEntry) ([]byte, error) {
		return os.ReadFile(e.Path)
	})

	var loaded []FileEntry
	for _, task := range pool.Execute(ctx, entries) {
		if task.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Warn().Err(task.Err).Str("file", task.Input.Rel).Msg("Cannot read file, skipping")
			continue
		}
		e := task.Input
		e.Content = task.Result
		loaded = append(loaded, e)
	}
	return loaded, nil
}
