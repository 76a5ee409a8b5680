package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"localize-gen/internal/codegen"
	"localize-gen/internal/config"
	"localize-gen/internal/diag"
	"localize-gen/internal/filewalker"
	"localize-gen/internal/locale"
	"localize-gen/internal/names"
	"localize-gen/internal/pipeline"
	"localize-gen/internal/project"
)

// runner holds what survives between runs of one invocation, so a watch
// session reuses the stage caches.
type runner struct {
	cfg      *config.Config
	walker   *filewalker.Walker
	engine   *pipeline.Engine
	reporter *diag.Reporter
}

type runResult struct {
	output  *pipeline.Output
	written []string
	removed []string
	failed  bool
}

func newRunner(cmd *cobra.Command, gf *globalFlags) (*runner, error) {
	cfg, err := loadConfig(cmd.Flags(), gf)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(cfg.Level())

	walker, err := filewalker.NewWalker(cfg.Excludes(), cfg.Workers)
	if err != nil {
		return nil, err
	}

	return &runner{
		cfg:      cfg,
		walker:   walker,
		engine:   pipeline.NewEngine(cfg.Workers, cfg.CacheSize),
		reporter: diag.NewReporter(cmd.ErrOrStderr(), colored(cmd.ErrOrStderr())),
	}, nil
}

func colored(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// run performs one discovery and pipeline pass and renders its diagnostics.
// Generated files are written only when write is set.
func (r *runner) run(ctx context.Context, write bool) (*runResult, error) {
	entries, err := r.walker.Load(ctx, r.cfg.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("discover project files: %w", err)
	}

	in, proj := r.inputs(entries)
	if proj != nil {
		log.Debug().Str("project", proj.Path).Str("assembly", in.Options.AssemblyName).Bool("di", in.Options.UseDI).Msg("Using project file")
	}

	out, err := r.engine.Run(ctx, in)
	if err != nil {
		return nil, err
	}

	res := &runResult{output: out, failed: diag.HasErrors(out.Diagnostics)}
	r.reporter.Render(out.Diagnostics)

	if write {
		res.written, err = writeFiles(r.cfg.OutputPath(), out.Files)
		if err != nil {
			return nil, err
		}
		res.removed, err = removeStale(r.cfg.OutputPath(), out.Files)
		if err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("dictionaries", out.Stats.Dictionaries).
		Int("sources", out.Stats.Sources).
		Int("keys", out.Stats.Keys).
		Int("used", out.Stats.UsedKeys).
		Str("strategy", out.Stats.Strategy.String()).
		Int("written", len(res.written)).
		Int("removed", len(res.removed)).
		Bool("cached", out.Stats.MergeHit).
		Int64("cacheHits", r.engine.CacheStats().Hits).
		Msg("Localization pass complete")

	return res, nil
}

// inputs splits discovered files into pipeline inputs. The first project
// file in walk order supplies the build properties.
func (r *runner) inputs(entries []filewalker.FileEntry) (pipeline.Inputs, *project.Project) {
	var (
		in   pipeline.Inputs
		proj *project.Project
	)
	for _, e := range entries {
		f := pipeline.SourceFile{Path: e.Rel, Content: e.Content}
		switch e.Kind {
		case filewalker.KindDictionary:
			in.Dictionaries = append(in.Dictionaries, f)
		case filewalker.KindSource:
			in.Sources = append(in.Sources, f)
		case filewalker.KindProject:
			if proj != nil {
				continue
			}
			p, err := project.Parse(e.Rel, e.Content)
			if err != nil {
				log.Warn().Err(err).Str("file", e.Rel).Msg("Cannot read project file, ignoring")
				continue
			}
			proj = p
		}
	}

	assembly, useDI := r.cfg.Resolve(proj)
	in.Options = pipeline.Options{
		AssemblyName:      assembly,
		CoreAssemblies:    r.cfg.CoreAssemblies,
		Optimize:          r.cfg.Optimize(),
		UseDI:             useDI,
		ExcludeUnused:     r.cfg.ExcludeUnusedOnOptimize,
		CanonicalLanguage: locale.Parse(r.cfg.CanonicalLanguage),
		Version:           Version,
	}
	return in, proj
}

// writeFiles writes files into dir, skipping those whose content is already
// up to date. It returns the paths it wrote.
func writeFiles(dir string, files []codegen.GeneratedFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, []byte(f.Content)) {
			log.Debug().Str("file", path).Msg("Generated file unchanged")
			continue
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// removeStale deletes generated files in dir that the current run no
// longer produces, such as the PublicApi file after leaving DI mode. It
// returns the paths it removed.
func removeStale(dir string, files []codegen.GeneratedFile) ([]string, error) {
	keep := make(map[string]bool, len(files))
	for _, f := range files {
		keep[f.Name] = true
	}

	candidates, err := filepath.Glob(filepath.Join(dir, names.PublicAPIClassName+".*.g.cs"))
	if err != nil {
		return nil, fmt.Errorf("list generated files: %w", err)
	}
	candidates = append(candidates, filepath.Join(dir, names.ClassName+".g.cs"))

	var removed []string
	for _, path := range candidates {
		if keep[filepath.Base(path)] {
			continue
		}
		switch err := os.Remove(path); {
		case err == nil:
			log.Debug().Str("file", path).Msg("Removed stale generated file")
			removed = append(removed, path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return removed, nil
}
