// Package pipeline wires the generator stages into an incremental graph.
//
//	dictionary(file) ─┐
//	                  ├─> merge ─> generated files + diagnostics
//	source(file) ─────┘
//
// Per-file stages are pure and cached by a hash of their input; the merge
// stage is cached by the hashes of all upstream inputs and the options, so a
// run over unchanged inputs does no parsing or rendering.
package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"localize-gen/internal/cache"
	"localize-gen/internal/codegen"
	"localize-gen/internal/crossref"
	"localize-gen/internal/csharp"
	"localize-gen/internal/diag"
	"localize-gen/internal/parser"
	"localize-gen/internal/plugin"
	"localize-gen/internal/usage"
	"localize-gen/internal/worker"
)

// SourceFile is an input file with its content already read.
type SourceFile struct {
	Path    string
	Content []byte
}

// Options is the build metadata of one run.
type Options struct {
	AssemblyName   string
	CoreAssemblies []string
	// Optimize is set for Release builds.
	Optimize bool
	UseDI    bool
	// ExcludeUnused drops unused keys from Release output.
	ExcludeUnused     bool
	CanonicalLanguage language.Tag
	Version           string
}

func (o Options) fingerprint() string {
	return strings.Join([]string{
		o.AssemblyName,
		strings.Join(o.CoreAssemblies, ","),
		strconv.FormatBool(o.Optimize),
		strconv.FormatBool(o.UseDI),
		strconv.FormatBool(o.ExcludeUnused),
		o.CanonicalLanguage.String(),
		o.Version,
	}, "\x00")
}

// Inputs are everything a run depends on.
type Inputs struct {
	Dictionaries []SourceFile
	Sources      []SourceFile
	Options      Options
}

// Stats describes how much work a run did.
type Stats struct {
	Dictionaries   int
	Sources        int
	Keys           int
	UsedKeys       int
	DictionaryHits int
	SourceHits     int
	MergeHit       bool
	Strategy       codegen.StrategyKind
}

// Output is the product of a run. It is shared with the merge cache and
// must not be modified.
type Output struct {
	Files       []codegen.GeneratedFile
	Diagnostics []diag.Diagnostic
	Stats       Stats
}

// sourceFacts is what the source stage extracts from one C# file.
type sourceFacts struct {
	file       *csharp.File
	keys       []string
	candidates []plugin.ClassInfo
}

// Engine runs the pipeline. An Engine is safe for concurrent use; runs
// share only the stage caches.
type Engine struct {
	parser  parser.Parser
	workers int

	dictionaries *cache.StageCache[*parser.ParseResult]
	sources      *cache.StageCache[*sourceFacts]
	merges       *cache.StageCache[*Output]
}

// NewEngine creates an engine whose caches hold cacheSize entries per
// stage and whose per-file stages use up to workers goroutines.
func NewEngine(workers, cacheSize int) *Engine {
	return &Engine{
		parser:       parser.NewXAMLParser(),
		workers:      workers,
		dictionaries: cache.New[*parser.ParseResult]("dictionary", cacheSize),
		sources:      cache.New[*sourceFacts]("source", cacheSize),
		merges:       cache.New[*Output]("merge", max(cacheSize/16, 8)),
	}
}

// CacheStats are the hit and miss counts of the stage caches since the
// engine was created.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// CacheStats sums the counters of every stage cache.
func (e *Engine) CacheStats() CacheStats {
	var s CacheStats
	for _, stats := range []func() (int64, int64){e.dictionaries.Stats, e.sources.Stats, e.merges.Stats} {
		h, m := stats()
		s.Hits += h
		s.Misses += m
	}
	return s
}

type stageResult[V any] struct {
	hash  string
	value V
	hit   bool
}

// Run executes one generation pass. It fails only when ctx is done.
func (e *Engine) Run(ctx context.Context, in Inputs) (*Output, error) {
	dictFiles := sortedByPath(in.Dictionaries)
	srcFiles := sortedByPath(in.Sources)

	var (
		dicts []stageResult[*parser.ParseResult]
		srcs  []stageResult[*sourceFacts]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dicts, err = runStage(gctx, e.workers, "dictionary", e.dictionaries, dictFiles, e.parseDictionary)
		return err
	})
	g.Go(func() error {
		var err error
		srcs, err = runStage(gctx, e.workers, "source", e.sources, srcFiles, e.parseSource)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hashes := make([]string, 0, len(dicts)+len(srcs)+2)
	hashes = append(hashes, "dictionaries")
	for _, d := range dicts {
		hashes = append(hashes, d.hash)
	}
	hashes = append(hashes, "sources")
	for _, s := range srcs {
		hashes = append(hashes, s.hash)
	}
	hashes = append(hashes, in.Options.fingerprint())
	key := e.merges.Key(hashes...)

	if out, ok := e.merges.Get(key); ok {
		cached := *out
		cached.Stats.MergeHit = true
		cached.Stats.DictionaryHits = countHits(dicts)
		cached.Stats.SourceHits = countHits(srcs)
		return &cached, nil
	}

	out := merge(values(dicts), values(srcs), in.Options)
	out.Stats.DictionaryHits = countHits(dicts)
	out.Stats.SourceHits = countHits(srcs)
	e.merges.Set(key, out)

	log.Debug().
		Int("dictionaries", out.Stats.Dictionaries).
		Int("sources", out.Stats.Sources).
		Int("keys", out.Stats.Keys).
		Str("strategy", out.Stats.Strategy.String()).
		Msg("Merged pipeline inputs")

	result := *out
	return &result, nil
}

func (e *Engine) parseDictionary(ctx context.Context, f SourceFile) (*parser.ParseResult, error) {
	return e.parser.Parse(ctx, f.Path, f.Content)
}

func (e *Engine) parseSource(ctx context.Context, f SourceFile) (*sourceFacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file := csharp.Parse(f.Path, f.Content)
	return &sourceFacts{
		file:       file,
		keys:       usage.KeysFromFile(file),
		candidates: plugin.Resolve(file),
	}, nil
}

// runStage applies fn to every file through the stage cache.
func runStage[V any](
	ctx context.Context,
	workers int,
	name string,
	c *cache.StageCache[V],
	files []SourceFile,
	fn func(context.Context, SourceFile) (V, error),
) ([]stageResult[V], error) {
	var hits atomic.Int64
	pool := worker.NewPool(name, workers, func(ctx context.Context, f SourceFile) (stageResult[V], error) {
		if err := ctx.Err(); err != nil {
			return stageResult[V]{}, err
		}
		key := c.Key(f.Path, string(f.Content))
		v, hit, err := c.GetOrCompute(key, func() (V, error) { return fn(ctx, f) })
		if err != nil {
			return stageResult[V]{}, fmt.Errorf("%s stage %s: %w", name, f.Path, err)
		}
		if hit {
			hits.Add(1)
		}
		return stageResult[V]{hash: key, value: v, hit: hit}, nil
	})

	tasks := pool.Execute(ctx, files)
	out := make([]stageResult[V], 0, len(tasks))
	for _, t := range tasks {
		if t.Err != nil {
			return nil, t.Err
		}
		out = append(out, t.Result)
	}
	log.Debug().Str("stage", name).Int("files", len(files)).Int64("hits", hits.Load()).Msg("Stage complete")
	return out, nil
}

func merge(dicts []*parser.ParseResult, srcs []*sourceFacts, opts Options) *Output {
	var bag diag.Bag
	out := &Output{Stats: Stats{Dictionaries: len(dicts), Sources: len(srcs)}}

	files := make([]*csharp.File, 0, len(srcs))
	for _, s := range srcs {
		files = append(files, s.file)
	}
	if !opts.UseDI {
		checker := plugin.NewChecker(files)
		for _, d := range checker.Check(files) {
			bag.Report(d)
		}
	}

	if len(dicts) == 0 {
		bag.Report(diag.New(diag.CouldNotFindResourceDictionaries, diag.Location{}))
		out.Diagnostics = sorted(bag.Items())
		return out
	}

	var used []string
	var candidates []plugin.ClassInfo
	for _, s := range srcs {
		used = append(used, s.keys...)
		candidates = append(candidates, s.candidates...)
	}
	used = slices.Compact(slices.Sorted(slices.Values(used)))
	out.Stats.UsedKeys = len(used)

	res := crossref.Analyze(dicts, used, crossref.Options{
		Optimize:      opts.Optimize,
		ExcludeUnused: opts.ExcludeUnused,
		Canonical:     opts.CanonicalLanguage,
	}, &bag)
	out.Stats.Keys = len(res.Strings)

	gen := codegen.Context{
		AssemblyName:   opts.AssemblyName,
		CoreAssemblies: opts.CoreAssemblies,
		UseDI:          opts.UseDI,
		Version:        opts.Version,
	}
	// Core assemblies still need an entry class; the strategy ignores it.
	if !opts.UseDI {
		if selected, ok := plugin.Select(candidates, &bag); ok {
			gen.Plugin = &selected
		}
	}
	out.Stats.Strategy = codegen.SelectStrategy(gen).Kind

	out.Files = append(out.Files, codegen.Generate(res.Strings, gen))
	if opts.UseDI {
		out.Files = append(out.Files, codegen.GeneratePublicAPI(gen))
	}
	out.Diagnostics = sorted(bag.Items())
	return out
}

func sorted(ds []diag.Diagnostic) []diag.Diagnostic {
	out := slices.Clone(ds)
	diag.Sort(out)
	return out
}

func sortedByPath(files []SourceFile) []SourceFile {
	out := slices.Clone(files)
	slices.SortStableFunc(out, func(a, b SourceFile) int { return strings.Compare(a.Path, b.Path) })
	return out
}

func values[V any](rs []stageResult[V]) []V {
	out := make([]V, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.value)
	}
	return out
}

func countHits[V any](rs []stageResult[V]) int {
	n := 0
	for _, r := range rs {
		if r.hit {
			n++
		}
	}
	return n
}
