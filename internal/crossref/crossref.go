// Package crossref joins parsed dictionaries with the keys used in source
// and decides which entries are generated.
package crossref

import (
	"github.com/samber/lo"
	"golang.org/x/text/language"

	"localize-gen/internal/diag"
	"localize-gen/internal/locale"
	"localize-gen/internal/parser"
	"localize-gen/internal/textutil"
)

// Options control the merge.
type Options struct {
	// Optimize is set for Release builds; unused keys are only reported then.
	Optimize bool
	// ExcludeUnused drops unused keys from generation in Release builds.
	ExcludeUnused bool
	// Canonical is the language whose dictionaries define the key set.
	Canonical language.Tag
}

// Result is the outcome of a merge.
type Result struct {
	// Strings are the entries to generate, in document order.
	Strings []parser.LocalizableString
	// Unused are the parsed keys no call site references, in document order.
	Unused []string
}

// Merge flattens dicts into one entry list. When dictionaries for the
// canonical language exist only they contribute entries, and keys found
// solely in other languages are reported. Otherwise every dictionary
// contributes in the given order. A repeated key keeps its first entry.
func Merge(dicts []*parser.ParseResult, canonical language.Tag, bag *diag.Bag) []parser.LocalizableString {
	primary, others := lo.FilterReject(dicts, func(d *parser.ParseResult, _ int) bool {
		return locale.Same(d.Language, canonical)
	})
	if len(primary) == 0 {
		return flatten(dicts)
	}

	strs := flatten(primary)
	known := lo.Associate(strs, func(s parser.LocalizableString) (string, struct{}) {
		return s.Key, struct{}{}
	})
	for _, d := range others {
		for _, key := range lo.Uniq(d.Keys()) {
			if _, ok := known[key]; !ok {
				bag.Report(diag.New(diag.KeyNotInCanonicalDictionary, diag.Location{File: d.FilePath}, key, canonical.String()))
			}
		}
	}
	return strs
}

func flatten(dicts []*parser.ParseResult) []parser.LocalizableString {
	all := lo.FlatMap(dicts, func(d *parser.ParseResult, _ int) []parser.LocalizableString {
		return d.Strings
	})
	return lo.UniqBy(all, func(s parser.LocalizableString) string { return s.Key })
}

// Unused returns the keys of strs that are not in used, in document order.
func Unused(strs []parser.LocalizableString, used []string) []string {
	keys := lo.Map(strs, func(s parser.LocalizableString, _ int) string { return s.Key })
	return lo.Without(keys, used...)
}

// Analyze merges dicts, reports unused keys for Release builds and filters
// entries that cannot become accessors.
func Analyze(dicts []*parser.ParseResult, used []string, opts Options, bag *diag.Bag) Result {
	strs := Merge(dicts, opts.Canonical, bag)
	unused := Unused(strs, used)

	if opts.Optimize {
		for _, key := range unused {
			bag.Report(diag.New(diag.LocalizationKeyUnused, diag.Location{}, key))
		}
	}

	exclude := map[string]bool{}
	if opts.Optimize && opts.ExcludeUnused {
		for _, key := range unused {
			exclude[key] = true
		}
	}

	out := make([]parser.LocalizableString, 0, len(strs))
	for _, s := range strs {
		if !textutil.IsIdentifier(s.Key) {
			bag.Report(diag.New(diag.InvalidKeyIdentifier, diag.Location{}, s.Key))
			continue
		}
		if exclude[s.Key] {
			continue
		}
		out = append(out, s)
	}
	return Result{Strings: out, Unused: unused}
}
