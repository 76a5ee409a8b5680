// Package usage finds the localization keys referenced by source code.
package usage

import (
	"github.com/samber/lo"

	"localize-gen/internal/csharp"
	"localize-gen/internal/names"
)

// Key returns the key referenced by an invocation of the form
// Localize.Key(...), with any further member accesses or calls chained
// onto it. It reports false for every other call.
func Key(call csharp.Invocation) (string, bool) {
	if !call.Rooted || len(call.Chain) < 2 {
		return "", false
	}
	n := len(call.Chain)
	if call.Chain[n-1] != names.ClassName {
		return "", false
	}
	return call.Chain[n-2], true
}

// KeysFromFile returns the keys referenced in f in order of first use.
func KeysFromFile(f *csharp.File) []string {
	keys := lo.FilterMap(f.Calls, func(c csharp.Invocation, _ int) (string, bool) {
		return Key(c)
	})
	return lo.Uniq(keys)
}
