package plugin

import "localize-gen/internal/diag"

// Select picks the first valid candidate in declaration order. When there
// are no candidates at all it reports that the entry class is missing; when
// none is valid it reports every violated rule of every candidate that
// declares a context property. Candidates without one are skipped silently.
func Select(candidates []ClassInfo, bag *diag.Bag) (ClassInfo, bool) {
	if len(candidates) == 0 {
		bag.Report(diag.New(diag.CouldNotFindPluginEntryClass, diag.Location{}))
		return ClassInfo{}, false
	}

	for _, c := range candidates {
		if c.IsValid() {
			return c, true
		}
	}

	for _, c := range candidates {
		if !c.HasProperty() {
			continue
		}
		if !c.IsStatic {
			bag.Report(diag.New(diag.ContextPropertyNotStatic, c.Location, c.PropertyName))
		}
		if c.IsPrivate {
			bag.Report(diag.New(diag.ContextPropertyIsPrivate, c.Location, c.PropertyName))
		}
		if c.IsProtected {
			bag.Report(diag.New(diag.ContextPropertyIsProtected, c.Location, c.PropertyName))
		}
	}
	return ClassInfo{}, false
}
