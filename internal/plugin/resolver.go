// Package plugin locates the plugin entry class and classifies the static
// context property the generated accessors call through.
package plugin

import (
	"slices"

	"localize-gen/internal/csharp"
	"localize-gen/internal/diag"
	"localize-gen/internal/names"
)

// ClassInfo describes one class that implements the plugin interface.
type ClassInfo struct {
	Location  diag.Location
	ClassName string
	// PropertyName is empty when the class declares no context property.
	PropertyName string
	IsStatic     bool
	IsPrivate    bool
	IsProtected  bool
}

// HasProperty reports whether a context property was found.
func (c ClassInfo) HasProperty() bool {
	return c.PropertyName != ""
}

// IsValid reports whether generated code can reach the context through c.
func (c ClassInfo) IsValid() bool {
	return c.HasProperty() && c.IsStatic && !c.IsPrivate && !c.IsProtected
}

// ContextAccessor is the expression naming the context property.
func (c ClassInfo) ContextAccessor() string {
	return c.ClassName + "." + c.PropertyName
}

// Resolve returns a ClassInfo for every class in f whose base list names the
// plugin interface as written, in source order. Matching is textual: a
// qualified or aliased spelling of the interface is not recognized.
func Resolve(f *csharp.File) []ClassInfo {
	var out []ClassInfo
	for _, cls := range f.Classes {
		if !slices.Contains(cls.Bases, names.PluginInterfaceName) {
			continue
		}

		info := ClassInfo{
			Location:  location(f.Path, cls.Pos),
			ClassName: cls.Name,
		}
		for _, p := range cls.Properties {
			if p.Type != names.PluginContextTypeName {
				continue
			}
			info.PropertyName = p.Name
			info.IsStatic = p.HasModifier("static")
			info.IsPrivate = p.HasModifier("private")
			info.IsProtected = p.HasModifier("protected")
			break
		}
		out = append(out, info)
	}
	return out
}

func location(file string, p csharp.Pos) diag.Location {
	return diag.Location{File: file, Line: p.Line, Column: p.Column}
}
