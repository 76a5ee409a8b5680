package plugin

import (
	"localize-gen/internal/csharp"
	"localize-gen/internal/diag"
	"localize-gen/internal/names"
)

// accessibility is the declared accessibility of a class member.
type accessibility int

const (
	accessPrivate accessibility = iota
	accessProtected
	accessInternal
	accessProtectedInternal
	accessPrivateProtected
	accessPublic
)

// memberAccessibility derives accessibility from modifiers. Class members
// without an access modifier are private.
func memberAccessibility(has func(string) bool) accessibility {
	switch {
	case has("public"):
		return accessPublic
	case has("private") && has("protected"):
		return accessPrivateProtected
	case has("protected") && has("internal"):
		return accessProtectedInternal
	case has("private"):
		return accessPrivate
	case has("protected"):
		return accessProtected
	case has("internal"):
		return accessInternal
	default:
		return accessPrivate
	}
}

// Checker validates the context member of every plugin entry class without
// choosing between classes. Interfaces are merged across the partial
// declarations of a class, but members are checked per declaration.
type Checker struct {
	interfaces map[string][]string
}

// NewChecker indexes the base lists of all class declarations in files.
func NewChecker(files []*csharp.File) *Checker {
	c := &Checker{interfaces: make(map[string][]string)}
	for _, f := range files {
		for _, cls := range f.Classes {
			qn := cls.QualifiedName()
			c.interfaces[qn] = append(c.interfaces[qn], cls.Bases...)
		}
	}
	return c
}

// IsPluginEntry reports whether any declaration of cls lists a type whose
// simple name is the plugin interface.
func (c *Checker) IsPluginEntry(cls *csharp.Class) bool {
	for _, b := range c.interfaces[cls.QualifiedName()] {
		if csharp.SimpleTypeName(b) == names.PluginInterfaceName {
			return true
		}
	}
	return false
}

// Check reports at most one diagnostic per plugin entry class declaration:
// a property of the context type is checked first, then a field of that
// type, and finally the missing declaration.
func (c *Checker) Check(files []*csharp.File) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, f := range files {
		for _, cls := range f.Classes {
			if !c.IsPluginEntry(cls) {
				continue
			}
			if d, ok := checkClass(f.Path, cls); ok {
				out = append(out, d)
			}
		}
	}
	return out
}

func checkClass(path string, cls *csharp.Class) (diag.Diagnostic, bool) {
	for _, p := range cls.Properties {
		if csharp.SimpleTypeName(p.Type) != names.PluginContextTypeName {
			continue
		}
		if !p.HasModifier("static") {
			return diag.New(diag.ContextIsNotStatic, location(path, p.Pos)), true
		}
		switch memberAccessibility(p.HasModifier) {
		case accessPrivate, accessProtected:
			return diag.New(diag.ContextAccessIsTooRestrictive, location(path, p.Pos)), true
		}
		return diag.Diagnostic{}, false
	}

	for _, fld := range cls.Fields {
		if csharp.SimpleTypeName(fld.Type) == names.PluginContextTypeName {
			return diag.New(diag.ContextIsAField, location(path, fld.Pos)), true
		}
	}

	return diag.New(diag.ContextIsNotDeclared, location(path, cls.NamePos)), true
}
