package csharp

import (
	"fmt"
	"slices"
	"strings"
)

// Pos is a 1-based line and column plus a 0-based byte offset.
type Pos struct {
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// File is the syntax model of one C# source file.
type File struct {
	Path    string
	Classes []*Class
	Calls   []Invocation
}

// Class is a class declaration. Nested classes are separate entries with
// Outer set; a file lists outer classes before the classes they contain.
type Class struct {
	Name      string
	Namespace string
	Outer     *Class
	Modifiers []string
	// Bases holds the base-list entries as written, whitespace removed.
	Bases      []string
	Pos        Pos // start of the declaration, attributes included
	NamePos    Pos
	Properties []Property
	Fields     []Field
}

// QualifiedName joins the namespace, the enclosing classes and the name.
func (c *Class) QualifiedName() string {
	parts := []string{c.Name}
	for o := c.Outer; o != nil; o = o.Outer {
		parts = append(parts, o.Name)
	}
	if c.Namespace != "" {
		parts = append(parts, c.Namespace)
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

// HasModifier reports whether the class declaration carries m.
func (c *Class) HasModifier(m string) bool {
	return slices.Contains(c.Modifiers, m)
}

// Property is a property declaration.
type Property struct {
	Name      string
	Type      string
	Modifiers []string
	Pos       Pos
	NamePos   Pos
}

// HasModifier reports whether the property carries m.
func (p Property) HasModifier(m string) bool {
	return slices.Contains(p.Modifiers, m)
}

// Field is a field declaration with one or more declarators.
type Field struct {
	Names     []string
	Type      string
	Modifiers []string
	Pos       Pos
}

// HasModifier reports whether the field carries m.
func (f Field) HasModifier(m string) bool {
	return slices.Contains(f.Modifiers, m)
}

// Invocation is a call site. Chain lists the names of the invoked target
// from the call outward: for A.B.C() it is [C B A]. Rooted is false when the
// chain does not end at a plain name (x?.F(), a::B.F(), this.F(),
// new T().F(), (e).F(), a[0].F(), "s".F()).
type Invocation struct {
	Chain  []string
	Rooted bool
	Pos    Pos
}

// SimpleTypeName strips nullability, qualification and generic arguments
// from a written type: "global::Foo.Bar<T>?" becomes "Bar".
func SimpleTypeName(text string) string {
	s := strings.TrimSuffix(strings.TrimSpace(text), "?")
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "::"); i >= 0 {
		s = s[i+2:]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimPrefix(s, "@")
}
