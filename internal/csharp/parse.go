// Package csharp builds the small syntax model the generator needs from C#
// sources: class declarations with their base lists, properties and fields,
// and every invocation with its target chain. Parsing is done by the
// tree-sitter C# grammar; the model is purely syntactic.
package csharp

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	csharpLanguage  = tree_sitter.NewLanguage(tree_sitter_csharp.Language())
	invocationQuery = mustQuery(csharpLanguage, "(invocation_expression) @call")
)

// typeDeclarations can contain nested classes. Only class_declaration
// nodes are listed in File.Classes.
var typeDeclarations = map[string]bool{
	"class_declaration":         true,
	"struct_declaration":        true,
	"interface_declaration":     true,
	"record_declaration":        true,
	"record_struct_declaration": true,
}

func mustQuery(lang *tree_sitter.Language, source string) *tree_sitter.Query {
	q, err := tree_sitter.NewQuery(lang, source)
	if err != nil {
		panic(fmt.Sprintf("compile query %q: %v", source, err))
	}
	return q
}

// Parse builds the syntax model of one source file. Syntax errors are
// tolerated: declarations and calls outside the broken region are kept.
func Parse(path string, src []byte) *File {
	f := &File{Path: path}

	// The parser owns its buffer for the lifetime of the tree.
	buf := bytes.Clone(bytes.TrimPrefix(src, utf8BOM))
	if len(buf) == 0 {
		return f
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(csharpLanguage); err != nil {
		log.Error().Err(err).Str("file", path).Msg("Cannot load C# grammar")
		return f
	}

	tree := parser.Parse(buf, nil)
	if tree == nil {
		log.Warn().Str("file", path).Msg("C# parse returned no tree, skipping")
		return f
	}
	defer tree.Close()

	root := tree.RootNode()
	b := &builder{src: buf, file: f}
	b.declarations(root, "", nil)
	f.Calls = b.calls(root)
	return f
}

type builder struct {
	src  []byte
	file *File
}

func (b *builder) text(n *tree_sitter.Node) string {
	return string(b.src[n.StartByte():n.EndByte()])
}

// compact returns the node text with all whitespace removed, the form type
// and namespace names are compared in.
func (b *builder) compact(n *tree_sitter.Node) string {
	return strings.Join(strings.Fields(b.text(n)), "")
}

func pos(n *tree_sitter.Node) Pos {
	p := n.StartPosition()
	return Pos{Line: int(p.Row) + 1, Column: int(p.Column) + 1, Offset: int(n.StartByte())}
}

func joinNamespace(outer, name string) string {
	if outer == "" {
		return name
	}
	return outer + "." + name
}

// declarations walks the children of a compilation unit, namespace body or
// type body. A file-scoped namespace applies to the declarations after it,
// whether the grammar nests them or lists them as siblings.
func (b *builder) declarations(n *tree_sitter.Node, ns string, outer *Class) {
	scoped := ns
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c == nil {
			continue
		}
		kind := c.Kind()
		switch {
		case kind == "namespace_declaration":
			name := c.ChildByFieldName("name")
			body := c.ChildByFieldName("body")
			if name == nil || body == nil {
				continue
			}
			b.declarations(body, joinNamespace(scoped, b.compact(name)), nil)
		case kind == "file_scoped_namespace_declaration":
			if name := c.ChildByFieldName("name"); name != nil {
				scoped = joinNamespace(ns, b.compact(name))
			}
			b.declarations(c, scoped, nil)
		case typeDeclarations[kind]:
			b.typeDeclaration(c, scoped, outer)
		case kind == "property_declaration" && outer != nil:
			outer.Properties = append(outer.Properties, b.property(c))
		case kind == "field_declaration" && outer != nil:
			outer.Fields = append(outer.Fields, b.field(c))
		case kind == "declaration_list" || strings.HasPrefix(kind, "preproc_"):
			b.declarations(c, scoped, outer)
		}
	}
}

func (b *builder) typeDeclaration(n *tree_sitter.Node, ns string, outer *Class) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}

	cls := &Class{
		Name:      b.text(name),
		Namespace: ns,
		Outer:     outer,
		Modifiers: b.modifiers(n),
		Pos:       pos(n),
		NamePos:   pos(name),
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c != nil && c.Kind() == "base_list" {
			cls.Bases = b.bases(c)
		}
	}
	if n.Kind() == "class_declaration" {
		b.file.Classes = append(b.file.Classes, cls)
	}

	if body := n.ChildByFieldName("body"); body != nil {
		b.declarations(body, ns, cls)
	}
}

func (b *builder) modifiers(n *tree_sitter.Node) []string {
	var out []string
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c != nil && c.Kind() == "modifier" {
			out = append(out, strings.Fields(b.text(c))...)
		}
	}
	return out
}

// bases returns the base-list entries as written. Constructor arguments of
// a primary-constructor base are dropped.
func (b *builder) bases(n *tree_sitter.Node) []string {
	var out []string
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "comment", "argument_list":
		case "primary_constructor_base_type":
			t := c.ChildByFieldName("type")
			if t == nil {
				t = c.NamedChild(0)
			}
			if t != nil {
				out = append(out, b.compact(t))
			}
		default:
			out = append(out, b.compact(c))
		}
	}
	return out
}

func (b *builder) property(n *tree_sitter.Node) Property {
	p := Property{Modifiers: b.modifiers(n), Pos: pos(n)}
	if t := n.ChildByFieldName("type"); t != nil {
		p.Type = b.compact(t)
	}
	if name := n.ChildByFieldName("name"); name != nil {
		p.Name = b.text(name)
		p.NamePos = pos(name)
	}
	return p
}

func (b *builder) field(n *tree_sitter.Node) Field {
	f := Field{Modifiers: b.modifiers(n), Pos: pos(n)}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		decl := n.NamedChild(i)
		if decl == nil || decl.Kind() != "variable_declaration" {
			continue
		}
		if t := decl.ChildByFieldName("type"); t != nil {
			f.Type = b.compact(t)
		}
		for j := uint(0); j < decl.NamedChildCount(); j++ {
			v := decl.NamedChild(j)
			if v == nil || v.Kind() != "variable_declarator" {
				continue
			}
			name := v.ChildByFieldName("name")
			if name == nil {
				name = v.NamedChild(0)
			}
			if name != nil {
				f.Names = append(f.Names, b.text(name))
			}
		}
	}
	return f
}

// calls returns every invocation in the tree in document order, including
// those inside interpolation holes and lambda bodies.
func (b *builder) calls(root *tree_sitter.Node) []Invocation {
	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	var out []Invocation
	matches := qc.Matches(invocationQuery, root, b.src)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, c := range match.Captures {
			node := c.Node
			out = append(out, b.invocation(&node))
		}
	}
	return out
}

// invocation recovers the target chain of a call by descending through
// member accesses, qualified names and earlier invocations.
func (b *builder) invocation(n *tree_sitter.Node) Invocation {
	inv := Invocation{Pos: pos(n)}

	cur := n.ChildByFieldName("function")
	for cur != nil {
		switch cur.Kind() {
		case "identifier", "generic_name":
			inv.Chain = append(inv.Chain, b.simpleName(cur))
			inv.Rooted = true
			inv.Pos = pos(cur)
			return inv
		case "member_access_expression":
			if name := lastNamed(cur, "name"); name != nil {
				inv.Chain = append(inv.Chain, b.simpleName(name))
			}
			cur = firstNamed(cur, "expression")
		case "qualified_name":
			if name := lastNamed(cur, "name"); name != nil {
				inv.Chain = append(inv.Chain, b.simpleName(name))
			}
			cur = firstNamed(cur, "qualifier")
		case "invocation_expression":
			cur = cur.ChildByFieldName("function")
		default:
			return inv
		}
	}
	return inv
}

// simpleName strips the type arguments of a generic name.
func (b *builder) simpleName(n *tree_sitter.Node) string {
	if n.Kind() == "generic_name" {
		if id := firstNamed(n, "name"); id != nil {
			return b.text(id)
		}
	}
	return b.text(n)
}

func firstNamed(n *tree_sitter.Node, field string) *tree_sitter.Node {
	if c := n.ChildByFieldName(field); c != nil {
		return c
	}
	return n.NamedChild(0)
}

func lastNamed(n *tree_sitter.Node, field string) *tree_sitter.Node {
	if c := n.ChildByFieldName(field); c != nil {
		return c
	}
	if count := n.NamedChildCount(); count > 0 {
		return n.NamedChild(count - 1)
	}
	return nil
}
