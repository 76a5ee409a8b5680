// Package codegen renders the C# sources for the Localize accessor class
// and the dependency-injection PublicApi helper.
package codegen

import (
	"fmt"
	"strings"

	"localize-gen/internal/names"
	"localize-gen/internal/parser"
	"localize-gen/internal/textutil"
)

// GeneratorName is written into the GeneratedCode attribute.
const GeneratorName = "localize-gen"

const indent = "    "

// GeneratedFile is one rendered compilation unit.
type GeneratedFile struct {
	Name    string
	Content string
}

var docEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Generate renders the Localize class with one accessor per entry, in
// order.
func Generate(strs []parser.LocalizableString, c Context) GeneratedFile {
	strategy := SelectStrategy(c)

	var b strings.Builder
	b.WriteString("// <auto-generated />\n")
	b.WriteString("#nullable enable\n")
	for _, u := range strategy.Usings() {
		fmt.Fprintf(&b, "using %s;\n", u)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "namespace %s;\n\n", namespace(c))
	writeGeneratedCode(&b, c.Version)
	fmt.Fprintf(&b, "public static class %s\n{\n", names.ClassName)

	for i, ls := range strs {
		if i > 0 {
			b.WriteString("\n")
		}
		writeDocs(&b, ls)
		writeMethod(&b, ls, strategy)
	}

	b.WriteString("}\n")
	return GeneratedFile{Name: names.ClassName + ".g.cs", Content: b.String()}
}

func namespace(c Context) string {
	if c.AssemblyName == "" {
		return names.DefaultNamespace
	}
	return c.AssemblyName
}

func writeGeneratedCode(b *strings.Builder, version string) {
	if version == "" {
		version = "1.0.0"
	}
	fmt.Fprintf(b, "[System.CodeDom.Compiler.GeneratedCode(%s, %s)]\n", quote(GeneratorName), quote(version))
}

func writeDocs(b *strings.Builder, ls parser.LocalizableString) {
	if ls.Summary != "" {
		b.WriteString(indent + "/// <summary>\n")
		writeDocLines(b, ls.Summary)
		b.WriteString(indent + "/// </summary>\n")
	}
	b.WriteString(indent + "/// <code>\n")
	writeDocLines(b, ls.Value)
	b.WriteString(indent + "/// </code>\n")
}

func writeDocLines(b *strings.Builder, text string) {
	for _, line := range textutil.Lines(text) {
		if line == "" {
			b.WriteString(indent + "///\n")
			continue
		}
		fmt.Fprintf(b, "%s/// %s\n", indent, docEscaper.Replace(line))
	}
}

func writeMethod(b *strings.Builder, ls parser.LocalizableString, s Strategy) {
	params := BuildParameters(ls)
	decl := make([]string, 0, len(params))
	for _, p := range params {
		decl = append(decl, p.Type+" "+p.Name)
	}
	fmt.Fprintf(b, "%spublic static string %s(%s) => %s;\n",
		indent, ls.Key, strings.Join(decl, ", "), s.Body(ls.Key, params))
}
