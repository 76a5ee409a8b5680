package codegen

import (
	"fmt"
	"strings"

	"localize-gen/internal/names"
)

const (
	publicAPIType = "Flow.Launcher.Plugin.IPublicAPI"
	serviceLookup = "CommunityToolkit.Mvvm.DependencyInjection.Ioc.Default.GetRequiredService"
)

// GeneratePublicAPI renders the internal PublicApi class that resolves the
// launcher API from the service container on first use.
func GeneratePublicAPI(c Context) GeneratedFile {
	ns := namespace(c)

	var b strings.Builder
	b.WriteString("// <auto-generated />\n")
	b.WriteString("#nullable enable\n\n")
	fmt.Fprintf(&b, "namespace %s;\n\n", ns)
	writeGeneratedCode(&b, c.Version)
	fmt.Fprintf(&b, "internal static class %s\n{\n", names.PublicAPIClassName)
	fmt.Fprintf(&b, "%sprivate static %s? %s = null;\n\n", indent, publicAPIType, names.PublicAPIPrivatePropertyName)
	fmt.Fprintf(&b, "%s/// <summary>\n", indent)
	fmt.Fprintf(&b, "%s/// Get <see cref=\"%s\"/> instance\n", indent, publicAPIType)
	fmt.Fprintf(&b, "%s/// </summary>\n", indent)
	fmt.Fprintf(&b, "%sinternal static %s %s => %s ??= %s<%s>();\n",
		indent, publicAPIType, names.PublicAPIInternalPropertyName,
		names.PublicAPIPrivatePropertyName, serviceLookup, publicAPIType)
	b.WriteString("}\n")

	return GeneratedFile{
		Name:    fmt.Sprintf("%s.%s.g.cs", names.PublicAPIClassName, ns),
		Content: b.String(),
	}
}
