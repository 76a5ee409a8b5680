package codegen

import (
	"fmt"
	"slices"
	"strings"

	"localize-gen/internal/names"
	"localize-gen/internal/plugin"
)

// StrategyKind enumerates how a generated accessor reaches the translator.
type StrategyKind int

const (
	// StrategySentinel returns a fixed error string.
	StrategySentinel StrategyKind = iota
	// StrategyCore calls the launcher's translation manager singleton.
	StrategyCore
	// StrategyDependencyInjection goes through the generated PublicApi class.
	StrategyDependencyInjection
	// StrategyPluginContext goes through the plugin's static context property.
	StrategyPluginContext
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyCore:
		return "core"
	case StrategyDependencyInjection:
		return "dependency-injection"
	case StrategyPluginContext:
		return "plugin-context"
	default:
		return "sentinel"
	}
}

// Context is the per-run generation metadata.
type Context struct {
	AssemblyName string
	// CoreAssemblies name the assemblies that own the translation manager.
	CoreAssemblies []string
	UseDI          bool
	// Plugin is the selected plugin entry class, nil when none is valid.
	Plugin *plugin.ClassInfo
	// Version is written into the GeneratedCode attribute.
	Version string
}

// IsCore reports whether the target assembly is a core assembly.
func (c Context) IsCore() bool {
	return slices.Contains(c.CoreAssemblies, c.AssemblyName)
}

// Strategy is the accessor body form chosen for a generation run.
type Strategy struct {
	Kind StrategyKind
	// Accessor is the Class.Property expression for StrategyPluginContext.
	Accessor string
}

// SelectStrategy picks the first applicable strategy: core assembly,
// dependency injection, a valid plugin context, and finally the sentinel.
func SelectStrategy(c Context) Strategy {
	switch {
	case c.IsCore():
		return Strategy{Kind: StrategyCore}
	case c.UseDI:
		return Strategy{Kind: StrategyDependencyInjection}
	case c.Plugin != nil && c.Plugin.IsValid():
		return Strategy{Kind: StrategyPluginContext, Accessor: c.Plugin.ContextAccessor()}
	default:
		return Strategy{Kind: StrategySentinel}
	}
}

// Usings lists the using directives the strategy needs.
func (s Strategy) Usings() []string {
	if s.Kind == StrategyCore {
		return []string{"Flow.Launcher.Core.Resource"}
	}
	return nil
}

func (s Strategy) lookup(key string) string {
	lit := quote(key)
	switch s.Kind {
	case StrategyCore:
		return fmt.Sprintf("InternationalizationManager.Instance.GetTranslation(%s)", lit)
	case StrategyDependencyInjection:
		return fmt.Sprintf("%s.%s.GetTranslation(%s)", names.PublicAPIClassName, names.PublicAPIInternalPropertyName, lit)
	case StrategyPluginContext:
		return fmt.Sprintf("%s.API.GetTranslation(%s)", s.Accessor, lit)
	}
	return ""
}

// Body returns the expression an accessor for key evaluates to.
func (s Strategy) Body(key string, params []Parameter) string {
	if s.Kind == StrategySentinel {
		return quote(names.ErrorSentinel)
	}
	lookup := s.lookup(key)
	if len(params) == 0 {
		return lookup
	}
	args := make([]string, 0, len(params))
	for _, p := range params {
		args = append(args, p.Name)
	}
	return fmt.Sprintf("string.Format(%s, %s)", lookup, strings.Join(args, ", "))
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}
