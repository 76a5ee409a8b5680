package codegen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"localize-gen/internal/names"
	"localize-gen/internal/parser"
	"localize-gen/internal/plugin"
)

func TestBuildParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ls   parser.LocalizableString
		want []Parameter
	}{
		{
			name: "no placeholders",
			ls:   parser.LocalizableString{Value: "Plain"},
			want: []Parameter{},
		},
		{
			name: "documented and synthesized",
			ls: parser.LocalizableString{
				Value:  "{2} of {0}, again {0:N0}",
				Params: []parser.LocalizableStringParam{{Index: 2, Name: "total", Type: "int"}, {Index: 5, Name: "unused", Type: "string"}},
			},
			want: []Parameter{{Name: "arg0", Type: "object?"}, {Name: "total", Type: "int"}},
		},
		{
			name: "escaped braces are not placeholders",
			ls:   parser.LocalizableString{Value: "{{0}} and {1}"},
			want: []Parameter{{Name: "arg1", Type: "object?"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, BuildParameters(tt.ls))
		})
	}
}

func TestSelectStrategy(t *testing.T) {
	t.Parallel()

	valid := &plugin.ClassInfo{ClassName: "Main", PropertyName: "Context", IsStatic: true}
	invalid := &plugin.ClassInfo{ClassName: "Main", PropertyName: "Context"}

	tests := []struct {
		name string
		ctx  Context
		want Strategy
	}{
		{
			name: "core assembly wins over everything",
			ctx:  Context{AssemblyName: "Flow.Launcher.Core", CoreAssemblies: names.CoreAssemblies, UseDI: true, Plugin: valid},
			want: Strategy{Kind: StrategyCore},
		},
		{
			name: "dependency injection",
			ctx:  Context{AssemblyName: "Demo", CoreAssemblies: names.CoreAssemblies, UseDI: true, Plugin: valid},
			want: Strategy{Kind: StrategyDependencyInjection},
		},
		{
			name: "plugin context",
			ctx:  Context{AssemblyName: "Demo", Plugin: valid},
			want: Strategy{Kind: StrategyPluginContext, Accessor: "Main.Context"},
		},
		{
			name: "invalid plugin context degrades",
			ctx:  Context{AssemblyName: "Demo", Plugin: invalid},
			want: Strategy{Kind: StrategySentinel},
		},
		{
			name: "no plugin context degrades",
			ctx:  Context{AssemblyName: "Demo"},
			want: Strategy{Kind: StrategySentinel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SelectStrategy(tt.ctx))
		})
	}
}

func TestStrategyBody(t *testing.T) {
	t.Parallel()

	params := []Parameter{{Name: "who", Type: "string"}, {Name: "arg1", Type: "object?"}}

	assert.Equal(t,
		`InternationalizationManager.Instance.GetTranslation("Title")`,
		Strategy{Kind: StrategyCore}.Body("Title", nil))
	assert.Equal(t,
		`string.Format(PublicApi.Instance.GetTranslation("Greeting"), who, arg1)`,
		Strategy{Kind: StrategyDependencyInjection}.Body("Greeting", params))
	assert.Equal(t,
		`string.Format(Main.Context.API.GetTranslation("Greeting"), who, arg1)`,
		Strategy{Kind: StrategyPluginContext, Accessor: "Main.Context"}.Body("Greeting", params))
	assert.Equal(t, `"LOCALIZATION_ERROR"`, Strategy{Kind: StrategySentinel}.Body("Greeting", params))
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	strs := []parser.LocalizableString{
		{
			Key:     "Greeting",
			Value:   "Hello {0}!",
			Summary: "Greets",
			Params:  []parser.LocalizableStringParam{{Index: 0, Name: "who", Type: "string"}},
		},
		{
			Key:   "Title",
			Value: "First line\n    Second <b>&</b>",
		},
	}
	ctx := Context{
		AssemblyName: "Demo.Plugin",
		Plugin:       &plugin.ClassInfo{ClassName: "Main", PropertyName: "Context", IsStatic: true},
		Version:      "2.1.0",
	}

	want := `// <auto-generated />
#nullable enable

namespace Demo.Plugin;

[System.CodeDom.Compiler.GeneratedCode("localize-gen", "2.1.0")]
public static class Localize
{
    /// <summary>
    /// Greets
    /// </summary>
    /// <code>
    /// Hello {0}!
    /// </code>
    public static string Greeting(string who) => string.Format(Main.Context.API.GetTranslation("Greeting"), who);

    /// <code>
    /// First line
    /// Second &lt;b&gt;&amp;&lt;/b&gt;
    /// </code>
    public static string Title() => Main.Context.API.GetTranslation("Title");
}
`
	got := Generate(strs, ctx)
	assert.Equal(t, "Localize.g.cs", got.Name)
	if diff := cmp.Diff(want, got.Content); diff != "" {
		t.Errorf("generated source mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateCoreAssembly(t *testing.T) {
	t.Parallel()

	got := Generate([]parser.LocalizableString{{Key: "Ok", Value: "OK"}}, Context{
		AssemblyName:   "Flow.Launcher",
		CoreAssemblies: names.CoreAssemblies,
	})
	assert.Contains(t, got.Content, "#nullable enable\nusing Flow.Launcher.Core.Resource;\n\nnamespace Flow.Launcher;\n")
	assert.Contains(t, got.Content, `public static string Ok() => InternationalizationManager.Instance.GetTranslation("Ok");`)
	assert.Contains(t, got.Content, `GeneratedCode("localize-gen", "1.0.0")`)
}

func TestGeneratePublicAPI(t *testing.T) {
	t.Parallel()

	got := GeneratePublicAPI(Context{AssemblyName: "Demo.Plugin", Version: "2.1.0"})
	assert.Equal(t, "PublicApi.Demo.Plugin.g.cs", got.Name)

	want := `// <auto-generated />
#nullable enable

namespace Demo.Plugin;

[System.CodeDom.Compiler.GeneratedCode("localize-gen", "2.1.0")]
internal static class PublicApi
{
    private static Flow.Launcher.Plugin.IPublicAPI? instance = null;

    /// <summary>
    /// Get <see cref="Flow.Launcher.Plugin.IPublicAPI"/> instance
    /// </summary>
    internal static Flow.Launcher.Plugin.IPublicAPI Instance => instance ??= CommunityToolkit.Mvvm.DependencyInjection.Ioc.Default.GetRequiredService<Flow.Launcher.Plugin.IPublicAPI>();
}
`
	if diff := cmp.Diff(want, got.Content); diff != "" {
		t.Errorf("generated source mismatch (-want +got):\n%s", diff)
	}
}
