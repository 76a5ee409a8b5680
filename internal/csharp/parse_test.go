package csharp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pluginSource = `using System;
using Flow.Launcher.Plugin;

namespace Demo.Plugin;

[Attr]
public partial class Main : IPlugin, IPluginI18n
{
    internal static PluginInitContext Context { get; private set; } = null!;
    private static readonly string a = "x", b;
    public string Name => Localize.PluginTitle();

    public Main() { }

    public void Init(PluginInitContext context)
    {
        Context = context;
        var s = $"{Localize.Greeting(context.CurrentPluginMetadata.Name)}";
    }

    private class Inner : Base<int>, global::Foo.IBar
    {
        public PluginInitContext Ctx;
    }
}
`

func TestParseClasses(t *testing.T) {
	t.Parallel()

	f := Parse("Main.cs", []byte(pluginSource))
	require.Len(t, f.Classes, 2)

	main := f.Classes[0]
	assert.Equal(t, "Main", main.Name)
	assert.Equal(t, "Demo.Plugin", main.Namespace)
	assert.Equal(t, "Demo.Plugin.Main", main.QualifiedName())
	assert.Equal(t, []string{"public", "partial"}, main.Modifiers)
	assert.Equal(t, []string{"IPlugin", "IPluginI18n"}, main.Bases)
	assert.Equal(t, 6, main.Pos.Line)
	assert.Equal(t, 7, main.NamePos.Line)
	assert.Equal(t, 22, main.NamePos.Column)

	require.Len(t, main.Properties, 2)
	ctx := main.Properties[0]
	assert.Equal(t, "Context", ctx.Name)
	assert.Equal(t, "PluginInitContext", ctx.Type)
	assert.True(t, ctx.HasModifier("static"))
	assert.True(t, ctx.HasModifier("internal"))
	assert.Equal(t, 9, ctx.Pos.Line)
	assert.Equal(t, "Name", main.Properties[1].Name)
	assert.Equal(t, "string", main.Properties[1].Type)

	require.Len(t, main.Fields, 1)
	assert.Equal(t, []string{"a", "b"}, main.Fields[0].Names)
	assert.Equal(t, "string", main.Fields[0].Type)
	assert.True(t, main.Fields[0].HasModifier("readonly"))

	inner := f.Classes[1]
	assert.Same(t, main, inner.Outer)
	assert.Equal(t, "Demo.Plugin.Main.Inner", inner.QualifiedName())
	assert.Equal(t, []string{"Base<int>", "global::Foo.IBar"}, inner.Bases)
	require.Len(t, inner.Fields, 1)
	assert.Equal(t, []string{"Ctx"}, inner.Fields[0].Names)
	assert.Equal(t, "PluginInitContext", inner.Fields[0].Type)
}

func TestParseBlockNamespaces(t *testing.T) {
	t.Parallel()

	src := `namespace A {
    namespace B.C {
        class X<T> where T : class { int[] Values { get; } }
        struct S { public class Y { } }
        enum E { One, Two }
    }
    sealed class Z : Q { }
}`
	f := Parse("x.cs", []byte(src))
	require.Len(t, f.Classes, 3)
	assert.Equal(t, "A.B.C.X", f.Classes[0].QualifiedName())
	assert.Equal(t, "int[]", f.Classes[0].Properties[0].Type)
	assert.Equal(t, "A.B.C.S.Y", f.Classes[1].QualifiedName())
	assert.Equal(t, "A.Z", f.Classes[2].QualifiedName())
	assert.Equal(t, []string{"Q"}, f.Classes[2].Bases)
}

func TestParseSkipsMethodsAndOperators(t *testing.T) {
	t.Parallel()

	src := `class K {
    public static K operator +(K a, K b) => a;
    public int this[int i] => i;
    public event EventHandler Changed;
    T Make<T>() where T : new() => new T();
    int IFoo.Count { get { return 0; } }
    Dictionary<string, List<int>> map = new Dictionary<string, List<int>>();
    (int, string) pair;
    PluginInitContext? Maybe { get; set; }
}`
	f := Parse("k.cs", []byte(src))
	require.Len(t, f.Classes, 1)
	k := f.Classes[0]

	props := make([]string, 0, len(k.Properties))
	for _, p := range k.Properties {
		props = append(props, p.Name+":"+p.Type)
	}
	assert.Equal(t, []string{"Count:int", "Maybe:PluginInitContext?"}, props)

	fields := make([]string, 0, len(k.Fields))
	for _, f := range k.Fields {
		fields = append(fields, f.Names[0]+":"+f.Type)
	}
	assert.Equal(t, []string{"map:Dictionary<string,List<int>>", "pair:(int,string)"}, fields)
}

func TestParseCalls(t *testing.T) {
	t.Parallel()

	src := `
var a = Localize.First();
var b = Localize.Second(x).ToUpper();
var c = this.Localize.Third();
var d = obj?.Localize.Fourth();
var e = new Localize.Fifth();
var f = global::Localize.Sixth();
var g = Localize.Seventh<int>();
var h = (Localize).Eighth();
var i = items[0].Ninth();
var j = Localize?.Tenth();
`
	f := Parse("calls.cs", []byte(src))

	rooted := map[string]bool{}
	for _, c := range f.Calls {
		if len(c.Chain) > 0 {
			rooted[c.Chain[0]] = c.Rooted
		}
	}
	for _, name := range []string{"First", "Second", "ToUpper", "Seventh"} {
		assert.True(t, rooted[name], name)
	}
	for _, name := range []string{"Third", "Fourth", "Fifth", "Sixth", "Eighth", "Ninth", "Tenth"} {
		assert.False(t, rooted[name], name)
	}

	var chains [][]string
	for _, c := range f.Calls {
		if c.Rooted {
			chains = append(chains, c.Chain)
		}
	}
	assert.Contains(t, chains, []string{"ToUpper", "Second", "Localize"})
	assert.Contains(t, chains, []string{"Second", "Localize"})
	assert.Contains(t, chains, []string{"Seventh", "Localize"})
}

func TestParseCallsInsideStringsAndLambdas(t *testing.T) {
	t.Parallel()

	src := `class K {
    string A => $"{Localize.Interpolated(),8:N2} and {{literal}}";
    string B => $"""
        Raw {Localize.RawHole()} text
        """;
    Func<string> C = () => Localize.InLambda();
    // Localize.Commented();
    string D = "Localize.InString()";
}`
	f := Parse("K.cs", []byte(src))

	var names []string
	for _, c := range f.Calls {
		if c.Rooted && len(c.Chain) == 2 && c.Chain[1] == "Localize" {
			names = append(names, c.Chain[0])
		}
	}
	assert.Equal(t, []string{"Interpolated", "RawHole", "InLambda"}, names)
}

func TestParsePositions(t *testing.T) {
	t.Parallel()

	f := Parse("P.cs", []byte("\ufeffclass P {\n    void F() { Localize.Key(); }\n}\n"))
	require.Len(t, f.Classes, 1)
	assert.Equal(t, Pos{Line: 1, Column: 7, Offset: 6}, f.Classes[0].NamePos)
	require.Len(t, f.Calls, 1)
	assert.Equal(t, 2, f.Calls[0].Pos.Line)
	assert.Equal(t, 16, f.Calls[0].Pos.Column)
	assert.Equal(t, "2:16", f.Calls[0].Pos.String())
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	f := Parse("Empty.cs", nil)
	assert.Equal(t, "Empty.cs", f.Path)
	assert.Empty(t, f.Classes)
	assert.Empty(t, f.Calls)
}

func TestSimpleTypeName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"PluginInitContext":                        "PluginInitContext",
		"Flow.Launcher.Plugin.PluginInitContext":   "PluginInitContext",
		"global::Flow.Launcher.Plugin.IPluginI18n": "IPluginI18n",
		"PluginInitContext?":                       "PluginInitContext",
		"IComparable<Flow.Launcher.Plugin.Result>": "IComparable",
		"@PluginInitContext":                       "PluginInitContext",
	}
	for in, want := range tests {
		assert.Equal(t, want, SimpleTypeName(in), in)
	}
}
