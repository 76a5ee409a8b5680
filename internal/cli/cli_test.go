package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dictionary = `<ResourceDictionary
    xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation"
    xmlns:x="http://schemas.microsoft.com/winfx/2006/xaml"
    xmlns:system="clr-namespace:System;assembly=mscorlib">
    <system:String x:Key="PluginTitle">Demo</system:String>
</ResourceDictionary>`

const validMain = `namespace Demo;

public class Main : IPluginI18n
{
    internal static PluginInitContext Context { get; set; }
    public string Title => Localize.PluginTitle();
}
`

const privateMain = `namespace Demo;

public class Main : IPluginI18n
{
    private static PluginInitContext Context { get; set; }
}
`

func writeProject(t *testing.T, mainSource string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"Demo.Plugin.csproj": "<Project><PropertyGroup><AssemblyName>Demo.Plugin</AssemblyName></PropertyGroup></Project>",
		"Languages/en.xaml":  dictionary,
		"Main.cs":            mainSource,
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stderr.String(), err
}

func TestGenerateWritesAccessors(t *testing.T) {
	t.Parallel()

	root := writeProject(t, validMain)
	out, err := execute(t, "generate", "-p", root, "--log-level", "error")
	require.NoError(t, err)
	assert.Empty(t, out)

	content, err := os.ReadFile(filepath.Join(root, "Localize.g.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "namespace Demo.Plugin;")
	assert.Contains(t, string(content), `Main.Context.API.GetTranslation("PluginTitle")`)

	// The generated file is excluded from the next scan.
	out, err = execute(t, "check", "-p", root, "--log-level", "error")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCheckReportsErrors(t *testing.T) {
	t.Parallel()

	root := writeProject(t, privateMain)
	out, err := execute(t, "check", "-p", root, "--log-level", "error")
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, out, "error FLSG0005")
	assert.Contains(t, out, "error FLAN0004")

	_, statErr := os.Stat(filepath.Join(root, "Localize.g.cs"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateDependencyInjection(t *testing.T) {
	t.Parallel()

	root := writeProject(t, privateMain)
	_, err := execute(t, "generate", "-p", root, "--di", "-o", "Generated", "--log-level", "error")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "Generated", "Localize.g.cs"))
	assert.FileExists(t, filepath.Join(root, "Generated", "PublicApi.Demo.Plugin.g.cs"))
}

func TestInvalidConfiguration(t *testing.T) {
	t.Parallel()

	root := writeProject(t, validMain)
	_, err := execute(t, "check", "-p", root, "-c", "Staging", "--workers", "0")
	require.Error(t, err)
	assert.ErrorContains(t, err, "configuration invalid")
	assert.ErrorContains(t, err, "Staging")
}

func TestGenerateRemovesStaleFiles(t *testing.T) {
	t.Parallel()

	root := writeProject(t, validMain)
	publicAPI := filepath.Join(root, "PublicApi.Demo.Plugin.g.cs")
	accessors := filepath.Join(root, "Localize.g.cs")

	_, err := execute(t, "generate", "-p", root, "--di", "--log-level", "error")
	require.NoError(t, err)
	require.FileExists(t, publicAPI)

	_, err = execute(t, "generate", "-p", root, "--log-level", "error")
	require.NoError(t, err)
	assert.NoFileExists(t, publicAPI)
	assert.FileExists(t, accessors)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "Languages")))
	out, err := execute(t, "generate", "-p", root, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "warning FLSG0001")
	assert.NoFileExists(t, accessors)
}
