package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantName string
		wantDI   *bool
	}{
		{
			name:    "explicit properties",
			content: `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <AssemblyName> Flow.Launcher.Plugin.Demo </AssemblyName>
  </PropertyGroup>
  <PropertyGroup Condition="'$(Configuration)' == 'Release'">
    <FLLUseDependencyInjection>True</FLLUseDependencyInjection>
  </PropertyGroup>
</Project>`,
			wantName: "Flow.Launcher.Plugin.Demo",
			wantDI:   boolPtr(true),
		},
		{
			name:     "defaults to the file name",
			content:  `<Project><PropertyGroup><TargetFramework>net9.0</TargetFramework></PropertyGroup></Project>`,
			wantName: "Demo.Plugin",
		},
		{
			name:     "computed values are ignored",
			content:  `<Project><PropertyGroup><AssemblyName>$(MSBuildProjectName)</AssemblyName><FLLUseDependencyInjection>maybe</FLLUseDependencyInjection></PropertyGroup></Project>`,
			wantName: "Demo.Plugin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := Parse("src/Demo.Plugin.csproj", []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
			assert.Equal(t, tt.wantDI, p.UseDI)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	_, err := Parse("Demo.csproj", []byte("<Project>"))
	assert.Error(t, err)
}

func boolPtr(b bool) *bool { return &b }
