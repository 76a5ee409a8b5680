// Package project reads the build properties the generator needs from an
// MSBuild project file.
package project

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Project holds the properties read from a .csproj file.
type Project struct {
	Path string
	// AssemblyName is the literal <AssemblyName>, empty when unset or
	// computed from other properties.
	AssemblyName string
	// UseDI mirrors <FLLUseDependencyInjection>; nil when unset.
	UseDI *bool
}

type csproj struct {
	PropertyGroups []struct {
		AssemblyName              string `xml:"AssemblyName"`
		FLLUseDependencyInjection string `xml:"FLLUseDependencyInjection"`
	} `xml:"PropertyGroup"`
}

// Parse reads the project file at path from content. The last literal
// value of each property wins, as in MSBuild evaluation order.
func Parse(path string, content []byte) (*Project, error) {
	var doc csproj
	if err := xml.Unmarshal(bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF}), &doc); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", path, err)
	}

	p := &Project{Path: path}
	for _, g := range doc.PropertyGroups {
		if v := literal(g.AssemblyName); v != "" {
			p.AssemblyName = v
		}
		if v := literal(g.FLLUseDependencyInjection); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				p.UseDI = &b
			}
		}
	}
	return p, nil
}

// literal returns v trimmed, or "" when it references other properties.
func literal(v string) string {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "$(") {
		return ""
	}
	return v
}

// Name returns the assembly name, defaulting to the project file name as
// MSBuild does.
func (p *Project) Name() string {
	if p.AssemblyName != "" {
		return p.AssemblyName
	}
	base := filepath.Base(filepath.FromSlash(p.Path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
