// Package locale maps resource dictionary file names to language tags.
package locale

import (
	"path"
	"strings"

	"golang.org/x/text/language"
)

// FromPath returns the language tag named by a dictionary's base name, for
// example "zh-cn" for Languages/zh-cn.xaml. Unparseable names yield
// language.Und.
func FromPath(p string) language.Tag {
	base := path.Base(strings.ReplaceAll(p, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	tag, err := language.Parse(base)
	if err != nil {
		return language.Und
	}
	return tag
}

// Parse returns the tag for a configured language name, language.Und when it
// cannot be parsed.
func Parse(name string) language.Tag {
	tag, err := language.Parse(name)
	if err != nil {
		return language.Und
	}
	return tag
}

// Same reports whether a and b name the same language. Undetermined tags
// never match.
func Same(a, b language.Tag) bool {
	if a == language.Und || b == language.Und {
		return false
	}
	return a.String() == b.String()
}
