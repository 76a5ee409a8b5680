package parser

import (
	"context"

	"golang.org/x/text/language"
)

// DefaultParamType is the declared type of a parameter whose comment omits it.
const DefaultParamType = "object?"

// LocalizableStringParam documents one positional placeholder of a string.
type LocalizableStringParam struct {
	// Index is the placeholder position, {0} through {9}.
	Index int
	Name  string
	// Type is a C# type reference as written in the comment.
	Type string
}

// LocalizableString is a single entry of a resource dictionary.
type LocalizableString struct {
	// Key is unique within a dictionary and becomes the accessor name.
	Key string
	// Value is the default display text and may contain {N} placeholders.
	Value string
	// Summary is the documentation summary, empty when absent.
	Summary string
	// Params are the documented parameters in comment order.
	Params []LocalizableStringParam
}

// Param returns the declared parameter for placeholder index, if any.
func (ls LocalizableString) Param(index int) (LocalizableStringParam, bool) {
	for _, p := range ls.Params {
		if p.Index == index {
			return p, true
		}
	}
	return LocalizableStringParam{}, false
}

// ParseResult holds parsing output for a single dictionary file.
type ParseResult struct {
	// FilePath is the path the file was discovered at.
	FilePath string
	// FileType is the detected type (xaml).
	FileType string
	// Language is derived from the file name; language.Und when unknown.
	Language language.Tag
	// Strings are the entries in document order.
	Strings []LocalizableString
}

// Keys returns the entry keys in document order.
func (r *ParseResult) Keys() []string {
	keys := make([]string, 0, len(r.Strings))
	for _, s := range r.Strings {
		keys = append(keys, s.Key)
	}
	return keys
}

// Parser is the interface for resource dictionary parsers.
type Parser interface {
	// CanParse returns true if this parser handles the file at path.
	CanParse(path string) bool
	// Parse extracts localizable strings from already-read file content.
	// Malformed content yields an empty result rather than an error; only
	// cancellation is reported as one.
	Parse(ctx context.Context, path string, content []byte) (*ParseResult, error)
}
