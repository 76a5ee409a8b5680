package parser

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"

	"localize-gen/internal/locale"
	"localize-gen/internal/names"
)

// languagesPattern matches <dir>/Languages/<name>.xaml once the path has
// been normalized to forward slashes and lower case.
var languagesPattern = glob.MustCompile("**/languages/*.xaml", '/')

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IsResourceDictionary reports whether path follows the Languages/<name>.xaml
// convention, case-insensitively and for either path separator.
func IsResourceDictionary(path string) bool {
	p := strings.ToLower(strings.ReplaceAll(path, `\`, "/"))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return languagesPattern.Match(p)
}

// XAMLParser extracts string resources from WPF resource dictionaries.
type XAMLParser struct{}

func NewXAMLParser() *XAMLParser { return &XAMLParser{} }

func (p *XAMLParser) CanParse(path string) bool {
	return IsResourceDictionary(path)
}

func (p *XAMLParser) Parse(ctx context.Context, path string, content []byte) (*ParseResult, error) {
	result := &ParseResult{
		FilePath: path,
		FileType: "xaml",
		Language: locale.FromPath(path),
	}

	strs, err := parseDictionary(ctx, content)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn().Err(err).Str("file", path).Msg("Resource dictionary is not well-formed, skipping")
		return result, nil
	}

	result.Strings = strs
	return result, nil
}

type nodeKind int

const (
	nodeNone nodeKind = iota
	nodeComment
	nodeOther
)

// sibling tracks the last node seen at one nesting level.
type sibling struct {
	kind    nodeKind
	comment string
}

// pendingString is a string element whose text is still being collected.
type pendingString struct {
	key        string
	comment    string
	hasComment bool
	depth      int
	text       strings.Builder
	closed     bool
}

func parseDictionary(ctx context.Context, content []byte) ([]LocalizableString, error) {
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	dec.Strict = true

	levels := []sibling{{}}
	var (
		all     []*pendingString
		open    []*pendingString
		sawRoot bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		top := &levels[len(levels)-1]

		switch t := tok.(type) {
		case xml.StartElement:
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			if !sawRoot {
				sawRoot = true
				if !declaresNamespaces(t, names.SystemPrefixURI, names.XamlPrefixURI) {
					return nil, nil
				}
			}

			prev := *top
			top.kind = nodeOther
			levels = append(levels, sibling{})

			if t.Name.Space != names.SystemPrefixURI || t.Name.Local != names.XamlTag {
				continue
			}

			key, ok := attr(t, names.XamlPrefixURI, names.KeyAttribute)
			if !ok {
				continue
			}

			ps := &pendingString{key: key, depth: len(levels) - 1}
			if prev.kind == nodeComment {
				ps.comment = prev.comment
				ps.hasComment = true
			}
			all = append(all, ps)
			open = append(open, ps)

		case xml.EndElement:
			depth := len(levels) - 1
			levels = levels[:depth]
			if n := len(open); n > 0 && open[n-1].depth == depth {
				open[n-1].closed = true
				open = open[:n-1]
			}

		case xml.CharData:
			for _, ps := range open {
				ps.text.Write(t)
			}
			if len(bytes.TrimSpace(t)) > 0 {
				top.kind = nodeOther
			}

		case xml.Comment:
			top.kind = nodeComment
			top.comment = string(t)

		case xml.ProcInst, xml.Directive:
			top.kind = nodeOther
		}
	}

	out := make([]LocalizableString, 0, len(all))
	for _, ps := range all {
		if !ps.closed {
			continue
		}
		ls := LocalizableString{Key: ps.key, Value: ps.text.String()}
		if ps.hasComment {
			ls.Summary, ls.Params = ParseComment(ps.comment)
		}
		out = append(out, ls)
	}
	return out, nil
}

// declaresNamespaces reports whether the element declares every URI in uris
// under some prefix.
func declaresNamespaces(el xml.StartElement, uris ...string) bool {
	declared := make(map[string]bool, len(el.Attr))
	for _, a := range el.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			declared[a.Value] = true
		}
	}
	for _, u := range uris {
		if !declared[u] {
			return false
		}
	}
	return true
}

func attr(el xml.StartElement, space, local string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}
