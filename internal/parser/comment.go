package parser

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

var errMalformedParam = errors.New("malformed param element")

// ParseComment reads the documentation micro-format of a comment:
//
//	<summary>Greets someone</summary>
//	<param index="0" name="who" type="string"/>
//
// Any malformation discards the whole comment, so an entry never gets a
// partially typed accessor.
func ParseComment(comment string) (string, []LocalizableStringParam) {
	summary, params, err := parseComment(comment)
	if err != nil {
		return "", nil
	}
	return summary, params
}

func parseComment(comment string) (string, []LocalizableStringParam, error) {
	dec := xml.NewDecoder(strings.NewReader("<root>" + comment + "</root>"))
	dec.Strict = true

	var (
		summary     strings.Builder
		haveSummary bool
		inSummary   int // nesting depth inside the first summary, 0 when outside
		params      []LocalizableStringParam
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if inSummary > 0 {
				inSummary++
			}
			if t.Name.Space != "" {
				continue
			}
			switch t.Name.Local {
			case "summary":
				if !haveSummary {
					haveSummary = true
					inSummary = 1
				}
			case "param":
				p, err := parseParam(t)
				if err != nil {
					return "", nil, err
				}
				params = append(params, p)
			}

		case xml.EndElement:
			if inSummary > 0 {
				inSummary--
			}

		case xml.CharData:
			if inSummary > 0 {
				summary.Write(t)
			}
		}
	}

	return strings.TrimSpace(summary.String()), params, nil
}

func parseParam(el xml.StartElement) (LocalizableStringParam, error) {
	p := LocalizableStringParam{Type: DefaultParamType}
	haveIndex, haveName := false, false
	for _, a := range el.Attr {
		if a.Name.Space != "" {
			continue
		}
		switch a.Name.Local {
		case "index":
			n, err := strconv.Atoi(strings.TrimSpace(a.Value))
			if err != nil {
				return p, err
			}
			p.Index = n
			haveIndex = true
		case "name":
			p.Name = a.Value
			haveName = true
		case "type":
			p.Type = a.Value
		}
	}
	if !haveIndex || !haveName {
		return p, errMalformedParam
	}
	return p, nil
}
