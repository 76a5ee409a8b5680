package codegen

import (
	"fmt"

	"localize-gen/internal/interpolation"
	"localize-gen/internal/parser"
)

// Parameter is one accessor method parameter.
type Parameter struct {
	Name string
	Type string
}

// BuildParameters derives an accessor's parameters from the placeholders in
// the default text. Documented parameters supply name and type; others are
// synthesized as arg<N>. Documented parameters without a placeholder are
// dropped.
func BuildParameters(ls parser.LocalizableString) []Parameter {
	positions := interpolation.Placeholders(ls.Value)
	params := make([]Parameter, 0, len(positions))
	for _, i := range positions {
		if p, ok := ls.Param(i); ok {
			params = append(params, Parameter{Name: p.Name, Type: p.Type})
			continue
		}
		params = append(params, Parameter{Name: fmt.Sprintf("arg%d", i), Type: parser.DefaultParamType})
	}
	return params
}
