package interpolation

import "regexp"

// MaxPlaceholders bounds the positional placeholders an accessor can take.
const MaxPlaceholders = 10

// itemPattern matches one composite format item {0} .. {9} at the start of
// the input, including alignment and format components such as {0,-8} or
// {1:N2}.
var itemPattern = regexp.MustCompile(`^\{([0-9])(?:,[^{}:]*)?(?::[^{}]*)?\}`)

// Placeholders returns the distinct placeholder positions present in text,
// in ascending order. Escaped braces ({{ and }}) are literal text.
func Placeholders(text string) []int {
	var seen [MaxPlaceholders]bool
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				i++
				continue
			}
			m := itemPattern.FindStringSubmatch(text[i:])
			if m == nil {
				continue
			}
			seen[m[1][0]-'0'] = true
			i += len(m[0]) - 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				i++
			}
		}
	}

	var out []int
	for i, ok := range seen {
		if ok {
			out = append(out, i)
		}
	}
	return out
}
