package crossref

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"localize-gen/internal/diag"
	"localize-gen/internal/parser"
)

func dict(path string, lang language.Tag, keys ...string) *parser.ParseResult {
	r := &parser.ParseResult{FilePath: path, FileType: "xaml", Language: lang}
	for _, k := range keys {
		r.Strings = append(r.Strings, parser.LocalizableString{Key: k, Value: path + ":" + k})
	}
	return r
}

func TestMerge(t *testing.T) {
	t.Parallel()

	en := dict("Languages/en.xaml", language.English, "Title", "Greeting")
	de := dict("Languages/de.xaml", language.German, "Title", "Extra")
	odd := dict("Languages/custom.xaml", language.Und, "Other", "Title")

	t.Run("canonical dictionary defines the keys", func(t *testing.T) {
		t.Parallel()
		var bag diag.Bag
		got := Merge([]*parser.ParseResult{de, en}, language.English, &bag)
		assert.Equal(t, []string{"Title", "Greeting"}, keys(got))
		assert.Equal(t, "Languages/en.xaml:Title", got[0].Value)

		want := []diag.Diagnostic{{
			Code:     "FLSG0008",
			Severity: diag.SeverityWarning,
			Message:  "Key 'Extra' is not defined in the en dictionary",
			Location: diag.Location{File: "Languages/de.xaml"},
		}}
		if diff := cmp.Diff(want, bag.Items()); diff != "" {
			t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("without canonical dictionary the first entry wins", func(t *testing.T) {
		t.Parallel()
		var bag diag.Bag
		got := Merge([]*parser.ParseResult{odd, de}, language.English, &bag)
		assert.Equal(t, []string{"Other", "Title", "Extra"}, keys(got))
		assert.Equal(t, "Languages/custom.xaml:Title", got[1].Value)
		assert.Empty(t, bag.Items())
	})
}

func TestUnused(t *testing.T) {
	t.Parallel()

	strs := dict("en.xaml", language.English, "A", "B", "C").Strings
	assert.Equal(t, []string{"B"}, Unused(strs, []string{"C", "A", "Z"}))
	assert.Empty(t, Unused(strs, []string{"A", "B", "C"}))
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	dicts := []*parser.ParseResult{dict("Languages/en.xaml", language.English, "Used", "Unused", "not-valid", "class")}
	used := []string{"Used", "not-valid", "class"}

	tests := []struct {
		name      string
		opts      Options
		wantKeys  []string
		wantCodes []string
	}{
		{
			name:      "debug build reports no unused keys",
			opts:      Options{Canonical: language.English},
			wantKeys:  []string{"Used", "Unused"},
			wantCodes: []string{"FLSG0009", "FLSG0009"},
		},
		{
			name:      "release build flags but still generates",
			opts:      Options{Optimize: true, Canonical: language.English},
			wantKeys:  []string{"Used", "Unused"},
			wantCodes: []string{"FLSG0007", "FLSG0009", "FLSG0009"},
		},
		{
			name:      "release build can exclude unused keys",
			opts:      Options{Optimize: true, ExcludeUnused: true, Canonical: language.English},
			wantKeys:  []string{"Used"},
			wantCodes: []string{"FLSG0007", "FLSG0009", "FLSG0009"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var bag diag.Bag
			res := Analyze(dicts, used, tt.opts, &bag)
			assert.Equal(t, tt.wantKeys, keys(res.Strings))
			assert.Equal(t, []string{"Unused"}, res.Unused)

			codes := make([]string, 0, len(bag.Items()))
			for _, d := range bag.Items() {
				codes = append(codes, d.Code)
			}
			assert.Equal(t, tt.wantCodes, codes)
		})
	}
}

func keys(strs []parser.LocalizableString) []string {
	out := make([]string, 0, len(strs))
	for _, s := range strs {
		out = append(out, s.Key)
	}
	return out
}
