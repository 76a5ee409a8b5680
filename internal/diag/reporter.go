package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter renders diagnostics for a terminal.
type Reporter struct {
	out     io.Writer
	errorC  *color.Color
	warnC   *color.Color
	infoC   *color.Color
	locC    *color.Color
	summary *color.Color
}

// NewReporter creates a reporter writing to out. Colors are emitted only
// when colored is true.
func NewReporter(out io.Writer, colored bool) *Reporter {
	r := &Reporter{
		out:     out,
		errorC:  color.New(color.FgRed, color.Bold),
		warnC:   color.New(color.FgYellow, color.Bold),
		infoC:   color.New(color.FgCyan),
		locC:    color.New(color.Bold),
		summary: color.New(color.Faint),
	}
	for _, c := range []*color.Color{r.errorC, r.warnC, r.infoC, r.locC, r.summary} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *Reporter) severityColor(s Severity) *color.Color {
	switch s {
	case SeverityError:
		return r.errorC
	case SeverityWarning:
		return r.warnC
	default:
		return r.infoC
	}
}

// Render writes one line per diagnostic followed by a summary line.
func (r *Reporter) Render(ds []Diagnostic) {
	for _, d := range ds {
		if !d.Location.IsNone() {
			r.locC.Fprint(r.out, d.Location.String())
			fmt.Fprint(r.out, ": ")
		}
		r.severityColor(d.Severity).Fprintf(r.out, "%s %s", d.Severity, d.Code)
		fmt.Fprintf(r.out, ": %s\n", d.Message)
	}
	if len(ds) == 0 {
		return
	}
	r.summary.Fprintf(r.out, "%d error(s), %d warning(s)\n",
		Count(ds, SeverityError), Count(ds, SeverityWarning))
}
