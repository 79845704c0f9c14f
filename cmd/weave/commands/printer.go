package commands

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"go.trai.ch/weave/internal/ui/output"
	"go.trai.ch/weave/internal/ui/style"
)

// printer writes styled command output.
type printer struct {
	out *termenv.Output
}

func newPrinter(w io.Writer) *printer {
	return &printer{out: output.New(w)}
}

func (p *printer) paint(s string, c string) termenv.Style {
	return p.out.String(s).Foreground(termenv.RGBColor(c))
}

func (p *printer) heading(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, p.paint(fmt.Sprintf(format, args...), string(style.Indigo)).Bold())
}

func (p *printer) line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) muted(s string) string {
	return p.paint(s, string(style.Slate)).String()
}

func (p *printer) success(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, p.paint(style.Check+" "+fmt.Sprintf(format, args...), string(style.Green)))
}

func (p *printer) failure(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, p.paint(style.Cross+" "+fmt.Sprintf(format, args...), string(style.Red)))
}
