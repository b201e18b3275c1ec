// Package console prints the human readable progress lines of a fetch run.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes progress lines to an output stream
type Printer struct {
	w    io.Writer
	verb *color.Color
}

// New creates a Printer. Color is only used when w is the process stdout.
func New(w io.Writer) *Printer {
	verb := color.New(color.FgCyan, color.Bold)
	if f, ok := w.(*os.File); !ok || f != os.Stdout {
		verb.DisableColor()
	}
	return &Printer{w: w, verb: verb}
}

// Discard returns a Printer that prints nothing
func Discard() *Printer {
	return New(io.Discard)
}

// Downloading reports that an archive download starts
func (p *Printer) Downloading(archive string) {
	p.line("Downloading", archive)
}

// Extracting reports that an archive is being unpacked into folder
func (p *Printer) Extracting(folder string) {
	p.line("Extracting folder", folder)
}

func (p *Printer) line(verb, name string) {
	_, _ = fmt.Fprintf(p.w, "%s %s\n", p.verb.Sprint(verb), name)
}
