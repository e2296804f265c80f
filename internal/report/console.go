package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harrison/dupfind/internal/models"
)

// ConsoleWriter prints duplicate listings to a terminal or pipe
type ConsoleWriter struct {
	out   io.Writer
	quiet bool

	dup  *color.Color
	orig *color.Color
}

// NewConsoleWriter creates a writer. In quiet mode nothing is listed.
func NewConsoleWriter(out io.Writer, quiet, colored bool) *ConsoleWriter {
	cw := &ConsoleWriter{
		out:   out,
		quiet: quiet,
		dup:   color.New(color.FgYellow),
		orig:  color.New(color.FgHiBlack),
	}
	if colored {
		cw.dup.EnableColor()
		cw.orig.EnableColor()
	} else {
		cw.dup.DisableColor()
		cw.orig.DisableColor()
	}
	return cw
}

// WriteSets lists every duplicate as "<duplicate> (<original>)".
// The first member of a set is its original.
func (cw *ConsoleWriter) WriteSets(sets []models.DuplicateSet) {
	if cw.quiet {
		return
	}

	if len(sets) == 0 {
		fmt.Fprintln(cw.out, "No duplicates found.")
		return
	}

	count := 0
	for _, s := range sets {
		if len(s.Files) > 1 {
			count += len(s.Files) - 1
		}
	}

	fmt.Fprintf(cw.out, "\nFound %d duplicate files:\n", count)
	for _, s := range sets {
		if len(s.Files) < 2 {
			continue
		}
		original := s.Original().Path
		for _, f := range s.Files[1:] {
			fmt.Fprintf(cw.out, "%s (%s)\n", cw.dup.Sprint(f.Path), cw.orig.Sprint(original))
		}
	}
}

// Saved announces a report file that was written.
func (cw *ConsoleWriter) Saved(t Target) {
	if cw.quiet {
		return
	}
	if t.Kind == KindText {
		fmt.Fprintf(cw.out, "\nList of duplicates has been saved to %s\n", t.Path)
		return
	}
	fmt.Fprintf(cw.out, "\nDetailed duplicate information has been saved to %s\n", t.Path)
}
