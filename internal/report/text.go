package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/harrison/dupfind/internal/models"
)

// WriteText writes one block per set: a "# size=<n> hash=<h>" header
// ("-" for a missing hash), one path per line, and a blank separator line.
func WriteText(w io.Writer, sets []models.DuplicateSet) error {
	bw := bufio.NewWriter(w)

	for i, s := range sets {
		if i > 0 {
			bw.WriteString("\n")
		}

		hash := "-"
		if s.HasHash() {
			hash = s.Hash
		}
		fmt.Fprintf(bw, "# size=%d hash=%s\n", s.Size, hash)

		for _, f := range s.Files {
			bw.WriteString(f.Path)
			bw.WriteString("\n")
		}
	}

	return bw.Flush()
}
