package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/harrison/dupfind/internal/models"
)

// Header is the resolved scan configuration echoed before a scan starts
type Header struct {
	Root              string
	Pattern           string
	CurrentFolderOnly bool
	CheckContents     bool
	MinSize           int64
	Exclude           []string
}

// FormatSize renders a byte count in binary units, e.g. "1.5 MiB".
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// PrintHeader echoes the scan settings.
func PrintHeader(w io.Writer, h Header) {
	fmt.Fprintf(w, "Searching for duplicates in %s\n", h.Root)
	fmt.Fprintf(w, "File pattern: %s\n", h.Pattern)
	fmt.Fprintf(w, "Current folder only: %t\n", h.CurrentFolderOnly)
	fmt.Fprintf(w, "Checking file contents: %t\n", h.CheckContents)
	fmt.Fprintf(w, "Minimum file size: %s\n", FormatSize(h.MinSize))
	if len(h.Exclude) > 0 {
		fmt.Fprintf(w, "Excluding files with these keywords: %s\n", strings.Join(h.Exclude, ", "))
	}
}

// PrintSummary writes the closing statistics block. It is shown even in quiet mode.
func PrintSummary(w io.Writer, stats models.ScanStats, checkedContents bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary Statistics:")
	fmt.Fprintf(w, "Total files checked: %d\n", stats.FilesChecked)
	fmt.Fprintf(w, "Files excluded: %d\n", stats.FilesExcluded)
	fmt.Fprintf(w, "Duplicate sets: %d\n", stats.DuplicateSets)
	fmt.Fprintf(w, "Total duplicate files: %d\n", stats.DuplicateFiles)
	fmt.Fprintf(w, "Total size of duplicate files: %s\n", FormatSize(stats.DuplicateBytes))
	fmt.Fprintf(w, "Total size of all files: %s\n", FormatSize(stats.TotalBytes))
	if checkedContents {
		fmt.Fprintf(w, "Files hashed: %d\n", stats.FilesHashed)
	}
	if failed := stats.HashFailures + stats.StatFailures + stats.WalkErrors; failed > 0 {
		fmt.Fprintf(w, "Unreadable entries skipped: %d\n", failed)
	}
	fmt.Fprintf(w, "Duration of duplicate check: %.2fs\n", stats.Duration.Seconds())
}
