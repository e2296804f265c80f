package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/harrison/dupfind/internal/models"
)

var csvHeader = []string{"size", "hash", "file_path"}

// WriteCSV writes a header row and then one row per file. Members of a set
// are contiguous. The hash column is empty when contents were not checked.
func WriteCSV(w io.Writer, sets []models.DuplicateSet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range sets {
		size := strconv.FormatInt(s.Size, 10)
		for _, f := range s.Files {
			if err := cw.Write([]string{size, s.Hash, f.Path}); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
