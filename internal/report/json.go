package report

import (
	"encoding/json"
	"io"

	"github.com/harrison/dupfind/internal/models"
)

type jsonSet struct {
	Size  int64    `json:"size"`
	Hash  *string  `json:"hash"`
	Files []string `json:"files"`
}

// WriteJSON writes an array of {"size", "hash", "files"} objects.
// hash is null when contents were not checked. No sets encode as [].
func WriteJSON(w io.Writer, sets []models.DuplicateSet) error {
	out := make([]jsonSet, 0, len(sets))
	for _, s := range sets {
		js := jsonSet{Size: s.Size, Files: s.Paths()}
		if s.HasHash() {
			h := s.Hash
			js.Hash = &h
		}
		out = append(out, js)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
