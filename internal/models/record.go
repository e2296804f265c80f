// Package models defines the data carried through a duplicate scan.
//
// Records are created during enumeration and never mutated afterwards. Groups
// are built by the finder pipeline and handed to the reporters as DuplicateSets.
package models

// FileRecord is a candidate file discovered during enumeration.
type FileRecord struct {
	// Path is the absolute path of the file
	Path string `json:"path"`

	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// SizeGroup holds candidates that share an exact byte size.
// Files keep enumeration order.
type SizeGroup struct {
	Size  int64
	Files []FileRecord
}

// HashGroup holds members of a single SizeGroup that share a content digest.
type HashGroup struct {
	Size  int64
	Hash  string
	Files []FileRecord
}
