package models

import "time"

// DuplicateSet is the reportable unit: two or more files considered
// duplicates under the active verification mode.
// Hash is empty when content verification was disabled.
type DuplicateSet struct {
	Size  int64
	Hash  string
	Files []FileRecord
}

// HasHash reports whether the set was confirmed by content hashing
func (d DuplicateSet) HasHash() bool {
	return d.Hash != ""
}

// Paths returns the member paths in order
func (d DuplicateSet) Paths() []string {
	paths := make([]string, len(d.Files))
	for i, f := range d.Files {
		paths[i] = f.Path
	}
	return paths
}

// Original returns the first member, which reporters treat as the original copy
func (d DuplicateSet) Original() FileRecord {
	if len(d.Files) == 0 {
		return FileRecord{}
	}
	return d.Files[0]
}

// WastedBytes returns the bytes that could be reclaimed by keeping one copy
func (d DuplicateSet) WastedBytes() int64 {
	if len(d.Files) < 2 {
		return 0
	}
	return d.Size * int64(len(d.Files)-1)
}

// SetFromSizeGroup converts a size group into a DuplicateSet without a hash
func SetFromSizeGroup(g SizeGroup) DuplicateSet {
	return DuplicateSet{Size: g.Size, Files: g.Files}
}

// SetFromHashGroup converts a hash group into a DuplicateSet
func SetFromHashGroup(g HashGroup) DuplicateSet {
	return DuplicateSet{Size: g.Size, Hash: g.Hash, Files: g.Files}
}

// ScanStats holds the counters produced by one scan.
// Each pipeline stage fills in its own fields.
type ScanStats struct {
	FilesChecked   int           // Candidates that passed every filter
	FilesExcluded  int           // Files dropped by pattern, keyword or size filters
	TotalBytes     int64         // Sum of sizes of checked files
	SizeGroups     int           // Size groups with at least two members
	FilesHashed    int           // Files successfully hashed
	HashFailures   int           // Files dropped because hashing failed
	StatFailures   int           // Files dropped because stat failed
	WalkErrors     int           // Directories or entries that could not be read
	DuplicateSets  int           // Number of reported sets
	DuplicateFiles int           // Members beyond the first of every set
	DuplicateBytes int64         // Total reclaimable bytes
	Duration       time.Duration // Wall time of the scan
}

// Tally fills the duplicate counters from the final sets
func (s *ScanStats) Tally(sets []DuplicateSet) {
	s.DuplicateSets = len(sets)
	s.DuplicateFiles = 0
	s.DuplicateBytes = 0
	for _, set := range sets {
		if len(set.Files) > 1 {
			s.DuplicateFiles += len(set.Files) - 1
		}
		s.DuplicateBytes += set.WastedBytes()
	}
}
