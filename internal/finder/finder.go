package finder

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/dupfind/internal/fileutil"
	"github.com/harrison/dupfind/internal/models"
)

// Options configures a single scan
type Options struct {
	Root            string
	Pattern         string
	Recursive       bool
	CheckContents   bool
	MinSize         int64
	ExcludeKeywords []string
	Workers         int
	Progress        ProgressFunc
}

// Result is the outcome of a completed scan
type Result struct {
	// ScanID uniquely identifies this run
	ScanID string
	// Root is the absolute scan root
	Root string
	// CheckedContents is true when sets were confirmed by hashing
	CheckedContents bool
	// Sets are ordered by size ascending, then hash
	Sets      []models.DuplicateSet
	Stats     models.ScanStats
	StartedAt time.Time
}

// statFunc reads the size of one candidate
type statFunc func(path string, d fs.DirEntry) (fs.FileInfo, error)

// Finder runs the duplicate detection pipeline
type Finder struct {
	opts   Options
	logger Logger
	stat   statFunc
}

// New creates a Finder. A nil logger discards diagnostics.
func New(opts Options, logger Logger) *Finder {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Finder{opts: opts, logger: logger, stat: entryInfo}
}

func entryInfo(_ string, d fs.DirEntry) (fs.FileInfo, error) {
	return d.Info()
}

// Find enumerates, filters, groups and optionally verifies candidates.
// Fatal configuration errors (bad root, bad pattern) and cancellation are
// returned; per-file I/O failures are logged and counted instead.
func (f *Finder) Find(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{
		ScanID:          uuid.New().String(),
		CheckedContents: f.opts.CheckContents,
		StartedAt:       start,
	}
	stats := &result.Stats

	f.logger.LogInfo("Scanning files...")
	records, err := f.collect(ctx, result)
	if err != nil {
		return nil, err
	}

	records, tooSmall := FilterBySize(records, f.opts.MinSize)
	stats.FilesExcluded += tooSmall
	stats.FilesChecked = len(records)
	for _, r := range records {
		stats.TotalBytes += r.Size
	}

	f.logger.LogInfo(fmt.Sprintf("Found %d files to process. Excluded %d files based on keywords or size.",
		stats.FilesChecked, stats.FilesExcluded))

	sizeGroups := GroupBySize(records)
	stats.SizeGroups = len(sizeGroups)

	if f.opts.CheckContents {
		f.logger.LogInfo("Calculating hashes for files with matching sizes...")
		verifier := &Verifier{
			Workers:  f.opts.Workers,
			Progress: f.opts.Progress,
			Logger:   f.logger,
		}
		hashGroups, vstats, err := verifier.Verify(ctx, sizeGroups)
		stats.FilesHashed = vstats.Hashed
		stats.HashFailures = vstats.Failures
		if err != nil {
			return nil, err
		}

		result.Sets = make([]models.DuplicateSet, 0, len(hashGroups))
		for _, g := range hashGroups {
			f.logger.LogDebug(fmt.Sprintf("Found %d duplicate files with hash %s...", len(g.Files), shortHash(g.Hash)))
			result.Sets = append(result.Sets, models.SetFromHashGroup(g))
		}
	} else {
		f.logger.LogInfo("Checking for size duplicates...")
		result.Sets = make([]models.DuplicateSet, 0, len(sizeGroups))
		for _, g := range sizeGroups {
			f.logger.LogDebug(fmt.Sprintf("Found %d files with size %d bytes", len(g.Files), g.Size))
			result.Sets = append(result.Sets, models.SetFromSizeGroup(g))
		}
	}

	stats.Tally(result.Sets)
	stats.Duration = time.Since(start)
	return result, nil
}

// collect walks the tree and stats every candidate
func (f *Finder) collect(ctx context.Context, result *Result) ([]models.FileRecord, error) {
	var records []models.FileRecord
	stats := &result.Stats

	scan, err := fileutil.Walk(ctx, f.opts.Root, fileutil.ScanOptions{
		Pattern:         f.opts.Pattern,
		Recursive:       f.opts.Recursive,
		ExcludeKeywords: f.opts.ExcludeKeywords,
		OnError: func(err error) {
			f.logger.LogWarn(err.Error())
		},
	}, func(path string, d fs.DirEntry) error {
		info, err := f.stat(path, d)
		if err != nil {
			stats.StatFailures++
			f.logger.LogWarn(fmt.Sprintf("Error accessing file: %s: %v", path, err))
			return nil
		}
		records = append(records, models.FileRecord{Path: path, Size: info.Size()})
		return nil
	})
	if scan != nil {
		result.Root = scan.Root
		stats.FilesExcluded += scan.Excluded
		stats.WalkErrors = len(scan.Errors)
		if scan.Unmatched > 0 {
			f.logger.LogDebug(fmt.Sprintf("Skipped %d files not matching pattern %q", scan.Unmatched, f.opts.Pattern))
		}
	}
	if err != nil {
		return nil, err
	}

	return records, nil
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
