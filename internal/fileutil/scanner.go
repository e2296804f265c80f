package fileutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidRoot is returned when the scan root is missing or not a directory
	ErrInvalidRoot = errors.New("invalid scan root")

	// ErrInvalidPattern is returned for a malformed glob pattern
	ErrInvalidPattern = errors.New("invalid file pattern")
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Pattern is a glob matched against the base name (empty matches everything)
	Pattern string
	// Recursive enables recursive directory scanning
	Recursive bool
	// ExcludeKeywords drops any file whose absolute path contains one of them (case-sensitive)
	ExcludeKeywords []string
	// OnError is called for every non-fatal error, in walk order
	OnError func(err error)
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Root is the absolute, cleaned scan root
	Root string
	// Matched is the number of candidates handed to the visitor
	Matched int
	// Unmatched counts regular files whose base name misses the pattern
	Unmatched int
	// Excluded counts matching files dropped by an exclude keyword
	Excluded int
	// Errors contains any errors encountered during scanning
	Errors []error
}

// VisitFunc receives each candidate. Returning an error stops the walk.
type VisitFunc func(path string, d fs.DirEntry) error

// ValidatePattern reports whether pattern is a well-formed glob
func ValidatePattern(pattern string) error {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}
	return nil
}

// ResolveRoot returns the absolute, symlink-free form of dir after checking
// it is a directory. Exclude keywords are matched against paths below it.
func ResolveRoot(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %v", ErrInvalidRoot, dir, err)
	}
	absDir, err = filepath.EvalSymlinks(absDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: path is not a directory: %s", ErrInvalidRoot, absDir)
	}
	return absDir, nil
}

// Walk visits every candidate below dir in lexical order.
// Cancellation of ctx stops the walk and returns ctx.Err().
func Walk(ctx context.Context, dir string, opts ScanOptions, visit VisitFunc) (*ScanResult, error) {
	root, err := ResolveRoot(dir)
	if err != nil {
		return nil, err
	}

	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*"
	}
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}

	keywords := make([]string, 0, len(opts.ExcludeKeywords))
	for _, k := range opts.ExcludeKeywords {
		if k != "" {
			keywords = append(keywords, k)
		}
	}

	result := &ScanResult{
		Root:   root,
		Errors: make([]error, 0),
	}

	report := func(err error) {
		result.Errors = append(result.Errors, err)
		if opts.OnError != nil {
			opts.OnError(err)
		}
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == root {
				return fmt.Errorf("%w: %v", ErrInvalidRoot, err)
			}
			report(fmt.Errorf("error accessing %s: %w", path, err))
			return nil // Continue walking
		}

		if path == root {
			return nil
		}

		if d.IsDir() {
			if !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks, devices, sockets and pipes are never candidates
		if !d.Type().IsRegular() {
			return nil
		}

		if matched, _ := filepath.Match(pattern, d.Name()); !matched {
			result.Unmatched++
			return nil
		}
		if containsAny(path, keywords) {
			result.Excluded++
			return nil
		}

		result.Matched++
		return visit(path, d)
	})

	if err != nil {
		return result, err
	}

	return result, nil
}

func containsAny(path string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(path, k) {
			return true
		}
	}
	return false
}
