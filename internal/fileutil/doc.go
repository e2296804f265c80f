// Package fileutil walks a directory tree and yields duplicate-scan candidates.
//
// A candidate is a regular file whose base name matches a glob pattern and
// whose absolute path contains none of the exclusion keywords.
//
// # Usage
//
// Walk visits candidates lazily, in lexical order:
//
//	res, err := fileutil.Walk(ctx, "/srv/photos", fileutil.ScanOptions{
//	    Pattern:         "*.jpg",
//	    Recursive:       true,
//	    ExcludeKeywords: []string{"backup"},
//	}, func(path string, d fs.DirEntry) error {
//	    fmt.Println(path)
//	    return nil
//	})
//
// # Error tolerance
//
// Unreadable subdirectories and entries are recorded in ScanResult.Errors and
// reported through ScanOptions.OnError; the walk continues. A missing root, a
// root that is not a directory and a malformed pattern are fatal and wrap
// ErrInvalidRoot or ErrInvalidPattern.
//
// # Symbolic links
//
// Links below the root are never followed and never yielded, whatever they
// point at. Devices, sockets and named pipes are skipped as well. The root itself
// is resolved first, so a link to a directory scans its target and keywords
// match the resolved paths.
package fileutil
