// Package display renders the human-facing parts of a dupfind run that are
// not duplicate listings: the configuration header, the hashing progress bar,
// the closing summary and warnings about outputs that could not be written.
//
// # Progress
//
// HashProgress adapts a schollz/progressbar bar to the finder's progress
// callback:
//
//	progress := display.NewHashProgress(os.Stderr, enabled)
//	opts.Progress = progress.Update
//	result, err := finder.New(opts, log).Find(ctx)
//	progress.Finish()
//
// A disabled HashProgress accepts updates and draws nothing, so callers never
// branch on whether a bar is shown.
//
// # Summary
//
//	display.PrintSummary(os.Stdout, result.Stats, result.CheckedContents)
//
// Sizes are rendered with go-humanize in binary units.
//
// All functions accept io.Writer interfaces for testability.
package display
