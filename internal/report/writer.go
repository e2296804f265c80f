package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/harrison/dupfind/internal/filelock"
	"github.com/harrison/dupfind/internal/finder"
)

// Kind names a report format
type Kind string

const (
	KindText   Kind = "text"
	KindCSV    Kind = "csv"
	KindJSON   Kind = "json"
	KindSQLite Kind = "sqlite"
)

// Target is one requested report file
type Target struct {
	Kind Kind
	Path string
}

func (t Target) String() string {
	return fmt.Sprintf("%s (%s)", t.Path, t.Kind)
}

// Logger is the subset of logger.Logger used while writing reports
type Logger interface {
	LogWarn(message string)
}

// WriteError reports the targets that could not be written
type WriteError struct {
	Failed []Target
	Err    error
}

func (e *WriteError) Error() string {
	paths := make([]string, len(e.Failed))
	for i, t := range e.Failed {
		paths[i] = t.Path
	}
	return fmt.Sprintf("failed to write %d report(s): %s: %v", len(e.Failed), strings.Join(paths, ", "), e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// WriteAll writes every target independently. onSaved, when non-nil, is
// called after each successful write. A failure does not stop the remaining
// targets; all failures are returned together as a *WriteError.
// Cancellation before a target is started stops the loop and returns ctx.Err().
func WriteAll(ctx context.Context, scan *finder.Result, targets []Target, log Logger, onSaved func(Target)) error {
	var failed []Target
	var errs []error

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := Write(ctx, scan, t); err != nil {
			if log != nil {
				log.LogWarn(fmt.Sprintf("Error writing %s: %v", t, err))
			}
			failed = append(failed, t)
			errs = append(errs, fmt.Errorf("%s: %w", t.Path, err))
			continue
		}

		if onSaved != nil {
			onSaved(t)
		}
	}

	if len(failed) > 0 {
		return &WriteError{Failed: failed, Err: errors.Join(errs...)}
	}
	return nil
}

// Write renders scan into a single target.
func Write(ctx context.Context, scan *finder.Result, t Target) error {
	switch t.Kind {
	case KindText:
		return filelock.LockAndWrite(t.Path, func(w io.Writer) error {
			return WriteText(w, scan.Sets)
		})
	case KindCSV:
		return filelock.LockAndWrite(t.Path, func(w io.Writer) error {
			return WriteCSV(w, scan.Sets)
		})
	case KindJSON:
		return filelock.LockAndWrite(t.Path, func(w io.Writer) error {
			return WriteJSON(w, scan.Sets)
		})
	case KindSQLite:
		return filelock.LockAndReplace(t.Path, func(tempPath string) error {
			return WriteSQLite(ctx, tempPath, scan)
		})
	default:
		return fmt.Errorf("unknown report kind %q", t.Kind)
	}
}
