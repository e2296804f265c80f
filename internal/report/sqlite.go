package report

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/harrison/dupfind/internal/finder"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// WriteSQLite creates a database at dbPath holding the scan row, its sets
// and their member files. dbPath is expected to be new or empty.
func WriteSQLite(ctx context.Context, dbPath string, scan *finder.Result) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertScan(ctx, tx, scan); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return db.Close()
}

func insertScan(ctx context.Context, tx *sql.Tx, scan *finder.Result) error {
	st := scan.Stats
	checked := 0
	if scan.CheckedContents {
		checked = 1
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO scans (id, root, started_at, duration_ms, checked_contents,
			files_checked, files_excluded, total_bytes,
			duplicate_sets, duplicate_files, duplicate_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		scan.ScanID, scan.Root, scan.StartedAt.UTC(), st.Duration.Milliseconds(), checked,
		st.FilesChecked, st.FilesExcluded, st.TotalBytes,
		st.DuplicateSets, st.DuplicateFiles, st.DuplicateBytes)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	setStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO duplicate_sets (scan_id, position, size, hash) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare set insert: %w", err)
	}
	defer setStmt.Close()

	fileStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO duplicate_files (set_id, position, path, is_original) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare file insert: %w", err)
	}
	defer fileStmt.Close()

	for i, s := range scan.Sets {
		var hash sql.NullString
		if s.HasHash() {
			hash = sql.NullString{String: s.Hash, Valid: true}
		}

		res, err := setStmt.ExecContext(ctx, scan.ScanID, i, s.Size, hash)
		if err != nil {
			return fmt.Errorf("insert set %d: %w", i, err)
		}
		setID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("set id: %w", err)
		}

		for j, f := range s.Files {
			original := 0
			if j == 0 {
				original = 1
			}
			if _, err := fileStmt.ExecContext(ctx, setID, j, f.Path, original); err != nil {
				return fmt.Errorf("insert file %s: %w", f.Path, err)
			}
		}
	}

	return nil
}
