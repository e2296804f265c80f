package fileutil

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
)

// writeTree creates every file below root with a small payload
func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("test content"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	sort.Strings(names)
	return names
}

// collectPaths walks dir and returns the visited paths in walk order
func collectPaths(t *testing.T, ctx context.Context, dir string, opts ScanOptions) ([]string, *ScanResult, error) {
	t.Helper()
	paths := make([]string, 0)
	result, err := Walk(ctx, dir, opts, func(path string, _ fs.DirEntry) error {
		paths = append(paths, path)
		return nil
	})
	return paths, result, err
}

func TestWalk_Filters(t *testing.T) {
	// tmpDir/
	//   a.jpg
	//   b.png
	//   IMG-1.JPG
	//   notes.txt
	//   photos/
	//     c.jpg
	//     backup/
	//       d.jpg
	//   .cache/
	//     e.jpg
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{
		"a.jpg",
		"b.png",
		"IMG-1.JPG",
		"notes.txt",
		"photos/c.jpg",
		"photos/backup/d.jpg",
		".cache/e.jpg",
	})

	tests := []struct {
		name          string
		opts          ScanOptions
		wantFileNames []string
		wantUnmatched int
		wantExcluded  int
	}{
		{
			name:          "non-recursive match all",
			opts:          ScanOptions{Recursive: false},
			wantFileNames: []string{"IMG-1.JPG", "a.jpg", "b.png", "notes.txt"},
		},
		{
			name: "recursive match all includes hidden directories",
			opts: ScanOptions{Recursive: true},
			wantFileNames: []string{
				"IMG-1.JPG", "a.jpg", "b.png", "c.jpg", "d.jpg", "e.jpg", "notes.txt",
			},
		},
		{
			name:          "glob is case-sensitive",
			opts:          ScanOptions{Pattern: "*.jpg", Recursive: true},
			wantFileNames: []string{"a.jpg", "c.jpg", "d.jpg", "e.jpg"},
			wantUnmatched: 3,
		},
		{
			name:          "glob with prefix",
			opts:          ScanOptions{Pattern: "IMG-*", Recursive: true},
			wantFileNames: []string{"IMG-1.JPG"},
			wantUnmatched: 6,
		},
		{
			name: "exclude keyword on directory component",
			opts: ScanOptions{
				Pattern:         "*.jpg",
				Recursive:       true,
				ExcludeKeywords: []string{"backup"},
			},
			wantFileNames: []string{"a.jpg", "c.jpg", "e.jpg"},
			wantUnmatched: 3,
			wantExcluded:  1,
		},
		{
			name: "exclude keywords are case-sensitive",
			opts: ScanOptions{
				Recursive:       true,
				ExcludeKeywords: []string{"BACKUP", "img"},
			},
			wantFileNames: []string{
				"IMG-1.JPG", "a.jpg", "b.png", "c.jpg", "d.jpg", "e.jpg", "notes.txt",
			},
		},
		{
			name: "empty keywords are ignored",
			opts: ScanOptions{
				Recursive:       false,
				ExcludeKeywords: []string{""},
			},
			wantFileNames: []string{"IMG-1.JPG", "a.jpg", "b.png", "notes.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, result, err := collectPaths(t, context.Background(), tmpDir, tt.opts)
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}

			got := baseNames(paths)
			want := append([]string(nil), tt.wantFileNames...)
			sort.Strings(want)
			if strings.Join(got, ",") != strings.Join(want, ",") {
				t.Errorf("Walk() files = %v, want %v", got, want)
			}
			if result.Matched != len(tt.wantFileNames) {
				t.Errorf("Matched = %d, want %d", result.Matched, len(tt.wantFileNames))
			}
			if result.Unmatched != tt.wantUnmatched {
				t.Errorf("Unmatched = %d, want %d", result.Unmatched, tt.wantUnmatched)
			}
			if result.Excluded != tt.wantExcluded {
				t.Errorf("Excluded = %d, want %d", result.Excluded, tt.wantExcluded)
			}

			for _, f := range paths {
				if !filepath.IsAbs(f) {
					t.Errorf("path %q is not absolute", f)
				}
			}
		})
	}
}

func TestWalk_EmptyDirectory(t *testing.T) {
	paths, result, err := collectPaths(t, context.Background(), t.TempDir(), ScanOptions{Recursive: true})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(paths) != 0 || result.Matched != 0 {
		t.Errorf("expected no files, got %v", paths)
	}
	if result.Errors == nil {
		t.Error("Walk() returned nil error slice, want empty slice")
	}
}

func TestWalk_LexicalOrder(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"z.txt", "m.txt", "a.txt", "sub/b.txt"})

	paths, _, err := collectPaths(t, context.Background(), tmpDir, ScanOptions{Recursive: true})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(paths) != 4 || !sort.StringsAreSorted(paths) {
		t.Errorf("files are not in lexical order: %v", paths)
	}
}

func TestWalk_SymlinkRoot(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"real/a", "real/b"})

	alias := filepath.Join(tmpDir, "alias")
	if err := os.Symlink(filepath.Join(tmpDir, "real"), alias); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	wantRoot, err := filepath.EvalSymlinks(filepath.Join(tmpDir, "real"))
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}

	// Keywords match the resolved path, so the link name never excludes
	paths, result, err := collectPaths(t, context.Background(), alias, ScanOptions{
		Recursive:       true,
		ExcludeKeywords: []string{"alias"},
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if result.Root != wantRoot {
		t.Errorf("Root = %q, want %q", result.Root, wantRoot)
	}
	if got := baseNames(paths); strings.Join(got, ",") != "a,b" {
		t.Errorf("files = %v, want [a b]", got)
	}
	for _, p := range paths {
		if !strings.HasPrefix(p, wantRoot+string(filepath.Separator)) {
			t.Errorf("path %q is not below the resolved root", p)
		}
	}

	root, err := ResolveRoot(alias)
	if err != nil || root != wantRoot {
		t.Errorf("ResolveRoot() = %q, %v, want %q", root, err, wantRoot)
	}
}

func TestWalk_DanglingSymlinkRoot(t *testing.T) {
	tmpDir := t.TempDir()
	alias := filepath.Join(tmpDir, "alias")
	if err := os.Symlink(filepath.Join(tmpDir, "gone"), alias); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, err := ResolveRoot(alias)
	if !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("expected ErrInvalidRoot, got %v", err)
	}
}

func TestWalk_InvalidRoot(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(filePath, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	tests := []struct {
		name string
		dir  string
	}{
		{"non-existent directory", filepath.Join(tmpDir, "missing")},
		{"file instead of directory", filePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := collectPaths(t, context.Background(), tt.dir, ScanOptions{})
			if !errors.Is(err, ErrInvalidRoot) {
				t.Errorf("expected ErrInvalidRoot, got %v", err)
			}
		})
	}
}

func TestWalk_InvalidPattern(t *testing.T) {
	_, _, err := collectPaths(t, context.Background(), t.TempDir(), ScanOptions{Pattern: "[a-"})
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		pattern string
		wantErr bool
	}{
		{"*", false},
		{"*.jpg", false},
		{"img-??.png", false},
		{"[abc]*", false},
		{"[", true},
		{"a[", true},
		{"[z-a", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			err := ValidatePattern(tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePattern(%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
			}
		})
	}
}

func TestWalk_SkipsSymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"real.txt", "dir/inner.txt"})

	if err := os.Symlink(filepath.Join(tmpDir, "real.txt"), filepath.Join(tmpDir, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(tmpDir, "dir"), filepath.Join(tmpDir, "dirlink")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	paths, _, err := collectPaths(t, context.Background(), tmpDir, ScanOptions{Recursive: true})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	got := baseNames(paths)
	if strings.Join(got, ",") != "inner.txt,real.txt" {
		t.Errorf("symlinks should be skipped, got %v", got)
	}
}

func TestWalk_UnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"ok.txt", "locked/hidden.txt"})

	locked := filepath.Join(tmpDir, "locked")
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	defer os.Chmod(locked, 0755)

	var warned []error
	paths, result, err := collectPaths(t, context.Background(), tmpDir, ScanOptions{
		Recursive: true,
		OnError:   func(err error) { warned = append(warned, err) },
	})
	if err != nil {
		t.Fatalf("unreadable subdirectory should not be fatal: %v", err)
	}

	if got := baseNames(paths); strings.Join(got, ",") != "ok.txt" {
		t.Errorf("files = %v, want [ok.txt]", got)
	}
	if len(result.Errors) != 1 || len(warned) != 1 {
		t.Errorf("expected one non-fatal error, got %d (warned %d)", len(result.Errors), len(warned))
	}
}

func TestWalk_VisitErrorStopsWalk(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"a.txt", "b.txt", "c.txt"})

	stop := errors.New("stop")
	visited := 0
	_, err := Walk(context.Background(), tmpDir, ScanOptions{}, func(string, fs.DirEntry) error {
		visited++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("expected visitor error, got %v", err)
	}
	if visited != 1 {
		t.Errorf("visited = %d, want 1", visited)
	}
}

func TestWalk_Cancelled(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"a.txt", "b.txt"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Walk(ctx, tmpDir, ScanOptions{Recursive: true}, func(string, fs.DirEntry) error {
		t.Error("visitor should not be called after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
