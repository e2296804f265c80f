package finder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// HashBufferSize is the read buffer used when streaming a file into the digest
const HashBufferSize = 64 * 1024

// contextReader stops a copy once its context is cancelled
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

// HashFile returns the lowercase hex SHA-256 digest of the file at path.
// The file is streamed through buf, which must be non-empty.
func HashFile(ctx context.Context, path string, buf []byte) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.CopyBuffer(hasher, contextReader{ctx: ctx, r: file}, buf); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
