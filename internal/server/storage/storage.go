// Package storage holds the upload backends: files on the local disk or
// objects in an S3 compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
)

// chunkSize is the copy buffer used when streaming an upload.
const chunkSize = 32 * 1024

var (
	ErrExists            = errors.New("file already exists")
	ErrInsufficientSpace = errors.New("not enough disk space")
)

// Store saves uploaded files into a link folder. folder is the absolute
// folder of the link; name is already sanitised.
type Store interface {
	Exists(ctx context.Context, folder, name string) (bool, error)
	// CheckSpace returns ErrInsufficientSpace when size bytes do not fit.
	CheckSpace(ctx context.Context, folder string, size int64) error
	// Save streams r to folder/name and returns the number of bytes stored.
	// An existing file yields ErrExists and is left untouched.
	Save(ctx context.Context, folder, name string, r io.Reader) (int64, error)
}

// copyChunks copies src to dst in chunkSize pieces, stopping early when ctx
// is cancelled.
func copyChunks(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)
			if werr != nil {
				return written, werr
			}
			if w != n {
				return written, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
