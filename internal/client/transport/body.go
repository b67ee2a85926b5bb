package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"golang.org/x/time/rate"
)

// chunkSize is the largest read handed to the network at once.
const chunkSize = 32 * 1024

type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

// contentLength lays out the multipart framing without reading any file, so
// the request can carry an exact Content-Length. The part order must match
// writeBody.
func contentLength(req *Request, boundary string, opts Options) (int64, error) {
	cw := &countingWriter{}
	mw := multipart.NewWriter(cw)
	if err := mw.SetBoundary(boundary); err != nil {
		return 0, err
	}

	if req.Password != nil {
		if err := mw.WriteField(opts.PasswordField, *req.Password); err != nil {
			return 0, err
		}
	}
	for _, f := range req.Files {
		if _, err := mw.CreateFormFile(opts.FieldName, f.Name); err != nil {
			return 0, err
		}
		cw.n += f.Size
	}
	if err := mw.Close(); err != nil {
		return 0, err
	}
	return cw.n, nil
}

func writeBody(w io.Writer, req *Request, boundary string, opts Options) error {
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(boundary); err != nil {
		return err
	}

	// The password goes first so the server can check it before storing
	// any file.
	if req.Password != nil {
		if err := mw.WriteField(opts.PasswordField, *req.Password); err != nil {
			return err
		}
	}
	for i, f := range req.Files {
		part, err := mw.CreateFormFile(opts.FieldName, f.Name)
		if err != nil {
			return err
		}
		if err := copyEntry(part, f.Size, f.Open); err != nil {
			var re *readError
			if errors.As(err, &re) {
				return &FileError{Index: i, Name: f.Name, Err: re.err}
			}
			return err
		}
	}
	return mw.Close()
}

// readError marks a failure on the file side of a copy, as opposed to the
// pipe the body is written to.
type readError struct {
	err error
}

func (e *readError) Error() string { return e.err.Error() }

type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}

func copyEntry(dst io.Writer, size int64, open func() (io.ReadCloser, error)) error {
	rc, err := open()
	if err != nil {
		return &readError{fmt.Errorf("open: %w", err)}
	}
	defer rc.Close()

	// Exactly size bytes, the announced Content-Length depends on it.
	src := &sourceReader{r: rc}
	n, err := io.CopyN(dst, src, size)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return &readError{fmt.Errorf("file shrank to %d of %d bytes since it was staged", n, size)}
	case src.err != nil:
		return &readError{fmt.Errorf("read after %d of %d bytes: %w", n, size, src.err)}
	}
	return err
}

// progressReader reports how much of the body the HTTP client has pulled and
// optionally throttles it.
type progressReader struct {
	ctx      context.Context
	r        io.Reader
	loaded   int64
	total    int64
	progress ProgressFunc
	limiter  *rate.Limiter
}

func (p *progressReader) Read(b []byte) (int, error) {
	if p.limiter != nil && len(b) > p.limiter.Burst() {
		b = b[:p.limiter.Burst()]
	} else if len(b) > chunkSize {
		b = b[:chunkSize]
	}

	n, err := p.r.Read(b)
	if n > 0 {
		if p.limiter != nil {
			if werr := p.limiter.WaitN(p.ctx, n); werr != nil {
				return n, werr
			}
		}
		p.loaded += int64(n)
		if p.progress != nil {
			p.progress(p.loaded, p.total)
		}
	}
	return n, err
}
