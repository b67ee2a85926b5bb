// Package transport sends a staged submission as one multipart POST and
// reports byte progress while the body is streamed.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/client/models"
	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"
)

// maxResponseBytes caps how much of a response body is kept in memory.
const maxResponseBytes = 8 << 20

// Request is one submission: the files to send plus an optional password.
// A nil Password means the password field is omitted altogether.
type Request struct {
	Files    []*models.Entry
	Password *string
}

// Response is what came back from the server. It exists only when the
// server answered; transport failures are returned as errors instead.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// FileError means a staged file could not be read while the body was
// written, so the request was aborted. Index is the position in
// Request.Files.
type FileError struct {
	Index int
	Name  string
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Name, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// ProgressFunc receives the number of body bytes handed to the network so
// far and the total body size.
type ProgressFunc func(loaded, total int64)

// Options tune the HTTP transport.
type Options struct {
	// FieldName is the multipart field shared by all files.
	FieldName string
	// PasswordField is the multipart field carrying the password.
	PasswordField string
	// Timeout bounds the wait for response headers once the body is sent.
	Timeout time.Duration
	// ProxyAddr routes connections through a SOCKS5 proxy when set.
	ProxyAddr string
	// RateLimit caps the upload speed in bytes per second; 0 is unlimited.
	RateLimit int64
}

// DefaultOptions matches the field names of the upload server.
func DefaultOptions() Options {
	return Options{
		FieldName:     "file",
		PasswordField: "link_password",
		Timeout:       90 * time.Second,
	}
}

// HTTPTransport posts submissions to a fixed endpoint.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
	opts     Options
	limiter  *rate.Limiter
}

// New builds a transport for endpoint.
func New(endpoint string, opts Options) (*HTTPTransport, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("transport: empty endpoint")
	}
	if opts.FieldName == "" {
		opts.FieldName = "file"
	}
	if opts.PasswordField == "" {
		opts.PasswordField = "link_password"
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.ResponseHeaderTimeout = opts.Timeout

	if opts.ProxyAddr != "" {
		dialer, err := proxy.SOCKS5("tcp", opts.ProxyAddr, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("transport: socks5 proxy: %w", err)
		}
		tr.Proxy = nil
		tr.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	}

	t := &HTTPTransport{
		endpoint: endpoint,
		client:   &http.Client{Transport: tr},
		opts:     opts,
	}
	if opts.RateLimit > 0 {
		burst := chunkSize
		if opts.RateLimit < int64(burst) {
			burst = int(opts.RateLimit)
		}
		t.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return t, nil
}

// Endpoint returns the URL submissions are posted to.
func (t *HTTPTransport) Endpoint() string {
	return t.endpoint
}

// Send streams req to the endpoint. progress, if not nil, is called from the
// goroutine that writes the request body.
//
// An error is returned only when no response was received (network failure,
// cancellation, a *FileError for a staged file that could not be read); any
// HTTP status is reported through Response.
func (t *HTTPTransport) Send(ctx context.Context, req *Request, progress ProgressFunc) (*Response, error) {
	boundary := multipart.NewWriter(io.Discard).Boundary()

	total, err := contentLength(req, boundary, t.opts)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	writeErr := make(chan error, 1)
	go func() {
		err := writeBody(pw, req, boundary, t.opts)
		writeErr <- err
		pw.CloseWithError(err)
	}()

	body := &progressReader{
		ctx:      ctx,
		r:        pr,
		total:    total,
		progress: progress,
		limiter:  t.limiter,
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, body)
	if err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	httpReq.ContentLength = total
	httpReq.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	httpReq.Header.Set("Accept", "application/json")

	if progress != nil {
		progress(0, total)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		pr.CloseWithError(err)
		// a body that failed locally is reported as such, not as a
		// network failure
		select {
		case werr := <-writeErr:
			var fe *FileError
			if errors.As(werr, &fe) {
				return nil, fe
			}
		default:
		}
		return nil, err
	}
	defer resp.Body.Close()
	// A server may answer before consuming the whole body (403, 413).
	pr.CloseWithError(io.ErrClosedPipe)

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("transport: read response: %w", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        b,
	}, nil
}
