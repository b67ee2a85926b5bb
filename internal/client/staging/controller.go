package staging

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/client/models"
	"github.com/dmitrijs2005/linkdrop/internal/client/transport"
	"github.com/dmitrijs2005/linkdrop/internal/logging"
)

// Notice texts shown by the controller itself.
const (
	NoticeEmptySelection  = "No files selected for upload"
	NoticeInvalidPassword = "Invalid password, try again"
	NoticeHTTPFailure     = "Upload failed (HTTP %d)"
	NoticeNetworkError    = "Network error: upload did not complete"
	NoticeProtocolError   = "Unexpected response from server"
	NoticeCanceled        = "Upload cancelled"
	NoticeFileUnreadable  = "Could not read %s, nothing was uploaded"
)

var errNoResponse = errors.New("sender returned neither a response nor an error")

// State is the submission phase of a Controller.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateProcessing:
		return "processing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Kind classifies how a submission settled.
type Kind int

const (
	KindSuccess Kind = iota
	KindPartialFailure
	KindFailure
	KindNetworkError
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindPartialFailure:
		return "partial failure"
	case KindFailure:
		return "failure"
	case KindNetworkError:
		return "network error"
	case KindCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Settlement describes a finished submission.
type Settlement struct {
	Kind Kind
	// StatusCode is 0 when no response arrived.
	StatusCode int
	// Err is one of *HTTPError, *ProtocolError, *NetworkError or a context
	// error for whole-request failures, nil otherwise.
	Err       error
	Notices   []models.Notice
	Succeeded int
	Failed    int
}

// Controller owns the staging list and the submission state machine.
// All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	sender Sender
	view   View
	opts   Options
	log    logging.Logger

	entries []*models.Entry
	notices []models.Notice
	state   State
	closed  bool

	// submission bookkeeping, valid while inflight
	inflight    bool
	generation  uint64
	cancel      context.CancelFunc
	lastPercent int
	dots        *Animation

	expiry *time.Timer
}

// New returns an idle controller with an empty list and renders it once.
func New(sender Sender, view View, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.DotInterval <= 0 {
		o.DotInterval = DefaultDotInterval
	}

	c := &Controller{
		sender: sender,
		view:   view,
		opts:   o,
		log:    o.Logger.With("component", "staging"),
	}

	c.mu.Lock()
	c.renderLocked()
	c.view.SetSubmitEnabled(true)
	c.mu.Unlock()

	return c
}

// Add appends entries in order. Entries may be added while a submission is
// in flight; they are not part of it.
func (c *Controller) Add(entries ...*models.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if len(entries) == 0 {
		return nil
	}

	c.entries = append(c.entries, entries...)
	c.renderLocked()
	return nil
}

// Remove deletes the entry at position i, preserving the order of the rest.
func (c *Controller) Remove(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if i < 0 || i >= len(c.entries) {
		return ErrIndexOutOfRange
	}
	if c.entries[i].Status == models.StatusUploading {
		return ErrEntryBusy
	}

	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	c.renderLocked()
	return nil
}

// Entries returns a snapshot of the staging list.
func (c *Controller) Entries() []models.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = *e
	}
	return out
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Notices returns the notices currently on display.
func (c *Controller) Notices() []models.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Notice(nil), c.notices...)
}

// Submit sends every staged entry in one request and blocks until the
// submission settles. It returns an error only when the submission was not
// started; request failures are reported through the Settlement.
func (c *Controller) Submit(ctx context.Context, opts ...SubmitOption) (*Settlement, error) {
	var so submitOptions
	for _, opt := range opts {
		opt(&so)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.inflight {
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if len(c.entries) == 0 {
		c.showNoticesLocked([]models.Notice{{Category: models.CategoryError, Text: NoticeEmptySelection}})
		c.mu.Unlock()
		return nil, ErrEmptySelection
	}

	c.stopExpiryLocked()

	batch := append([]*models.Entry(nil), c.entries...)
	for _, e := range batch {
		e.Status = models.StatusUploading
		e.Reason = ""
	}

	ctx, cancel := context.WithCancel(ctx)
	c.generation++
	gen := c.generation
	c.inflight = true
	c.cancel = cancel
	c.lastPercent = -1
	c.state = StateSubmitting

	c.view.SetSubmitEnabled(false)
	c.renderLocked()
	c.mu.Unlock()

	c.log.Info(ctx, "submission started", "files", len(batch), "password", so.password != nil)

	req := &transport.Request{Files: batch, Password: so.password}
	resp, err := c.sender.Send(ctx, req, func(loaded, total int64) {
		c.onProgress(gen, loaded, total)
	})

	if err == nil && resp == nil {
		err = errNoResponse
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.resetLocked()

	s := c.settleLocked(ctx, batch, resp, err)
	c.log.Info(ctx, "submission settled",
		"kind", s.Kind.String(),
		"status", s.StatusCode,
		"succeeded", s.Succeeded,
		"failed", s.Failed,
	)
	return s, nil
}

// Cancel aborts the submission in flight. It reports whether there was one.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.inflight || c.cancel == nil {
		return false
	}
	c.cancel()
	return true
}

// Close aborts any submission and stops every timer. The controller cannot
// be used afterwards. A Submit still in flight returns its Settlement but no
// longer touches the view or arms the expiry timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	c.stopExpiryLocked()
	c.stopDotsLocked()
}

func percentOf(loaded, total int64) int {
	if loaded >= total {
		return 100
	}
	if loaded <= 0 {
		return 0
	}
	p := int(math.Round(float64(loaded) * 100 / float64(total)))
	// 100 is only reported once every byte is out
	if p > 99 {
		p = 99
	}
	return p
}

func (c *Controller) onProgress(gen uint64, loaded, total int64) {
	if total <= 0 {
		return
	}
	pct := percentOf(loaded, total)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.inflight || c.generation != gen || c.state == StateIdle {
		return
	}
	if pct <= c.lastPercent {
		return
	}
	c.lastPercent = pct
	c.view.SetProgress(pct)

	if pct == 100 && c.state == StateSubmitting {
		c.state = StateProcessing
		c.view.SetProcessing(true)
		c.startDotsLocked(gen)
	}
}

func (c *Controller) startDotsLocked(gen uint64) {
	c.stopDotsLocked()
	c.dots = startAnimation(c.opts.DotInterval, func(a *Animation, n int) {
		c.mu.Lock()
		defer c.mu.Unlock()
		// frames of a stopped animation must not reach the view
		if c.dots != a || c.generation != gen {
			return
		}
		c.view.SetDots(n)
	})
}

func (c *Controller) stopDotsLocked() {
	if c.dots == nil {
		return
	}
	c.dots.Stop()
	c.dots = nil
}

// resetLocked returns every indicator to idle. It runs on every settlement
// path.
func (c *Controller) resetLocked() {
	hadDots := c.dots != nil
	c.stopDotsLocked()
	if !c.closed {
		if hadDots {
			c.view.SetDots(0)
		}
		if c.state == StateProcessing {
			c.view.SetProcessing(false)
		}
		c.view.SetSubmitEnabled(true)
		c.view.SetProgress(0)
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.inflight = false
	c.state = StateIdle
	c.renderLocked()
}

func (c *Controller) settleLocked(ctx context.Context, batch []*models.Entry, resp *transport.Response, err error) *Settlement {
	s := &Settlement{}
	var fileErr *transport.FileError

	switch {
	case err != nil && ctx.Err() != nil:
		s.Kind = KindCanceled
		s.Err = ctx.Err()
		s.Notices = []models.Notice{{Category: models.CategoryError, Text: NoticeCanceled}}
		c.failBatchLocked(batch, "Cancelled")
		s.Failed = len(batch)

	case errors.As(err, &fileErr):
		s.Kind = KindFailure
		s.Err = fileErr
		s.Notices = []models.Notice{{Category: models.CategoryError, Text: fmt.Sprintf(NoticeFileUnreadable, fileErr.Name)}}
		s.Failed = len(batch)
		c.failFileLocked(batch, fileErr.Index)
		c.log.Warn(ctx, "staged file unreadable", "file", fileErr.Name, "error", fileErr.Err)

	case err != nil:
		s.Kind = KindNetworkError
		s.Err = &NetworkError{Err: err}
		s.Notices = []models.Notice{{Category: models.CategoryError, Text: NoticeNetworkError}}
		s.Failed = len(batch)
		c.failBatchLocked(batch, "Network error")
		c.log.Warn(ctx, "upload request failed", "error", err)

	case resp.StatusCode == 403:
		// server text is ignored: the password hint is the whole message
		s.Kind = KindFailure
		s.StatusCode = resp.StatusCode
		s.Err = &HTTPError{StatusCode: resp.StatusCode}
		s.Notices = []models.Notice{{Category: models.CategoryError, Text: NoticeInvalidPassword}}
		s.Failed = len(batch)
		c.failBatchLocked(batch, "Invalid password")

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		s.Kind = KindFailure
		s.StatusCode = resp.StatusCode
		s.Err = &HTTPError{StatusCode: resp.StatusCode}
		s.Notices = []models.Notice{{Category: models.CategoryError, Text: fmt.Sprintf(NoticeHTTPFailure, resp.StatusCode)}}
		s.Failed = len(batch)
		c.failBatchLocked(batch, fmt.Sprintf("HTTP %d", resp.StatusCode))

	default:
		s.StatusCode = resp.StatusCode
		result, derr := c.opts.Decoder.Decode(resp)
		if derr != nil {
			c.log.Error(ctx, "undecodable upload response",
				"status", resp.StatusCode,
				"content_type", resp.ContentType,
				"payload", string(resp.Body),
				"error", derr,
			)
			s.Kind = KindFailure
			s.Err = &ProtocolError{Payload: resp.Body, Err: derr}
			s.Notices = []models.Notice{{Category: models.CategoryError, Text: NoticeProtocolError}}
			s.Failed = len(batch)
			c.failBatchLocked(batch, "Unexpected response")
			break
		}
		if result.Reload {
			c.log.Debug(ctx, "response carried no notices, treating as success")
		}
		c.applyResultLocked(s, batch, result)
	}

	c.showNoticesLocked(s.Notices)
	return s
}

// applyResultLocked matches per-file outcomes to the batch by filename in
// order. Entries without an outcome take the top-level flag.
func (c *Controller) applyResultLocked(s *Settlement, batch []*models.Entry, result *models.Result) {
	matched := make([]*models.FileOutcome, len(batch))
	for i := range result.Outcomes {
		o := &result.Outcomes[i]
		for j, e := range batch {
			if matched[j] == nil && e.Name == o.Filename {
				matched[j] = o
				break
			}
		}
	}

	done := make(map[*models.Entry]bool, len(batch))
	for i, e := range batch {
		ok := result.Success
		reason := "Upload failed"
		if o := matched[i]; o != nil {
			ok = o.Success
			if o.Message != "" {
				reason = o.Message
			}
		}

		if ok {
			e.Status = models.StatusSucceeded
			e.Reason = ""
			done[e] = true
			s.Succeeded++
		} else {
			e.MarkFailed(reason)
			s.Failed++
		}
	}

	c.entries = without(c.entries, func(e *models.Entry) bool { return done[e] })

	switch {
	case s.Failed == 0:
		s.Kind = KindSuccess
	case s.Succeeded == 0:
		s.Kind = KindFailure
	default:
		s.Kind = KindPartialFailure
	}
	s.Notices = append([]models.Notice(nil), result.Notices...)

	if s.Failed > 0 {
		c.scheduleExpiryLocked()
	}
}

// failFileLocked fails a batch that was aborted because batch[idx] could not
// be read. The other entries were never sent.
func (c *Controller) failFileLocked(batch []*models.Entry, idx int) {
	c.failBatchLocked(batch, "Not sent")
	if c.opts.FailurePolicy == ClearOnFailure || idx < 0 || idx >= len(batch) {
		return
	}
	batch[idx].MarkFailed("Could not read file")
}

// failBatchLocked applies the failure policy to a whole batch.
func (c *Controller) failBatchLocked(batch []*models.Entry, reason string) {
	if c.opts.FailurePolicy == ClearOnFailure {
		in := make(map[*models.Entry]bool, len(batch))
		for _, e := range batch {
			in[e] = true
		}
		c.entries = without(c.entries, func(e *models.Entry) bool { return in[e] })
		return
	}

	for _, e := range batch {
		e.MarkFailed(reason)
	}
	c.scheduleExpiryLocked()
}

func (c *Controller) scheduleExpiryLocked() {
	if c.closed || c.opts.FailedEntryTTL <= 0 {
		return
	}
	c.stopExpiryLocked()

	var t *time.Timer
	t = time.AfterFunc(c.opts.FailedEntryTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.expiry != t || c.closed {
			return
		}
		c.expiry = nil
		c.entries = without(c.entries, func(e *models.Entry) bool { return e.Status == models.StatusFailed })
		c.renderLocked()
	})
	c.expiry = t
}

func (c *Controller) stopExpiryLocked() {
	if c.expiry != nil {
		c.expiry.Stop()
		c.expiry = nil
	}
}

func (c *Controller) showNoticesLocked(n []models.Notice) {
	c.notices = append([]models.Notice(nil), n...)
	if c.closed {
		return
	}
	c.view.ShowNotices(append([]models.Notice(nil), n...))
}

func (c *Controller) renderLocked() {
	if c.closed {
		return
	}
	c.view.RenderList(Rows(c.entries), len(c.entries) > 0)
}

func without(entries []*models.Entry, drop func(*models.Entry) bool) []*models.Entry {
	out := entries[:0]
	for _, e := range entries {
		if !drop(e) {
			out = append(out, e)
		}
	}
	// clear the tail so dropped entries can be collected
	for i := len(out); i < len(entries); i++ {
		entries[i] = nil
	}
	return out
}

// IsCanceled reports whether err came from Cancel or a done context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
