package staging

import (
	"context"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/client/models"
	"github.com/dmitrijs2005/linkdrop/internal/client/response"
	"github.com/dmitrijs2005/linkdrop/internal/client/transport"
	"github.com/dmitrijs2005/linkdrop/internal/logging"
)

// DefaultDotInterval is the period of the processing dots animation.
const DefaultDotInterval = 500 * time.Millisecond

// Sender performs one multipart submission. transport.HTTPTransport is the
// production implementation. Send returns either a response or an error; a
// nil response with a nil error is treated as a network failure.
type Sender interface {
	Send(ctx context.Context, req *transport.Request, progress transport.ProgressFunc) (*transport.Response, error)
}

// ResultDecoder turns a 2xx response into a Result.
type ResultDecoder interface {
	Decode(resp *transport.Response) (*models.Result, error)
}

// FailurePolicy decides what happens to the staged files of a submission
// that failed as a whole (network error, non-2xx, undecodable body).
type FailurePolicy int

const (
	// RetainOnFailure keeps the files, marked Failed, so they can be resent.
	RetainOnFailure FailurePolicy = iota
	// ClearOnFailure drops them from the list.
	ClearOnFailure
)

func (p FailurePolicy) String() string {
	if p == ClearOnFailure {
		return "clear"
	}
	return "retain"
}

// Options configures a Controller.
type Options struct {
	DotInterval   time.Duration
	FailurePolicy FailurePolicy
	// FailedEntryTTL drops Failed entries from the list after this delay.
	// Zero keeps them until removed or resubmitted.
	FailedEntryTTL time.Duration
	Logger         logging.Logger
	Decoder        ResultDecoder
}

type Option func(*Options)

func WithDotInterval(d time.Duration) Option {
	return func(o *Options) { o.DotInterval = d }
}

func WithFailurePolicy(p FailurePolicy) Option {
	return func(o *Options) { o.FailurePolicy = p }
}

func WithFailedEntryTTL(d time.Duration) Option {
	return func(o *Options) { o.FailedEntryTTL = d }
}

func WithLogger(l logging.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func WithDecoder(d ResultDecoder) Option {
	return func(o *Options) { o.Decoder = d }
}

func defaultOptions() Options {
	return Options{
		DotInterval:   DefaultDotInterval,
		FailurePolicy: RetainOnFailure,
		Logger:        logging.Discard(),
		Decoder:       response.Decoder{},
	}
}

type submitOptions struct {
	password *string
}

// SubmitOption tunes a single Submit call.
type SubmitOption func(*submitOptions)

// WithPassword sends the link password alongside the files. An empty
// password is still sent as an empty field.
func WithPassword(password string) SubmitOption {
	return func(o *submitOptions) { o.password = &password }
}
