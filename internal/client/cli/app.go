package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/client/capture"
	"github.com/dmitrijs2005/linkdrop/internal/client/config"
	"github.com/dmitrijs2005/linkdrop/internal/client/health"
	"github.com/dmitrijs2005/linkdrop/internal/client/models"
	"github.com/dmitrijs2005/linkdrop/internal/client/response"
	"github.com/dmitrijs2005/linkdrop/internal/client/staging"
	"github.com/dmitrijs2005/linkdrop/internal/client/transport"
	"github.com/dmitrijs2005/linkdrop/internal/client/view"
	"github.com/dmitrijs2005/linkdrop/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// controller is the part of staging.Controller the REPL drives.
type controller interface {
	Remove(i int) error
	Submit(ctx context.Context, opts ...staging.SubmitOption) (*staging.Settlement, error)
	Close()
}

// dropZone is the part of capture.Capture the REPL drives.
type dropZone interface {
	Enter()
	Leave()
	Drop(ctx context.Context, payload string) ([]*models.Entry, []capture.Rejection, error)
	Pick(ctx context.Context, paths ...string) ([]*models.Entry, []capture.Rejection, error)
}

type screen interface {
	PrintList()
	PrintNotices()
}

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config *config.Config
	log    logging.Logger

	ctrl    controller
	capture dropZone
	screen  screen
	health  pinger
	closers []func() error

	password *string

	mu   sync.Mutex
	mode Mode
}

// NewApp wires the client for cfg. Output of the staging view goes to out.
func NewApp(cfg *config.Config, log logging.Logger, out io.Writer) (*App, error) {
	tr, err := transport.New(cfg.EndpointURL, transport.Options{
		FieldName:     cfg.FieldName,
		PasswordField: cfg.PasswordField,
		Timeout:       cfg.Timeout,
		ProxyAddr:     cfg.ProxyAddr,
		RateLimit:     int64(cfg.RateLimit),
	})
	if err != nil {
		return nil, err
	}

	policy := staging.RetainOnFailure
	if cfg.FailurePolicy == config.PolicyClear {
		policy = staging.ClearOnFailure
	}

	term := view.NewTerminal(out)
	ctrl := staging.New(tr, term,
		staging.WithDotInterval(cfg.DotInterval),
		staging.WithFailurePolicy(policy),
		staging.WithFailedEntryTTL(cfg.FailedEntryTTL),
		staging.WithLogger(log),
		staging.WithDecoder(response.Decoder{AllowHTML: cfg.AllowHTMLFallback}),
	)

	a := &App{
		config:  cfg,
		log:     log,
		ctrl:    ctrl,
		capture: capture.New(ctrl, term, log),
		screen:  term,
		mode:    ModeDisabled,
	}

	if cfg.HealthAddr != "" {
		checker, err := health.Dial(cfg.HealthAddr)
		if err != nil {
			ctrl.Close()
			return nil, err
		}
		a.health = checker
		a.closers = append(a.closers, checker.Close)
		a.mode = ModeOffline
	}

	return a, nil
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connection status changed", "mode", string(mode))
	}
}

// Run starts the online watcher, if configured, and blocks in the REPL
// reading from in.
func (a *App) Run(ctx context.Context, in io.Reader) {
	defer a.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.health != nil {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	printlnFn("linkdrop upload client (type 'help' for commands)")
	a.screen.PrintList()
	runREPL(ctx, a, a.status, newScanner(in))
}

func (a *App) close() {
	a.ctrl.Close()
	for _, c := range a.closers {
		_ = c()
	}
}

// status is the prompt decoration: endpoint host and connection mode.
func (a *App) status() string {
	host := a.config.EndpointURL
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		host = u.Host
	}
	if m := a.Mode(); m != ModeDisabled {
		return fmt.Sprintf("%s %s", host, m)
	}
	return host
}

// StartOnlineStatusWatcher pings the health service every interval and
// switches between online and offline mode. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	check := func() {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := a.health.Ping(pctx)
		cancel()

		if err != nil {
			a.log.Debug(ctx, "health check failed", "error", err)
			a.setMode(ctx, ModeOffline)
		} else {
			a.setMode(ctx, ModeOnline)
		}
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}
