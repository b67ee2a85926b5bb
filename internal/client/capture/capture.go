package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/linkdrop/internal/client/models"
	"github.com/dmitrijs2005/linkdrop/internal/logging"
)

// Sink receives accepted entries. staging.Controller is one.
type Sink interface {
	Add(entries ...*models.Entry) error
}

// Highlighter shows whether a drag is hovering over the drop zone.
type Highlighter interface {
	SetHighlight(on bool)
}

// Filter rejects an entry by returning an error.
type Filter func(*models.Entry) error

// Rejection is a path that did not make it into the staging list.
type Rejection struct {
	Path string
	Err  error
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s: %v", r.Path, r.Err)
}

// Capture is the drop zone and picker of one staging list.
type Capture struct {
	mu sync.Mutex

	sink        Sink
	highlighter Highlighter
	filters     []Filter
	log         logging.Logger

	highlighted bool
}

func New(sink Sink, highlighter Highlighter, log logging.Logger, filters ...Filter) *Capture {
	return &Capture{
		sink:        sink,
		highlighter: highlighter,
		filters:     filters,
		log:         log,
	}
}

// Enter highlights the drop zone.
func (c *Capture) Enter() {
	c.setHighlight(true)
}

// Leave removes the highlight without dropping anything.
func (c *Capture) Leave() {
	c.setHighlight(false)
}

func (c *Capture) Highlighted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlighted
}

func (c *Capture) setHighlight(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.highlighted == on {
		return
	}
	c.highlighted = on
	c.highlighter.SetHighlight(on)
}

// Drop clears the highlight and stages the paths found in payload.
func (c *Capture) Drop(ctx context.Context, payload string) ([]*models.Entry, []Rejection, error) {
	c.setHighlight(false)

	paths, err := SplitPaste(payload)
	if err != nil {
		return nil, nil, err
	}
	return c.stage(ctx, paths, false)
}

// Pick stages paths. Directories contribute their regular files (one level
// deep) and patterns with glob metacharacters are expanded.
func (c *Capture) Pick(ctx context.Context, paths ...string) ([]*models.Entry, []Rejection, error) {
	return c.stage(ctx, paths, true)
}

func (c *Capture) stage(ctx context.Context, paths []string, expand bool) ([]*models.Entry, []Rejection, error) {
	var (
		accepted []*models.Entry
		rejected []Rejection
	)

	for _, p := range paths {
		candidates := []string{p}
		if expand {
			var err error
			candidates, err = expandPath(p)
			if err != nil {
				rejected = append(rejected, Rejection{Path: p, Err: err})
				continue
			}
		}

		for _, path := range candidates {
			e, err := models.NewFileEntry(path)
			if err == nil {
				err = c.check(e)
			}
			if err != nil {
				rejected = append(rejected, Rejection{Path: path, Err: err})
				continue
			}
			accepted = append(accepted, e)
		}
	}

	for _, r := range rejected {
		c.log.Debug(ctx, "path rejected", "path", r.Path, "error", r.Err)
	}
	if len(accepted) == 0 {
		return nil, rejected, nil
	}
	if err := c.sink.Add(accepted...); err != nil {
		return nil, rejected, fmt.Errorf("stage files: %w", err)
	}
	return accepted, rejected, nil
}

func (c *Capture) check(e *models.Entry) error {
	for _, f := range c.filters {
		if err := f(e); err != nil {
			return err
		}
	}
	return nil
}

var errNoMatch = errors.New("no files match")

func expandPath(p string) ([]string, error) {
	if strings.ContainsAny(p, "*?[") {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern: %w", err)
		}
		if len(matches) == 0 {
			return nil, errNoMatch
		}
		return matches, nil
	}

	fi, err := os.Stat(p)
	if err != nil || !fi.IsDir() {
		// NewFileEntry reports the error
		return []string{p}, nil
	}

	dirEntries, err := os.ReadDir(p)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var files []string
	for _, de := range dirEntries {
		if de.Type().IsRegular() {
			files = append(files, filepath.Join(p, de.Name()))
		}
	}
	if len(files) == 0 {
		return nil, errNoMatch
	}
	sort.Strings(files)
	return files, nil
}
