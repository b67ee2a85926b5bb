package capture

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/linkdrop/internal/client/models"
)

var (
	ErrTooLarge       = errors.New("file too large")
	ErrTypeNotAllowed = errors.New("file type not allowed")
)

// MaxSize rejects entries larger than limit bytes.
func MaxSize(limit int64) Filter {
	return func(e *models.Entry) error {
		if e.Size > limit {
			return fmt.Errorf("%w: %s over %s", ErrTooLarge, humanize.Bytes(uint64(e.Size)), humanize.Bytes(uint64(limit)))
		}
		return nil
	}
}

// Extensions accepts only names with one of exts (".pdf" or "pdf"), case
// insensitive.
func Extensions(exts ...string) Filter {
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed["."+strings.TrimPrefix(strings.ToLower(e), ".")] = true
	}
	return func(e *models.Entry) error {
		if !allowed[strings.ToLower(filepath.Ext(e.Name))] {
			return fmt.Errorf("%w: %s", ErrTypeNotAllowed, e.Name)
		}
		return nil
	}
}
