// Package filex collects the filesystem helpers of the upload server:
// directory bootstrap, filename sanitising, base-path confinement and the
// free-space probe.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/linkdrop/internal/common"
)

// EnsureSubdDir creates dirName under the current working directory if it
// does not exist yet and returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces a client supplied filename to a flat ASCII name
// that is safe to join to a folder: path separators become underscores,
// whitespace runs collapse to one underscore, anything outside
// [A-Za-z0-9_.-] is dropped, and leading/trailing dots and underscores are
// trimmed. The result may be empty, callers must treat that as invalid.
func SecureFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// ResolveWithin joins rel to base and resolves symlinks on both sides.
// It returns common.ErrInvalidPath when the resolved target escapes base.
// The target must exist.
func ResolveWithin(base, rel string) (string, error) {
	realBase, err := filepath.EvalSymlinks(base)
	if err != nil {
		return "", fmt.Errorf("resolve base %s: %w", base, err)
	}
	realBase, err = filepath.Abs(realBase)
	if err != nil {
		return "", err
	}

	target := rel
	if !filepath.IsAbs(target) {
		target = filepath.Join(realBase, rel)
	}
	realTarget, err := filepath.EvalSymlinks(target)
	if err != nil {
		return "", fmt.Errorf("%w: %s", common.ErrInvalidPath, err)
	}

	r, err := filepath.Rel(realBase, realTarget)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside %s", common.ErrInvalidPath, realTarget, realBase)
	}
	return realTarget, nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
