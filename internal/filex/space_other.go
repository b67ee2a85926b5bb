//go:build !unix

package filex

import "errors"

// AvailableSpace is not implemented on this platform.
func AvailableSpace(path string) (int64, error) {
	return 0, errors.New("available space: unsupported platform")
}
