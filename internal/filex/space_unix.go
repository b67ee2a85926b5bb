//go:build unix

package filex

import "golang.org/x/sys/unix"

// AvailableSpace returns the number of bytes available to an unprivileged
// user on the filesystem holding path.
func AvailableSpace(path string) (int64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return int64(st.Bavail) * int64(st.Bsize), nil
}
