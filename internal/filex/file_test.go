package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dmitrijs2005/linkdrop/internal/common"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubdDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubdDir("preupload")
	require.NoError(t, err)

	want := filepath.Join(tmp, "preupload")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureSubdDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureSubdDir("preupload")
	require.NoError(t, err)

	second, err := EnsureSubdDir("preupload")
	require.NoError(t, err)

	require.Equal(t, first, second)
	fi, err := os.Stat(second)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureSubdDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("preupload", []byte("x"), 0o660))

	_, err := EnsureSubdDir("preupload")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{`C:\Users\me\notes.txt`, "C_Users_me_notes.txt"},
		{"i contain cool \xc3\xbcml\xc3\xa4uts.txt", "i_contain_cool_mluts.txt"},
		{"...", ""},
		{"  spaced   out  ", "spaced_out"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, SecureFilename(tt.in))
		})
	}
}

func TestResolveWithin(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "inbox", "team"), 0o755))
	outside := t.TempDir()

	got, err := ResolveWithin(base, "inbox/team")
	require.NoError(t, err)
	realBase, _ := filepath.EvalSymlinks(base)
	require.Equal(t, filepath.Join(realBase, "inbox", "team"), got)

	_, err = ResolveWithin(base, "../"+filepath.Base(outside))
	require.ErrorIs(t, err, common.ErrInvalidPath)

	_, err = ResolveWithin(base, "missing")
	require.ErrorIs(t, err, common.ErrInvalidPath)

	if runtime.GOOS != "windows" {
		link := filepath.Join(base, "escape")
		require.NoError(t, os.Symlink(outside, link))
		_, err = ResolveWithin(base, "escape")
		require.ErrorIs(t, err, common.ErrInvalidPath)
	}
}

func TestAvailableSpace(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("not supported")
	}
	n, err := AvailableSpace(t.TempDir())
	require.NoError(t, err)
	require.Greater(t, n, int64(0))
}
