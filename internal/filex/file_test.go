package filex

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"relative", "photos", filepath.Join(tmp, "photos")},
		{"relative again", "photos", filepath.Join(tmp, "photos")},
		{"absolute nested", filepath.Join(tmp, "a", "b"), filepath.Join(tmp, "a", "b")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EnsureDir(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			fi, err := os.Stat(got)
			require.NoError(t, err)
			assert.True(t, fi.IsDir())
		})
	}
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	p := filepath.Join(t.TempDir(), "photos")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))

	_, err := EnsureDir(p)
	assert.Error(t, err)
}

func TestWriteAtomic(t *testing.T) {
	p := filepath.Join(t.TempDir(), "p1", "r1", "img.jpg")

	n, err := WriteAtomic(p, strings.NewReader("first"))
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	_, err = WriteAtomic(p, strings.NewReader("second"))
	require.NoError(t, err)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("camera gone") }

func TestWriteAtomic_FailedCopyKeepsOldFileAndNoTemp(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "img.jpg")
	require.NoError(t, os.WriteFile(p, []byte("old"), 0o600))

	_, err := WriteAtomic(p, io.MultiReader(strings.NewReader("half"), failingReader{}))
	require.ErrorContains(t, err, "camera gone")

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "old", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
