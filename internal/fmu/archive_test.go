package fmu

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.fmu")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestUnpack(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"modelDescription.xml":             bouncingBallXML,
		"binaries/linux64/bouncingBall.so": "not a real binary",
		"documentation/index.html":         "<html/>",
	})

	dir, err := Unpack(path)
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	desc, err := LoadDescription(filepath.Join(dir, "modelDescription.xml"))
	require.NoError(t, err)
	assert.Equal(t, "bouncingBall", desc.ModelIdentifier)

	_, err = os.Stat(filepath.Join(dir, "binaries", "linux64", "bouncingBall.so"))
	assert.NoError(t, err)
}

func TestUnpackRejectsEscapingEntries(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"../escape.txt": "outside",
	})

	_, err := Unpack(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes")
}

func TestUnpackNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.fmu")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0644))

	_, err := Unpack(path)
	assert.Error(t, err)
}

func TestBinaryPathLayout(t *testing.T) {
	p := BinaryPath("/tmp/fmu-x", "bouncingBall")
	assert.Contains(t, p, filepath.Join("/tmp/fmu-x", "binaries"))
	assert.Contains(t, filepath.Base(p), "bouncingBall")
}
