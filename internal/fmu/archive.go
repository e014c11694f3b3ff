package fmu

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Unpack extracts the packaged model at fmuPath into a fresh temporary
// directory and returns its path. The caller removes the directory when done.
func Unpack(fmuPath string) (string, error) {
	r, err := zip.OpenReader(fmuPath)
	if err != nil {
		return "", fmt.Errorf("fmu: open %s: %w", fmuPath, err)
	}
	defer r.Close()

	dir, err := os.MkdirTemp("", "fmu-")
	if err != nil {
		return "", err
	}

	for _, f := range r.File {
		if err := extractFile(f, dir); err != nil {
			os.RemoveAll(dir)
			return "", err
		}
	}
	return dir, nil
}

func extractFile(f *zip.File, dir string) error {
	dest := filepath.Join(dir, filepath.FromSlash(f.Name))
	// reject entries escaping the extraction dir
	if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
		return fmt.Errorf("fmu: archive entry %q escapes extraction directory", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
