// Package fmu handles the packaged model unit: unpacking the archive, parsing
// its model description and loading the native binary behind the fmi
// capability set.
package fmu

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/san-kum/fmusim/internal/fmi"
)

const descriptionFile = "modelDescription.xml"

// FMU is a fully loaded model unit: parsed description plus an instantiated
// native model. The simulation loop owns the instance and frees it; Close
// releases everything else (library handle, unpacked files).
type FMU struct {
	Description *Description
	Model       *fmi.Instance

	lib *fmi.Library
	dir string
}

// Load unpacks the archive at path, parses its description, loads the
// platform binary and instantiates the model once.
func Load(path string, loggingOn bool) (*FMU, error) {
	dir, err := Unpack(path)
	if err != nil {
		return nil, err
	}

	desc, err := LoadDescription(filepath.Join(dir, descriptionFile))
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	lib, err := fmi.Open(BinaryPath(dir, desc.ModelIdentifier), desc.ModelIdentifier)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	model, err := lib.Instantiate(desc.ModelIdentifier, desc.GUID, loggingOn)
	if err != nil {
		lib.Close()
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w (%s)", err, desc.ModelIdentifier)
	}

	return &FMU{Description: desc, Model: model, lib: lib, dir: dir}, nil
}

// Close unloads the model binary and removes the unpacked files. The model
// instance itself must already have been freed by its owner.
func (f *FMU) Close() error {
	var err error
	if f.lib != nil {
		err = f.lib.Close()
		f.lib = nil
	}
	if f.dir != "" {
		if rmErr := os.RemoveAll(f.dir); err == nil {
			err = rmErr
		}
		f.dir = ""
	}
	return err
}

// Describe unpacks just far enough to parse the model description, without
// loading the binary or instantiating anything.
func Describe(path string) (*Description, error) {
	dir, err := Unpack(path)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	return LoadDescription(filepath.Join(dir, descriptionFile))
}

// BinaryPath returns the conventional location of the model binary inside an
// unpacked archive for the current platform.
func BinaryPath(dir, modelIdentifier string) string {
	platform, ext := platformTarget()
	return filepath.Join(dir, "binaries", platform, modelIdentifier+ext)
}

func platformTarget() (string, string) {
	bits := "32"
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		bits = "64"
	}
	switch runtime.GOOS {
	case "windows":
		return "win" + bits, ".dll"
	case "darwin":
		return "darwin" + bits, ".dylib"
	default:
		return "linux" + bits, ".so"
	}
}
