package testutil

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FailingFs wraps an afero.Fs and injects errors into Remove and RemoveAll
// for selected paths.
type FailingFs struct {
	afero.Fs

	// RemoveAllErr maps a cleaned path to the error RemoveAll returns for it.
	RemoveAllErr map[string]error
	// RemoveErr maps a cleaned path to the error Remove returns for it.
	RemoveErr map[string]error

	RemoveAllCalls []string
	RemoveCalls    []string
}

// NewFailingFs wraps base.
func NewFailingFs(base afero.Fs) *FailingFs {
	return &FailingFs{
		Fs:           base,
		RemoveAllErr: map[string]error{},
		RemoveErr:    map[string]error{},
	}
}

// DenyRemoveAll makes RemoveAll(path) fail with err.
func (f *FailingFs) DenyRemoveAll(path string, err error) *FailingFs {
	f.RemoveAllErr[filepath.Clean(path)] = err
	return f
}

// DenyRemove makes Remove(path) fail with err.
func (f *FailingFs) DenyRemove(path string, err error) *FailingFs {
	f.RemoveErr[filepath.Clean(path)] = err
	return f
}

// RemoveAll implements afero.Fs.
func (f *FailingFs) RemoveAll(path string) error {
	f.RemoveAllCalls = append(f.RemoveAllCalls, path)
	if err, ok := f.RemoveAllErr[filepath.Clean(path)]; ok {
		return &os.PathError{Op: "unlinkat", Path: path, Err: err}
	}
	return f.Fs.RemoveAll(path)
}

// Remove implements afero.Fs.
func (f *FailingFs) Remove(name string) error {
	f.RemoveCalls = append(f.RemoveCalls, name)
	if err, ok := f.RemoveErr[filepath.Clean(name)]; ok {
		return &os.PathError{Op: "remove", Path: name, Err: err}
	}
	return f.Fs.Remove(name)
}

// WriteFiles creates each file (with parent directories) in fs.
func WriteFiles(fs afero.Fs, files map[string]string) error {
	for path, content := range files {
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
