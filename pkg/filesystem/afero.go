package filesystem

import (
	"io/fs"
	"os"
	"sort"

	"github.com/spf13/afero"
)

// OS returns the real filesystem.
func OS() afero.Fs {
	return afero.NewOsFs()
}

// Exists reports whether path exists. Errors other than "not exist" count as
// existing so callers go on to surface them.
func Exists(fsys afero.Fs, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// IsDir reports whether path is an existing directory.
func IsDir(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path is an existing regular file.
func IsFile(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Subdirs returns the names of the directories directly under path, sorted.
func Subdirs(fsys afero.Fs, path string) ([]string, error) {
	entries, err := afero.ReadDir(fsys, path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// CopyFile copies src to dst, keeping the permission bits and
// modification time of src.
func CopyFile(fsys afero.Fs, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "copy", Path: src, Err: fs.ErrInvalid}
	}

	data, err := afero.ReadFile(fsys, src)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, dst, data, info.Mode().Perm()); err != nil {
		return err
	}
	return fsys.Chtimes(dst, info.ModTime(), info.ModTime())
}
