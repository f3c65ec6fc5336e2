package multistorage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// maxNameLen keeps file names under the 255-byte limit of common filesystems.
const maxNameLen = 255

// File implements Backend with one file per key under a root directory.
// Key names are path-escaped so any string is a valid key. Writes go to a
// temporary file that is renamed into place.
type File struct {
	root string
}

// NewFile creates the root directory if needed and returns a File backend.
func NewFile(root string) (*File, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %s: %w", root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage path %s is not a directory", root)
	}
	return &File{root: root}, nil
}

// Root returns the storage directory.
func (f *File) Root() string { return f.root }

// path maps key to a file name. Escaped names never start with a dot, so
// they cannot collide with temporary files or refer to the root itself.
// Names too long for the filesystem are cut and suffixed with "%h" and a
// hash of the key; escaping never produces "%h", so these cannot collide
// with short names.
func (f *File) path(key string) string {
	name := url.PathEscape(key)
	switch {
	case name == "":
		name = "%"
	case strings.HasPrefix(name, "."):
		name = "%2E" + name[1:]
	}
	if len(name) > maxNameLen {
		name = fmt.Sprintf("%s%%h%016x", name[:maxNameLen-18], xxhash.Sum64String(key))
	}
	return filepath.Join(f.root, name)
}

func (f *File) GetItem(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *File) SetItem(_ context.Context, key, value string) error {
	tmp, err := os.CreateTemp(f.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (f *File) RemoveItem(_ context.Context, key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
