// Package artifact writes a set of generated files so that either all of them
// are replaced or none are.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// File is one output path and its complete contents.
type File struct {
	Path string
	Data []byte
}

type staged struct {
	tmp    string
	dest   string
	backup string // previous destination, empty when there was none
}

// WriteAll stages every file in a temp file next to its destination, then
// renames them into place. Existing destinations are moved aside first, so a
// failure at any point restores every artifact that was already replaced and
// leaves no temp or backup files behind.
func WriteAll(files []File) error {
	var pending []staged
	for _, f := range files {
		tmp, err := stage(f)
		if err != nil {
			removeTemps(pending)
			return err
		}
		pending = append(pending, staged{tmp: tmp, dest: f.Path})
	}

	for i := range pending {
		if err := install(&pending[i]); err != nil {
			rollback(pending[:i])
			removeTemps(pending[i:])
			return err
		}
	}

	for _, s := range pending {
		if s.backup != "" {
			os.Remove(s.backup)
		}
	}
	return nil
}

// install moves any existing destination to a backup, then renames the temp
// file into place. On failure the destination is back where it was.
func install(s *staged) error {
	if _, err := os.Lstat(s.dest); err == nil {
		backup, err := reserve(s.dest, ".bak-*")
		if err != nil {
			return err
		}
		if err := os.Rename(s.dest, backup); err != nil {
			os.Remove(backup)
			return fmt.Errorf("back up %s: %w", s.dest, err)
		}
		s.backup = backup
	}

	if err := os.Rename(s.tmp, s.dest); err != nil {
		if s.backup != "" {
			os.Rename(s.backup, s.dest)
			s.backup = ""
		}
		return fmt.Errorf("install %s: %w", s.dest, err)
	}
	return nil
}

// rollback undoes installed files in reverse order.
func rollback(installed []staged) {
	for i := len(installed) - 1; i >= 0; i-- {
		s := installed[i]
		if s.backup != "" {
			os.Rename(s.backup, s.dest)
		} else {
			os.Remove(s.dest)
		}
	}
}

func removeTemps(pending []staged) {
	for _, s := range pending {
		os.Remove(s.tmp)
	}
}

// reserve creates an empty, uniquely named file next to path.
func reserve(path, pattern string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+pattern)
	if err != nil {
		return "", fmt.Errorf("reserve backup for %s: %w", path, err)
	}
	name := f.Name()
	f.Close()
	return name, nil
}

func stage(f File) (string, error) {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", f.Path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file for %s: %w", f.Path, err)
	}
	name := tmp.Name()

	fail := func(step string, err error) (string, error) {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("%s %s: %w", step, f.Path, err)
	}

	n, err := tmp.Write(f.Data)
	if err != nil {
		return fail("write", err)
	}
	if n != len(f.Data) {
		return fail("write", fmt.Errorf("short write: %d of %d bytes", n, len(f.Data)))
	}
	if err := tmp.Chmod(0644); err != nil {
		return fail("chmod", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("close %s: %w", f.Path, err)
	}
	return name, nil
}
