package audit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidArchiveName = errors.New("invalid archive file name")

var archiveName = regexp.MustCompile(`^[0-9a-f-]{36}\.json$`)

// Archive spools uploaded import files under a UUID name until the async
// import that reads them back has finished. Files whose import never ran
// are swept by RemoveOlderThan.
type Archive struct {
	Dir string
}

func NewArchive(dir string) *Archive {
	return &Archive{Dir: dir}
}

// Save copies r into a new file and returns its name.
func (a *Archive) Save(r io.Reader) (string, error) {
	if err := a.ensureDir(); err != nil {
		return "", fmt.Errorf("failed to ensure archive directory: %w", err)
	}

	name := uuid.New().String() + ".json"
	f, err := os.OpenFile(filepath.Join(a.Dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close archive file: %w", err)
	}

	return name, nil
}

// Open returns the archived file. Only names produced by Save are accepted.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	if !archiveName.MatchString(name) {
		return nil, ErrInvalidArchiveName
	}
	f, err := os.Open(filepath.Join(a.Dir, name))
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (a *Archive) Remove(name string) error {
	if !archiveName.MatchString(name) {
		return ErrInvalidArchiveName
	}
	return os.Remove(filepath.Join(a.Dir, name))
}

func (a *Archive) ensureDir() error {
	if _, err := os.Stat(a.Dir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.Dir, 0o755); err != nil {
			return fmt.Errorf("failed to create archive directory: %w", err)
		}
	}
	return nil
}

// RemoveOlderThan deletes archived files last modified more than age ago
// and returns how many were removed. Files not created by Save are left alone.
func (a *Archive) RemoveOlderThan(age time.Duration) (int, error) {
	entries, err := os.ReadDir(a.Dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read archive directory: %w", err)
	}

	cutoff := time.Now().Add(-age)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !archiveName.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(a.Dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}
