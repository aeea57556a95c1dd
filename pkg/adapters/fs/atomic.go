package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// TempFilePrefix names the scratch files Save renames over documents.
	TempFilePrefix = "crosstalk-tmp-"
	// DefaultStaleTempAge is how old a scratch file must be before Initialize
	// treats it as left over by an interrupted Save.
	DefaultStaleTempAge = 10 * time.Minute
)

// writeAtomic replaces the vault file name with data. Readers and watchers
// only ever see the old content or the new one, never a partial write.
func (r *Repository) writeAtomic(name string, data []byte) (err error) {
	tmp, err := os.CreateTemp(r.Path, r.config.TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("create scratch file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	_, werr := tmp.Write(data)
	serr := tmp.Sync()
	cerr := tmp.Close()
	if err := errors.Join(werr, serr, cerr); err != nil {
		return fmt.Errorf("write scratch file for %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod scratch file for %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(r.Path, name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// sweepTemp removes scratch files older than the configured age.
// A negative age disables the sweep.
func (r *Repository) sweepTemp(now time.Time) (int, error) {
	if r.config.StaleTempAge < 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), r.config.TempPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || now.Sub(info.ModTime()) < r.config.StaleTempAge {
			continue
		}
		if err := os.Remove(filepath.Join(r.Path, e.Name())); err == nil {
			removed++
			r.debug("removed stale scratch file", "file", e.Name())
		}
	}
	return removed, nil
}
