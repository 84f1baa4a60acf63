package session

import (
	"os"
	"path/filepath"

	"github.com/indiriim/go-notify-admin/internal/errors"
)

var _ Repo = (*FileRepo)(nil)

// FileRepo stores each entry as a file under a data directory. This is the
// default repo for the CLI: three small named entries, same shape as the
// web client's localStorage keys.
type FileRepo struct {
	dir string
}

// NewFileRepo creates the data directory if needed. Entries may hold
// credentials, so the directory and files are owner-only.
func NewFileRepo(dir string) (*FileRepo, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "[NewFileRepo] mkdir %s", dir)
	}
	return &FileRepo{dir: dir}, nil
}

func (r *FileRepo) path(key string) string {
	return filepath.Join(r.dir, key)
}

func (r *FileRepo) Get(key string) (string, bool, error) {
	raw, err := os.ReadFile(r.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "[FileRepo.Get] %s", key)
	}
	return string(raw), true, nil
}

func (r *FileRepo) Set(key, value string) error {
	// Write-then-rename so a crash mid-write cannot leave a truncated entry.
	tmp := r.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o600); err != nil {
		return errors.Wrapf(err, "[FileRepo.Set] %s", key)
	}
	if err := os.Rename(tmp, r.path(key)); err != nil {
		return errors.Wrapf(err, "[FileRepo.Set] rename %s", key)
	}
	return nil
}

func (r *FileRepo) Delete(key string) error {
	err := os.Remove(r.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "[FileRepo.Delete] %s", key)
	}
	return nil
}
