// storage/document.go
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/zukapustikova/ai-governance-transparency-ledger/crypto"
	ledger_errors "github.com/zukapustikova/ai-governance-transparency-ledger/errors"
	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
)

// Document persists one component's state as a single canonical JSON file.
// Writes go to a temp file, are synced, then renamed over the target, so a
// crash can never leave a partial document behind.
type Document struct {
	fs   afero.Fs
	path string
}

// NewDocument creates a document store at path on fs.
func NewDocument(fs afero.Fs, path string) *Document {
	return &Document{fs: fs, path: path}
}

// Path returns the document's location.
func (d *Document) Path() string {
	return d.path
}

// Save atomically replaces the document with the canonical JSON of state.
func (d *Document) Save(state any) error {
	data, err := crypto.CanonicalJSON(state)
	if err != nil {
		return ledger_errors.Persistencef("encode "+d.path, err)
	}

	dir := filepath.Dir(d.path)
	if dir != "." {
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			return ledger_errors.Persistencef("mkdir "+dir, err)
		}
	}

	tmp := d.path + ".tmp"
	f, err := d.fs.Create(tmp)
	if err != nil {
		return ledger_errors.Persistencef("create "+tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		d.fs.Remove(tmp)
		return ledger_errors.Persistencef("write "+tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		d.fs.Remove(tmp)
		return ledger_errors.Persistencef("sync "+tmp, err)
	}
	if err := f.Close(); err != nil {
		d.fs.Remove(tmp)
		return ledger_errors.Persistencef("close "+tmp, err)
	}
	if err := d.fs.Rename(tmp, d.path); err != nil {
		d.fs.Remove(tmp)
		return ledger_errors.Persistencef("rename "+tmp, err)
	}
	return nil
}

// Load reads the document into state. A missing, empty, or corrupt file is
// treated as fresh state: Load returns false and logs a warning for the
// corrupt case.
func (d *Document) Load(state any) bool {
	data, err := afero.ReadFile(d.fs, d.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read document, starting fresh",
				zap.String("path", d.path), zap.Error(err))
		}
		return false
	}
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, state); err != nil {
		logger.Warn("Corrupt document, starting fresh",
			zap.String("path", d.path), zap.Error(err))
		return false
	}
	return true
}

// Remove deletes the document; missing files are not an error.
func (d *Document) Remove() error {
	if err := d.fs.Remove(d.path); err != nil && !os.IsNotExist(err) {
		return ledger_errors.Persistencef("remove "+d.path, err)
	}
	return nil
}
