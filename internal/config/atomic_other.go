//go:build !windows

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// writeJSONAtomic writes data to path atomically using tmp->rename pattern.
// Readers never observe a partially written file.
// On POSIX systems, os.Rename atomically replaces the destination file.
func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	// Temp file must live in the same directory for the rename to be atomic.
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	success = true
	return nil
}
