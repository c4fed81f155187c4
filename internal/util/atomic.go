// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempSuffix ends the name of every in-flight AtomicWriteFile temp file, so
// watchers filtering on a config extension never see a partial write.
const TempSuffix = ".tmp"

// AtomicWriteFile replaces path with data so readers see either the old
// file or the whole new one. The data goes to a hidden sibling named after
// path, is synced, then renamed over it. An existing file keeps its mode; a
// new one gets perm. Missing parent directories are created.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tempPath, err := writeTemp(dir, base, data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace %s: %w", base, err)
	}
	return nil
}

// writeTemp writes a synced copy of data next to base and returns its path.
// The file is closed before returning, as rename requires on Windows.
func writeTemp(dir, base string, data []byte, perm os.FileMode) (string, error) {
	f, err := os.CreateTemp(dir, "."+base+".*"+TempSuffix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", base, err)
	}
	name := f.Name()

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(name, perm)
	}
	if err != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to write %s: %w", base, err)
	}
	return name, nil
}
