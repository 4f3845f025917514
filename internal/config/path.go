package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/halloway/timeline-companion/internal/appinfo"
)

// AppDir returns the application state directory path.
// On Windows: %LOCALAPPDATA%/timeline/
// On other platforms: ~/.config/timeline/ or equivalent
func AppDir() (string, error) {
	var base string

	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			base = localAppData
		} else {
			// Fallback if LOCALAPPDATA is not set (unusual for Windows)
			dir, err := os.UserConfigDir()
			if err != nil {
				return "", fmt.Errorf("get user config dir: %w", err)
			}
			base = dir
		}
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("get user config dir: %w", err)
		}
		base = dir
	}

	return filepath.Join(base, appinfo.DirName), nil
}

// EnsureAppDir creates the application state directory if it doesn't exist.
func EnsureAppDir() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create app dir %q: %w", dir, err)
	}

	return dir, nil
}

// appPath returns the full path for a file in the app state directory.
func appPath(filename string) (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// ConfigPath returns the path to config.json.
func ConfigPath() (string, error) {
	return appPath(appinfo.ConfigFileName)
}

// LockFilePath returns the path to the lock file for single instance control.
func LockFilePath() (string, error) {
	return appPath(appinfo.LockFileName)
}

// SnapshotPath returns the path to the source snapshot database.
func SnapshotPath() (string, error) {
	return appPath(appinfo.SnapshotFileName)
}
