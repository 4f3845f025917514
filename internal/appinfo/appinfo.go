// Package appinfo provides application identity constants.
// These are used across packages for consistent naming.
package appinfo

const (
	// AppName is the display name of the application.
	AppName = "Timeline Companion"

	// DirName is the directory name used for storing application data.
	// Location: %LOCALAPPDATA%/timeline/ (Windows) or ~/.config/timeline/ (other)
	DirName = "timeline"

	// MutexName is the Windows mutex name for single instance control.
	// "Local\" prefix means the mutex is scoped to the current user session,
	// not system-wide. This is appropriate for desktop applications.
	MutexName = "Local\\timeline-companion"

	// LockFileName is the lock file name for single instance control.
	LockFileName = "timeline.lock"

	// ConfigFileName is the configuration file name.
	ConfigFileName = "config.json"

	// SnapshotFileName is the SQLite snapshot cache file name.
	SnapshotFileName = "snapshots.sqlite"
)
