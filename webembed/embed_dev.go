//go:build dev

// Package webembed compiles the timeline viewer's static assets into the
// binary so the server ships as a single file.
package webembed

import (
	"io/fs"
)

// GetFS returns nil under the dev tag; the viewer is served separately and
// the binary carries no assets.
func GetFS() (fs.FS, error) {
	return nil, nil
}
