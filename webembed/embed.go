//go:build !dev

// Package webembed compiles the timeline viewer's static assets into the
// binary so the server ships as a single file.
package webembed

import (
	"embed"
	"io/fs"
)

//go:embed dist
var webFS embed.FS

// GetFS returns the viewer assets rooted at dist. Under the dev build tag
// it returns nil and the server skips registering the static routes.
func GetFS() (fs.FS, error) {
	return fs.Sub(webFS, "dist")
}
