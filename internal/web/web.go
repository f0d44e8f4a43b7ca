// Package web embeds the carousel widget's static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed dist/*
var assets embed.FS

// Dist returns the widget assets rooted at the dist directory.
func Dist() (fs.FS, error) {
	return fs.Sub(assets, "dist")
}
