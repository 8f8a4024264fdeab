// Package web holds the storefront's page templates and static assets, embedded into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates is rooted at the templates directory, so "partials/header" names partials/header.html.
func Templates() fs.FS { return sub("templates") }

func Static() fs.FS { return sub("static") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		// dir is a constant embedded above
		panic(err)
	}
	return f
}
