// Package web embeds the FinSense frontend for serving from the Go binary.
//
// Usage in the API server:
//
//	import "github.com/seenimoa/finsense/web"
//	fs := web.StaticFS() // io/fs.FS rooted at static/
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:static
var static embed.FS

// StaticFS returns a filesystem rooted at the embedded static/ directory.
// This is ready to use with http.FileServerFS or http.FS.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// unreachable: static/ is part of the binary
		panic(err)
	}
	return sub
}
