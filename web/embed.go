// Package web embeds the browser UI's page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the stylesheet and scripts served under /static/.
func StaticFS() fs.FS {
	return mustSub("static")
}

// TemplatesFS returns the HTML templates.
func TemplatesFS() fs.FS {
	return mustSub("templates")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(fmt.Sprintf("creating %s sub-filesystem: %v", dir, err))
	}
	return sub
}
