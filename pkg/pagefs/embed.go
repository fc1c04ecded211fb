package pagefs

import (
	"embed"
	"io/fs"
)

//go:embed starter/*
var embeddedStarter embed.FS

// StarterFS returns the bundled starter site: a small part catalog, images,
// stylesheets, backend data and a page using them. Pass it to LoadFS.
func StarterFS() fs.FS {
	sub, err := fs.Sub(embeddedStarter, "starter")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}
