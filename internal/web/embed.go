package web

import (
	"embed"
	"io/fs"
	"net/http"
)

// templateDir is read instead of the embedded templates in dev mode.
const templateDir = "./internal/web/templates"

var (
	//go:embed static/*
	embeddedStaticFiles embed.FS

	//go:embed templates/*
	embeddedTemplates embed.FS
)

// templatesFS serves the embedded templates without the templates/ prefix,
// so views are named like "admin/settings/logging".
func templatesFS() http.FileSystem {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}

// staticFS serves the embedded static files below PathPrefix "static".
func staticFS() http.FileSystem {
	return http.FS(embeddedStaticFiles)
}
