// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

// Package templates holds the built-in viewer page template. Deployments can
// substitute their own template via the viewer.template_path setting; the
// embedded copy keeps the binary self-contained when they do not.
package templates

import (
	"embed"
	"html/template"
)

//go:embed index.html.tmpl
var fs embed.FS

// Index returns the built-in viewer page template.
func Index() *template.Template {
	return template.Must(template.ParseFS(fs, "index.html.tmpl"))
}
