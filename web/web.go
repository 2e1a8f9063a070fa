// Package web embeds the static search page.
package web

import "embed"

//go:embed static
var Static embed.FS
