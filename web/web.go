// Package web embeds the single-page upload UI served at the root route.
package web

import "embed"

//go:embed index.html
var Assets embed.FS
