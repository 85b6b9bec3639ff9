// Package web embeds the static storefront page.
package web

import "embed"

//go:embed static
var Static embed.FS
