package web

import "embed"

// StaticFS holds the embedded stylesheet and the small confirm/toast script.
//
//go:embed static/*
var StaticFS embed.FS
