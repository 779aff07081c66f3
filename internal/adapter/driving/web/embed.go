package web

import "embed"

// StaticFS holds the embedded static assets (CSS, counter and filter JS, images).
//
//go:embed static/*
var StaticFS embed.FS
