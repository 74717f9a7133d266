package web

import "embed"

// TemplatesFS embeds HTML templates for server-side rendering.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets: stylesheet, page script, offline worker and manifest.
//
//go:embed static/*
var StaticFS embed.FS

// ServiceWorkerPath is the offline worker script inside StaticFS.
const ServiceWorkerPath = "static/service-worker.js"

// ManifestPath is the web app manifest inside StaticFS.
const ManifestPath = "static/manifest.webmanifest"
