// Package dashboard provides the embedded web UI for eventboard.
//
// The page is an html/template rendered by the server package at "/". It
// shows the display container with the entries of the last successful poll
// and rebuilds the container from the "/api/sse" stream.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Dashboard template with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
