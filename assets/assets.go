// Package assets embeds the web UI sources served by the server.
package assets

import _ "embed"

// IndexTemplate is the page template, CSS and JS are injected inline.
//
//go:embed index.html.tpl
var IndexTemplate string

// StyleCSS is the page stylesheet.
//
//go:embed style.css
var StyleCSS string

// ScriptJS is the page script.
//
//go:embed script.js
var ScriptJS string
