// Package docs implements Inkwell's document lifecycle: a flat-namespace
// store of named text documents, per-type rendering, and the workflow
// handlers that tie store, session, and views together.
package docs

import "path"

// Type classifies a document by its filename extension. The type is derived
// once from the name and switched on, never re-derived from the extension at
// call sites.
type Type int

const (
	// TypeUnsupported marks extensions Inkwell cannot render.
	TypeUnsupported Type = iota

	// TypePlainText is a .txt document, served verbatim as text/plain.
	TypePlainText

	// TypeMarkdown is a .md document, rendered to HTML for embedding.
	TypeMarkdown
)

// TypeOf derives the document type from a filename.
func TypeOf(filename string) Type {
	switch path.Ext(filename) {
	case ".txt":
		return TypePlainText
	case ".md":
		return TypeMarkdown
	default:
		return TypeUnsupported
	}
}
