package docs

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ErrUnsupportedType is returned when a document's extension cannot be
// rendered. The view workflow surfaces it to users exactly like a missing
// document.
var ErrUnsupportedType = errors.New("unsupported document type")

// Kind tells the caller how to serve rendered content.
type Kind int

const (
	// KindPlainText content is served raw as text/plain, no page wrapper.
	KindPlainText Kind = iota

	// KindHTML content is a sanitized HTML fragment to embed in the page
	// layout.
	KindHTML
)

// Rendered is the display form of a document.
type Rendered struct {
	Content []byte
	Kind    Kind
}

// Markdown parser and HTML sanitizer are shared singletons: their
// configuration never changes, so they are built once on first use.
var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
	policy       *bluemonday.Policy
)

func initMarkdown() {
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	policy = bluemonday.UGCPolicy()
}

// Render transforms raw document bytes into their display form based on the
// document type. Plain text passes through verbatim; markdown is converted
// to HTML and sanitized before it can reach a browser.
func Render(name string, content []byte) (Rendered, error) {
	switch TypeOf(name) {
	case TypePlainText:
		return Rendered{Content: content, Kind: KindPlainText}, nil

	case TypeMarkdown:
		markdownOnce.Do(initMarkdown)
		var buf bytes.Buffer
		if err := markdown.Convert(content, &buf); err != nil {
			return Rendered{}, fmt.Errorf("rendering markdown for %q: %w", name, err)
		}
		return Rendered{Content: policy.SanitizeBytes(buf.Bytes()), Kind: KindHTML}, nil

	default:
		return Rendered{}, ErrUnsupportedType
	}
}
