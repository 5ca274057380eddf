package dom

import (
	"io"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document wraps a parsed host page. All structural mutation goes through
// the document so shadow bookkeeping stays consistent.
type Document struct {
	mu      sync.RWMutex
	doc     *goquery.Document
	root    *html.Node
	shadows map[*html.Node]*ShadowRoot
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		doc:     doc,
		root:    doc.Get(0),
		shadows: make(map[*html.Node]*ShadowRoot),
	}, nil
}

// Resolve maps a caller-supplied reference to a mount point. A string is
// treated as a CSS selector and resolved to the first match; an element
// handle passes through unchanged. Anything else resolves to nil. Absence is
// always communicated by the nil result, never by a panic.
func (d *Document) Resolve(ref interface{}) *Element {
	switch v := ref.(type) {
	case string:
		return d.QueryFirst(v)
	case *Element:
		return v
	default:
		return nil
	}
}

// QueryFirst returns the first element matching the selector, or nil. An
// invalid selector yields nil rather than an error.
func (d *Document) QueryFirst(selector string) *Element {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	node := cascadia.Query(d.root, sel)
	if node == nil {
		return nil
	}
	return &Element{node: node, doc: d}
}

// Each invokes fn for every element matching the selector, in document
// order.
func (d *Document) Each(selector string, fn func(*Element)) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return
	}

	d.mu.RLock()
	nodes := cascadia.QueryAll(d.root, sel)
	d.mu.RUnlock()

	for _, n := range nodes {
		fn(&Element{node: n, doc: d})
	}
}

// Selection exposes a goquery selection for read-only inspection, used by
// script tag discovery.
func (d *Document) Selection(selector string) *goquery.Selection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.doc.Find(selector)
}

// Html serializes the current document tree. Shadow contents are closed and
// therefore never serialized.
func (d *Document) Html() (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.doc.Html()
}

func (d *Document) shadowOf(n *html.Node) *ShadowRoot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.shadows[n]
}

// attached reports whether n is still connected to the document root.
func (d *Document) attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}
