package dom

import "golang.org/x/net/html"

// Element is a handle to one element node within a Document.
type Element struct {
	node *html.Node
	doc  *Document
}

// Node returns the underlying node. Node identity is stable for the
// element's lifetime, which makes it usable as a registry index key.
func (e *Element) Node() *html.Node {
	return e.node
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute.
func (e *Element) SetAttr(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// Attached reports whether the element is still connected to its document.
func (e *Element) Attached() bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.doc.attached(e.node)
}

// NewElementNode builds a detached element node, used for boundary frames
// that live inside shadow roots rather than the document tree.
func NewElementNode(tag string, attrs map[string]string) *html.Node {
	n := &html.Node{
		Type: html.ElementNode,
		Data: tag,
	}
	for k, v := range attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: v})
	}
	return n
}
