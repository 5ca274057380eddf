package dom

import (
	"errors"
	"sync"

	"golang.org/x/net/html"
)

// ShadowMode controls whether shadow contents are reachable from the host
// document. The widget host only ever attaches closed roots.
type ShadowMode string

const (
	ShadowOpen   ShadowMode = "open"
	ShadowClosed ShadowMode = "closed"
)

var (
	// ErrShadowExists is returned when the host element already carries a
	// shadow root.
	ErrShadowExists = errors.New("dom: element already hosts a shadow root")

	// ErrDetached is returned when the host element is no longer connected
	// to its document.
	ErrDetached = errors.New("dom: element is detached from the document")
)

// ShadowRoot owns a subtree that is deliberately kept outside the document
// tree. Document queries can never descend into it; the handle is the only
// way in.
type ShadowRoot struct {
	mode ShadowMode
	host *Element

	mu       sync.Mutex
	children []*html.Node
	detached bool
}

// AttachShadow attaches a shadow root to the element. An element can host at
// most one root, and a detached element cannot accept one.
func (e *Element) AttachShadow(mode ShadowMode) (*ShadowRoot, error) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if _, exists := e.doc.shadows[e.node]; exists {
		return nil, ErrShadowExists
	}
	if !e.doc.attached(e.node) {
		return nil, ErrDetached
	}

	root := &ShadowRoot{mode: mode, host: e}
	e.doc.shadows[e.node] = root
	return root, nil
}

// Shadow returns the element's shadow root handle, or nil. Closed roots are
// only returned to callers that already hold the document; host-page query
// results never reach them.
func (e *Element) Shadow() *ShadowRoot {
	return e.doc.shadowOf(e.node)
}

// Mode returns the root's encapsulation mode.
func (r *ShadowRoot) Mode() ShadowMode {
	return r.mode
}

// Host returns the element the root is attached to.
func (r *ShadowRoot) Host() *Element {
	return r.host
}

// AppendChild adds a node to the shadow subtree.
func (r *ShadowRoot) AppendChild(n *html.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.detached {
		return ErrDetached
	}
	r.children = append(r.children, n)
	return nil
}

// ReplaceChild atomically swaps old for new within the root, preserving
// position. The old node is released.
func (r *ShadowRoot) ReplaceChild(old, new *html.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.detached {
		return ErrDetached
	}
	for i, c := range r.children {
		if c == old {
			r.children[i] = new
			return nil
		}
	}
	return errors.New("dom: node is not a child of this shadow root")
}

// RemoveChild detaches a node from the shadow subtree.
func (r *ShadowRoot) RemoveChild(n *html.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()

	children := r.children[:0]
	for _, c := range r.children {
		if c != n {
			children = append(children, c)
		}
	}
	r.children = children
}

// Children returns a snapshot of the shadow subtree's direct children.
func (r *ShadowRoot) Children() []*html.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*html.Node{}, r.children...)
}

// Detach releases the whole shadow subtree. Further mutation fails with
// ErrDetached.
func (r *ShadowRoot) Detach() {
	r.mu.Lock()
	r.children = nil
	r.detached = true
	r.mu.Unlock()

	r.host.doc.mu.Lock()
	delete(r.host.doc.shadows, r.host.node)
	r.host.doc.mu.Unlock()
}
