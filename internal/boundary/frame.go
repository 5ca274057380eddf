package boundary

import (
	"github.com/shieldgate/widgethost/internal/dom"
	"github.com/shieldgate/widgethost/internal/shared/id"
	"golang.org/x/net/html"
)

// frameStyle makes the frame fill its container with no visible border.
const frameStyle = "width: 100%; height: 100%; border: none;"

// Frame is the opaque handle to one isolation boundary: the shadow root on
// the container plus the embedded frame node inside it. A frame is replaced
// wholesale on reset; the widget id it carries never changes.
type Frame struct {
	widgetID id.WidgetID
	address  string
	root     *dom.ShadowRoot
	node     *html.Node
}

// WidgetID returns the widget this boundary belongs to.
func (f *Frame) WidgetID() id.WidgetID {
	return f.widgetID
}

// Address returns the remote content address loaded into the frame.
func (f *Frame) Address() string {
	return f.address
}

// Host returns the container element the boundary is attached to.
func (f *Frame) Host() *dom.Element {
	return f.root.Host()
}

// Detach releases the boundary entirely: the frame node and the shadow root
// are discarded, and any in-flight remote activity is implicitly abandoned.
func (f *Frame) Detach() {
	f.root.Detach()
}

func newFrameNode(address string) *html.Node {
	return dom.NewElementNode("iframe", map[string]string{
		"src":   address,
		"style": frameStyle,
	})
}
