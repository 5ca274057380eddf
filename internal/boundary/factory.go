package boundary

import (
	"fmt"

	"github.com/shieldgate/widgethost/internal/dom"
	"github.com/shieldgate/widgethost/internal/shared/id"
	"github.com/shieldgate/widgethost/internal/shared/types"
)

// Factory builds isolation boundaries against a fixed challenge origin.
type Factory struct {
	origin string
	loader *Loader
}

// NewFactory creates a boundary factory. loader may be nil to disable
// content prefetching.
func NewFactory(origin string, loader *Loader) *Factory {
	return &Factory{origin: origin, loader: loader}
}

// Origin returns the challenge service origin the factory builds against.
func (f *Factory) Origin() string {
	return f.origin
}

// Create attaches a new closed boundary to the container and loads the
// remote content address for the widget. A container that cannot accept the
// boundary (already hosting one, or detached) fails the whole render call.
func (f *Factory) Create(widgetID id.WidgetID, cfg types.WidgetConfig, container *dom.Element) (*Frame, error) {
	address := BuildAddress(f.origin, widgetID, cfg)

	root, err := container.AttachShadow(dom.ShadowClosed)
	if err != nil {
		return nil, fmt.Errorf("container cannot accept boundary: %w", err)
	}

	node := newFrameNode(address)
	if err := root.AppendChild(node); err != nil {
		return nil, fmt.Errorf("container cannot accept boundary: %w", err)
	}

	if f.loader != nil {
		f.loader.Prefetch(address)
	}

	return &Frame{widgetID: widgetID, address: address, root: root, node: node}, nil
}

// Swap builds a fresh frame for the same widget id and configuration and
// atomically replaces the old frame within the same parent. The old frame is
// released along with any response it would have produced.
func (f *Factory) Swap(old *Frame, cfg types.WidgetConfig) (*Frame, error) {
	address := BuildAddress(f.origin, old.widgetID, cfg)
	node := newFrameNode(address)

	if err := old.root.ReplaceChild(old.node, node); err != nil {
		return nil, fmt.Errorf("boundary swap failed: %w", err)
	}

	if f.loader != nil {
		f.loader.Prefetch(address)
	}

	return &Frame{widgetID: old.widgetID, address: address, root: old.root, node: node}, nil
}
