// Package autoinit renders a widget for every element carrying the
// declarative trigger attribute when a page is loaded.
package autoinit

import (
	"sync"

	"github.com/shieldgate/widgethost/internal/config"
	"github.com/shieldgate/widgethost/internal/dom"
	"github.com/shieldgate/widgethost/internal/lifecycle"
	"github.com/shieldgate/widgethost/internal/logging"
	"go.uber.org/zap"
)

// Initializer performs the run-once startup scan for one document.
type Initializer struct {
	doc    *dom.Document
	ctrl   *lifecycle.Controller
	logger *logging.Logger
	once   sync.Once
}

// New creates an initializer for the document driven by the controller.
func New(doc *dom.Document, ctrl *lifecycle.Controller, logger *logging.Logger) *Initializer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Initializer{doc: doc, ctrl: ctrl, logger: logger}
}

// Run scans the document and renders a widget for every trigger element,
// with no overrides. It runs at most once per document; repeat calls are
// no-ops. Renders are independent per id, so failures on one element do not
// stop the scan. Returns the number of widgets rendered by this call.
func (i *Initializer) Run() int {
	rendered := 0
	i.once.Do(func() {
		i.doc.Each("["+config.TriggerAttr+"]", func(el *dom.Element) {
			if _, err := i.ctrl.Render(el, config.Overrides{}); err == nil {
				rendered++
			}
		})
		i.logger.Info("auto-initialization complete", zap.Int("widgets", rendered))
	})
	return rendered
}
