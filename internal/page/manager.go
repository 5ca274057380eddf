package page

import (
	"io"
	"sync"
	"time"

	"github.com/shieldgate/widgethost/internal/autoinit"
	"github.com/shieldgate/widgethost/internal/boundary"
	"github.com/shieldgate/widgethost/internal/config"
	"github.com/shieldgate/widgethost/internal/diag"
	"github.com/shieldgate/widgethost/internal/dom"
	"github.com/shieldgate/widgethost/internal/lifecycle"
	"github.com/shieldgate/widgethost/internal/logging"
	"github.com/shieldgate/widgethost/internal/messenger"
	"github.com/shieldgate/widgethost/internal/registry"
	"github.com/shieldgate/widgethost/internal/shared/id"
	"github.com/shieldgate/widgethost/internal/shared/types"
	"go.uber.org/zap"
)

// Page is one hosted document with its own registry, controller, and
// discovered script configuration.
type Page struct {
	ID         id.PageID
	Doc        *dom.Document
	Script     types.ScriptConfig
	Controller *lifecycle.Controller
	Dispatcher *messenger.Dispatcher
	CreatedAt  time.Time

	init *autoinit.Initializer
}

// Widgets exposes the page's registry.
func (p *Page) Widgets() *registry.Registry {
	return p.Controller.Registry()
}

// Manager owns all hosted pages.
type Manager struct {
	pages   sync.Map
	factory *boundary.Factory
	msgr    *messenger.Messenger

	logger   *logging.Logger
	reporter *diag.Reporter
}

// NewManager creates a page manager building boundaries with the given
// factory.
func NewManager(factory *boundary.Factory, msgr *messenger.Messenger, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		factory:  factory,
		msgr:     msgr,
		logger:   logger,
		reporter: diag.NewReporter(logger.Logger),
	}
}

// Load parses a host page, discovers its script configuration, runs
// auto-initialization, and registers the page. A missing hosting script tag
// is reported but does not fail the load.
func (m *Manager) Load(r io.Reader) (*Page, error) {
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}

	script := config.DiscoverScript(doc)
	if !script.Found {
		m.reporter.Reportf(diag.CodeStartupConfigMissing, "hosting script tag not found in page")
	}

	reg := registry.New()
	ctrl := lifecycle.New(doc, reg, m.factory, m.msgr, m.logger)

	p := &Page{
		ID:         id.NewPageID(),
		Doc:        doc,
		Script:     script,
		Controller: ctrl,
		Dispatcher: messenger.NewDispatcher(reg, m.reporter, m.logger),
		CreatedAt:  time.Now(),
		init:       autoinit.New(doc, ctrl, m.logger),
	}

	rendered := p.init.Run()
	m.pages.Store(p.ID, p)

	m.logger.Info("page loaded",
		zap.String("page_id", p.ID.String()),
		zap.Int("auto_rendered", rendered),
		zap.Bool("script_found", script.Found),
	)
	return p, nil
}

// Get retrieves a page by id.
func (m *Manager) Get(pageID id.PageID) (*Page, bool) {
	val, ok := m.pages.Load(pageID)
	if !ok {
		return nil, false
	}
	return val.(*Page), true
}

// List returns all hosted pages.
func (m *Manager) List() []*Page {
	var pages []*Page
	m.pages.Range(func(_, value interface{}) bool {
		pages = append(pages, value.(*Page))
		return true
	})
	return pages
}

// Close tears down a page: every widget is removed and the page forgotten.
func (m *Manager) Close(pageID id.PageID) bool {
	p, ok := m.Get(pageID)
	if !ok {
		return false
	}

	for _, rec := range p.Widgets().List() {
		if err := p.Controller.Remove(rec.ID); err != nil {
			m.logger.Warn("widget teardown failed",
				zap.String("widget_id", rec.ID.String()),
				zap.Error(err),
			)
		}
	}
	m.pages.Delete(pageID)
	return true
}

// Stats aggregates widget statistics across all pages.
func (m *Manager) Stats() types.Stats {
	var total types.Stats
	m.pages.Range(func(_, value interface{}) bool {
		s := value.(*Page).Widgets().Stats()
		total.TotalWidgets += s.TotalWidgets
		total.MountedWidgets += s.MountedWidgets
		total.ExecutingWidgets += s.ExecutingWidgets
		return true
	})
	return total
}
