// Package lifecycle orchestrates widget state transitions:
// unmounted -> mounted -> (executing <-> mounted) -> resetting -> mounted.
//
// Render, execute, and reset are synchronous with respect to registry
// mutation but have asynchronous tails: boundary creation kicks off a remote
// content load, and execute's real completion arrives later as an inbound
// verification event. Every failure is recovered locally and reported with
// its stable code; none of them propagates as a hard failure to the host
// page.
package lifecycle

import (
	"github.com/shieldgate/widgethost/internal/boundary"
	"github.com/shieldgate/widgethost/internal/config"
	"github.com/shieldgate/widgethost/internal/diag"
	"github.com/shieldgate/widgethost/internal/dom"
	"github.com/shieldgate/widgethost/internal/logging"
	"github.com/shieldgate/widgethost/internal/messenger"
	"github.com/shieldgate/widgethost/internal/registry"
	"github.com/shieldgate/widgethost/internal/shared/id"
	"github.com/shieldgate/widgethost/internal/shared/types"
	"go.uber.org/zap"
)

// Controller drives the widget lifecycle for one document.
type Controller struct {
	doc      *dom.Document
	reg      *registry.Registry
	factory  *boundary.Factory
	msgr     *messenger.Messenger
	reporter *diag.Reporter
	logger   *logging.Logger
}

// New creates a controller over the given document and registry.
func New(doc *dom.Document, reg *registry.Registry, factory *boundary.Factory, msgr *messenger.Messenger, logger *logging.Logger) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Controller{
		doc:      doc,
		reg:      reg,
		factory:  factory,
		msgr:     msgr,
		reporter: diag.NewReporter(logger.Logger),
		logger:   logger,
	}
}

// Registry exposes the controller's registry for read access.
func (c *Controller) Registry() *registry.Registry {
	return c.reg
}

// Render mounts a new widget on the referenced container. The container's
// declarative attributes win over the caller's overrides. On any failure no
// widget is registered, one diagnostic is emitted, and the error is
// returned for callers that want it.
func (c *Controller) Render(ref interface{}, overrides config.Overrides) (id.WidgetID, error) {
	container := c.doc.Resolve(ref)
	if container == nil {
		return "", c.reporter.Reportf(diag.CodeContainerNotFound, "container not found for %v", ref)
	}

	cfg := config.Resolve(container, overrides)
	if derr := config.Validate(cfg); derr != nil {
		c.reporter.Report(derr)
		return "", derr
	}

	widgetID := id.NewWidgetID()
	frame, err := c.factory.Create(widgetID, cfg, container)
	if err != nil {
		return "", c.reporter.Reportf(diag.CodeMountFailed, "could not mount widget: %v", err)
	}

	rec := &registry.Record{
		ID:       widgetID,
		Config:   cfg,
		Boundary: frame,
		Channel:  messenger.NewPipe(16),
		State:    types.StateMounted,
	}
	if err := c.reg.Insert(rec); err != nil {
		frame.Detach()
		return "", c.reporter.Reportf(diag.CodeMountFailed, "could not register widget: %v", err)
	}

	c.logger.Info("widget rendered",
		zap.String("widget_id", widgetID.String()),
		zap.String("sitekey", cfg.Sitekey),
		zap.String("size", string(cfg.Size)),
	)
	return widgetID, nil
}

// Execute merges the overrides into the stored configuration (overrides win
// here, unlike render) and sends an execute command across the boundary. The
// transition back to mounted is driven by the inbound verification event.
func (c *Controller) Execute(ref interface{}, overrides config.Overrides) error {
	rec, derr := c.lookup(ref)
	if derr != nil {
		c.reporter.Report(derr)
		return derr
	}

	var ch types.Channel
	c.reg.Update(rec.ID, func(r *registry.Record) {
		r.Config = config.Merge(r.Config, overrides)
		r.State = types.StateExecuting
		ch = r.Channel
	})

	return c.msgr.Send(ch, rec.ID, types.EventExecute, nil)
}

// Reset clears the stored response and swaps in a fresh boundary with the
// same id and configuration, atomically, within the same parent. The old
// boundary and anything it was still doing are discarded.
func (c *Controller) Reset(ref interface{}) error {
	rec, derr := c.lookup(ref)
	if derr != nil {
		c.reporter.Report(derr)
		return derr
	}

	c.reg.Update(rec.ID, func(r *registry.Record) {
		r.State = types.StateResetting
	})

	fresh, err := c.factory.Swap(rec.Boundary, rec.Config)
	if err != nil {
		// The widget stays registered; the old boundary remains in place.
		c.reg.Update(rec.ID, func(r *registry.Record) {
			r.State = types.StateMounted
		})
		return c.reporter.Reportf(diag.CodeMountFailed, "could not reset widget %s: %v", rec.ID, err)
	}

	c.reg.Update(rec.ID, func(r *registry.Record) {
		r.Config.Response = nil
		r.Boundary = fresh
		r.State = types.StateMounted
	})

	c.logger.Info("widget reset", zap.String("widget_id", rec.ID.String()))
	return nil
}

// Remove tears a widget down entirely: registry entry, boundary, and
// channel. This is the explicit removal operation; nothing else ever drops
// an entry.
func (c *Controller) Remove(ref interface{}) error {
	rec, derr := c.lookup(ref)
	if derr != nil {
		c.reporter.Report(derr)
		return derr
	}

	removed, ok := c.reg.Remove(rec.ID)
	if !ok {
		return c.reporter.Reportf(diag.CodeWidgetNotFound, "widget %s already removed", rec.ID)
	}

	removed.Boundary.Detach()
	if removed.Channel != nil {
		removed.Channel.Close()
	}

	c.logger.Info("widget removed", zap.String("widget_id", rec.ID.String()))
	return nil
}

// lookup resolves a caller reference to a live registry record. It accepts
// the container reference used at render time (selector or element) as well
// as a widget id.
func (c *Controller) lookup(ref interface{}) (registry.Record, *diag.Error) {
	if widgetID, ok := ref.(id.WidgetID); ok {
		if rec, ok := c.reg.Get(widgetID); ok {
			return rec, nil
		}
		return registry.Record{}, diag.New(diag.CodeWidgetNotFound, "no widget with id %s", widgetID)
	}

	container := c.doc.Resolve(ref)
	if container == nil {
		return registry.Record{}, diag.New(diag.CodeWidgetNotFound, "no widget for container %v", ref)
	}

	widgetID, ok := c.reg.ByContainer(container.Node())
	if !ok {
		return registry.Record{}, diag.New(diag.CodeWidgetNotFound, "no widget rendered on container %v", ref)
	}

	rec, ok := c.reg.Get(widgetID)
	if !ok {
		return registry.Record{}, diag.New(diag.CodeWidgetNotFound, "no widget with id %s", widgetID)
	}
	return rec, nil
}
