package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shieldgate/widgethost/internal/config"
	"github.com/shieldgate/widgethost/internal/diag"
	"github.com/shieldgate/widgethost/internal/infrastructure/monitoring"
	"github.com/shieldgate/widgethost/internal/logging"
	"github.com/shieldgate/widgethost/internal/page"
	"github.com/shieldgate/widgethost/internal/registry"
	"github.com/shieldgate/widgethost/internal/shared/id"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	pages   *page.Manager
	metrics *monitoring.Metrics
	logger  *logging.Logger
}

// NewHandlers creates a new handler set.
func NewHandlers(pages *page.Manager, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{pages: pages, metrics: metrics, logger: logger}
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "ShieldGate Widget Host",
		"version": "0.3.0",
	})
}

// Health handles detailed health checks.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"pages":   len(h.pages.List()),
		"widgets": h.pages.Stats(),
	})
}

// LoadPage parses the posted HTML document, auto-initializes it, and hosts
// it.
func (h *Handlers) LoadPage(c *gin.Context) {
	p, err := h.pages.Load(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse page"})
		return
	}
	h.syncGauges()

	c.JSON(http.StatusCreated, gin.H{
		"page_id": p.ID,
		"script":  p.Script,
		"widgets": widgetViews(p.Widgets().List()),
	})
}

// ClosePage tears a page down.
func (h *Handlers) ClosePage(c *gin.Context) {
	if !h.pages.Close(id.PageID(c.Param("id"))) {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}
	h.syncGauges()
	c.JSON(http.StatusOK, gin.H{"closed": true})
}

// ListWidgets lists a page's registry entries.
func (h *Handlers) ListWidgets(c *gin.Context) {
	p, ok := h.pages.Get(id.PageID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"widgets": widgetViews(p.Widgets().List())})
}

type widgetRequest struct {
	Container string           `json:"container" binding:"required"`
	Params    config.Overrides `json:"params"`
}

// RenderWidget mounts a widget on the referenced container.
func (h *Handlers) RenderWidget(c *gin.Context) {
	p, req, ok := h.target(c)
	if !ok {
		return
	}

	widgetID, err := p.Controller.Render(req.Container, req.Params)
	if err != nil {
		h.fail(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RendersTotal.Inc()
	}
	h.syncGauges()
	c.JSON(http.StatusCreated, gin.H{"widget_id": widgetID})
}

// ExecuteWidget sends an execute command to the widget on the referenced
// container. Completion arrives later through the event ingress.
func (h *Handlers) ExecuteWidget(c *gin.Context) {
	p, req, ok := h.target(c)
	if !ok {
		return
	}

	if err := p.Controller.Execute(req.Container, req.Params); err != nil {
		h.fail(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ExecutesTotal.Inc()
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

// ResetWidget swaps in a fresh boundary for the widget on the referenced
// container.
func (h *Handlers) ResetWidget(c *gin.Context) {
	p, req, ok := h.target(c)
	if !ok {
		return
	}

	if err := p.Controller.Reset(req.Container); err != nil {
		h.fail(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ResetsTotal.Inc()
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

// RemoveWidget tears one widget down.
func (h *Handlers) RemoveWidget(c *gin.Context) {
	p, req, ok := h.target(c)
	if !ok {
		return
	}

	if err := p.Controller.Remove(req.Container); err != nil {
		h.fail(c, err)
		return
	}
	h.syncGauges()
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

func (h *Handlers) target(c *gin.Context) (*page.Page, widgetRequest, bool) {
	p, ok := h.pages.Get(id.PageID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return nil, widgetRequest{}, false
	}

	var req widgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "container reference required"})
		return nil, widgetRequest{}, false
	}
	return p, req, true
}

// fail maps an already-reported lifecycle failure onto an HTTP response.
func (h *Handlers) fail(c *gin.Context, err error) {
	var derr *diag.Error
	if errors.As(err, &derr) {
		if h.metrics != nil {
			h.metrics.RecordFailure(int(derr.Code))
		}
		status := http.StatusUnprocessableEntity
		if derr.Code == diag.CodeWidgetNotFound || derr.Code == diag.CodeContainerNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": derr.Message, "code": int(derr.Code)})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (h *Handlers) syncGauges() {
	if h.metrics == nil {
		return
	}
	h.metrics.PagesActive.Set(float64(len(h.pages.List())))
	h.metrics.WidgetsActive.Set(float64(h.pages.Stats().TotalWidgets))
}

type widgetView struct {
	ID       string      `json:"id"`
	State    string      `json:"state"`
	Sitekey  string      `json:"sitekey"`
	Size     string      `json:"size"`
	Theme    string      `json:"theme"`
	Address  string      `json:"address"`
	Response interface{} `json:"response"`
}

func widgetViews(records []registry.Record) []widgetView {
	views := make([]widgetView, 0, len(records))
	for _, rec := range records {
		v := widgetView{
			ID:      rec.ID.String(),
			State:   string(rec.State),
			Sitekey: rec.Config.Sitekey,
			Size:    string(rec.Config.Size),
			Theme:   string(rec.Config.Theme),
		}
		if rec.Boundary != nil {
			v.Address = rec.Boundary.Address()
		}
		if rec.Config.Response != nil {
			v.Response = *rec.Config.Response
		}
		views = append(views, v)
	}
	return views
}
