package config

import (
	"github.com/shieldgate/widgethost/internal/diag"
	"github.com/shieldgate/widgethost/internal/dom"
	"github.com/shieldgate/widgethost/internal/shared/types"
)

// Declarative attribute names consumed from a mount element.
const (
	AttrSitekey    = "data-sitekey"
	AttrSize       = "data-size"
	AttrTheme      = "data-theme"
	AttrExecution  = "data-execution"
	AttrAppearance = "data-appearance"
)

// TriggerAttr marks elements the auto-initializer renders at page load.
const TriggerAttr = AttrSitekey

// Overrides carries caller-supplied widget parameters. Empty fields are
// treated as absent.
type Overrides struct {
	Sitekey    string `json:"sitekey,omitempty"`
	Size       string `json:"size,omitempty"`
	Theme      string `json:"theme,omitempty"`
	Execution  string `json:"execution,omitempty"`
	Appearance string `json:"appearance,omitempty"`
}

// Resolve merges a container's declarative attributes with caller overrides
// into a widget configuration. Pure function; validation is a separate step.
func Resolve(container *dom.Element, o Overrides) types.WidgetConfig {
	def := types.DefaultConfig()
	return types.WidgetConfig{
		Sitekey:    pick(container, AttrSitekey, o.Sitekey, ""),
		Size:       types.Size(pick(container, AttrSize, o.Size, string(def.Size))),
		Theme:      types.Theme(pick(container, AttrTheme, o.Theme, string(def.Theme))),
		Execution:  types.Execution(pick(container, AttrExecution, o.Execution, string(def.Execution))),
		Appearance: types.Appearance(pick(container, AttrAppearance, o.Appearance, string(def.Appearance))),
	}
}

// Merge applies overrides on top of an existing configuration, overrides
// winning. Used by execute, where the caller is trusted to refine runtime
// parameters.
func Merge(cfg types.WidgetConfig, o Overrides) types.WidgetConfig {
	if o.Sitekey != "" {
		cfg.Sitekey = o.Sitekey
	}
	if o.Size != "" {
		cfg.Size = types.Size(o.Size)
	}
	if o.Theme != "" {
		cfg.Theme = types.Theme(o.Theme)
	}
	if o.Execution != "" {
		cfg.Execution = types.Execution(o.Execution)
	}
	if o.Appearance != "" {
		cfg.Appearance = types.Appearance(o.Appearance)
	}
	return cfg
}

// Validate gates widget creation. Sitekey and size are the only hard gates;
// the remaining fields pass through deliberately unvalidated.
func Validate(cfg types.WidgetConfig) *diag.Error {
	if cfg.Sitekey == "" {
		return diag.New(diag.CodeMissingSitekey, "sitekey attribute missing or empty")
	}
	if !types.ValidSize(cfg.Size) {
		return diag.New(diag.CodeInvalidSize, "invalid widget size %q", cfg.Size)
	}
	return nil
}

// pick implements the render-time precedence: attribute, then override, then
// default. An attribute that is present but empty counts as absent.
func pick(el *dom.Element, attr, override, def string) string {
	if v, ok := el.Attr(attr); ok && v != "" {
		return v
	}
	if override != "" {
		return override
	}
	return def
}
