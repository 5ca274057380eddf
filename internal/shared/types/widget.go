package types

// Size controls the rendered footprint of a widget. It is one of only two
// hard-validated configuration fields.
type Size string

const (
	SizeNormal  Size = "normal"
	SizeCompact Size = "compact"
)

// ValidSize reports whether s is in the allowed size set.
func ValidSize(s Size) bool {
	return s == SizeNormal || s == SizeCompact
}

// Theme selects the widget color scheme. Values outside the known set pass
// through unvalidated; the remote content decides how to render them.
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Execution controls when the challenge actually runs.
type Execution string

const (
	ExecutionRender  Execution = "render"
	ExecutionExecute Execution = "execute"
)

// Appearance controls when the widget becomes visible.
type Appearance string

const (
	AppearanceAlways          Appearance = "always"
	AppearanceExecute         Appearance = "execute"
	AppearanceInteractionOnly Appearance = "interaction-only"
)

// WidgetConfig is the resolved configuration for one widget. Sitekey and Size
// are validated before a widget may be mounted; everything else falls back to
// process-wide defaults when absent.
type WidgetConfig struct {
	Sitekey    string     `json:"sitekey"`
	Size       Size       `json:"size"`
	Theme      Theme      `json:"theme"`
	Execution  Execution  `json:"execution"`
	Appearance Appearance `json:"appearance"`
	Response   *string    `json:"response,omitempty"` // Verification token; cleared on reset
}

// DefaultConfig returns the process-wide configuration defaults.
func DefaultConfig() WidgetConfig {
	return WidgetConfig{
		Size:       SizeNormal,
		Theme:      ThemeAuto,
		Execution:  ExecutionRender,
		Appearance: AppearanceAlways,
	}
}

// WidgetState tracks where a widget sits in its lifecycle:
// unmounted -> mounted -> (executing <-> mounted) -> resetting -> mounted.
type WidgetState string

const (
	StateUnmounted WidgetState = "unmounted"
	StateMounted   WidgetState = "mounted"
	StateExecuting WidgetState = "executing"
	StateResetting WidgetState = "resetting"
)

// ScriptLoadMode records how the hosting script tag was loaded.
type ScriptLoadMode string

const (
	LoadSync  ScriptLoadMode = "sync"
	LoadAsync ScriptLoadMode = "async"
	LoadDefer ScriptLoadMode = "defer"
)

// ScriptConfig captures how the hosting script was embedded in a page and its
// query parameters. Discovered once per page load, read-only afterwards.
type ScriptConfig struct {
	Found    bool              `json:"found"`
	LoadMode ScriptLoadMode    `json:"load_mode"`
	Params   map[string]string `json:"params"`
}

// Stats contains per-page widget statistics.
type Stats struct {
	TotalWidgets     int `json:"total_widgets"`
	MountedWidgets   int `json:"mounted_widgets"`
	ExecutingWidgets int `json:"executing_widgets"`
}
