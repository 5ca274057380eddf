package autoinit

import (
	"strings"
	"testing"

	"github.com/shieldgate/widgethost/internal/boundary"
	"github.com/shieldgate/widgethost/internal/dom"
	"github.com/shieldgate/widgethost/internal/lifecycle"
	"github.com/shieldgate/widgethost/internal/logging"
	"github.com/shieldgate/widgethost/internal/messenger"
	"github.com/shieldgate/widgethost/internal/registry"
	"github.com/shieldgate/widgethost/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHarness(t *testing.T, page string) (*Initializer, *registry.Registry) {
	t.Helper()

	doc, err := dom.Parse(strings.NewReader(page))
	require.NoError(t, err)

	logger := logging.NewNop()
	reg := registry.New()
	factory := boundary.NewFactory("https://challenges.shieldgate.io", nil)
	ctrl := lifecycle.New(doc, reg, factory, messenger.New(logger), logger)

	return New(doc, ctrl, logger), reg
}

func TestRunRendersOneWidgetPerTrigger(t *testing.T) {
	init, reg := newHarness(t, `
		<body>
			<div data-sitekey="1x00000000AAAAAAAA"></div>
			<div data-sitekey="2x00000000BBBBBBBB" data-size="compact"></div>
			<div class="plain"></div>
		</body>`)

	rendered := init.Run()

	assert.Equal(t, 2, rendered)
	assert.Equal(t, 2, reg.Len())
}

func TestRunEmptyPage(t *testing.T) {
	init, reg := newHarness(t, `<body><p>no widgets here</p></body>`)

	assert.Equal(t, 0, init.Run())
	assert.Equal(t, 0, reg.Len())
}

func TestRunOnlyOnce(t *testing.T) {
	init, reg := newHarness(t, `<body><div data-sitekey="k"></div></body>`)

	assert.Equal(t, 1, init.Run())
	assert.Equal(t, 0, init.Run(), "second run must be a no-op")
	assert.Equal(t, 1, reg.Len())
}

func TestRunSkipsInvalidTriggersButContinues(t *testing.T) {
	// An empty sitekey fails validation; the scan must still render the
	// remaining triggers.
	init, reg := newHarness(t, `
		<body>
			<div data-sitekey=""></div>
			<div data-sitekey="k"></div>
		</body>`)

	// The empty-sitekey div still matches the attribute selector but fails
	// validation, so exactly one widget appears.
	assert.Equal(t, 1, init.Run())
	assert.Equal(t, 1, reg.Len())
}

func TestEndToEndDefaults(t *testing.T) {
	init, reg := newHarness(t, `<body><div data-sitekey="1x00000000AAAAAAAA"></div></body>`)

	init.Run()

	require.Equal(t, 1, reg.Len())
	rec := reg.List()[0]
	assert.Equal(t, "1x00000000AAAAAAAA", rec.Config.Sitekey)
	assert.Equal(t, types.SizeNormal, rec.Config.Size)
	assert.Equal(t, types.ThemeAuto, rec.Config.Theme)
}
