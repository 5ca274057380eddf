package boundary

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shieldgate/widgethost/internal/dom"
	"github.com/shieldgate/widgethost/internal/infrastructure/resilience"
	"github.com/shieldgate/widgethost/internal/logging"
	"github.com/shieldgate/widgethost/internal/shared/id"
	"github.com/shieldgate/widgethost/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "https://challenges.shieldgate.io"

func testConfig() types.WidgetConfig {
	cfg := types.DefaultConfig()
	cfg.Sitekey = "1x00000000AAAAAAAA"
	return cfg
}

func testContainer(t *testing.T) *dom.Element {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(`<div id="slot" data-sitekey="k"></div>`))
	require.NoError(t, err)
	el := doc.QueryFirst("#slot")
	require.NotNil(t, el)
	return el
}

func TestBuildAddress(t *testing.T) {
	widgetID := id.WidgetID("wgt_01J0000000000000000000AAAA")

	addr := BuildAddress(testOrigin, widgetID, testConfig())

	// Bit-for-bit: fixed origin, fixed path, id path component, then the
	// size and theme query parameters.
	want := testOrigin + "/widget/v1/wgt_01J0000000000000000000AAAA?size=normal&theme=auto"
	assert.Equal(t, want, addr)
}

func TestBuildAddressForwardsOnlyRenderingFields(t *testing.T) {
	cfg := testConfig()
	cfg.Size = types.SizeCompact
	cfg.Theme = types.ThemeDark
	cfg.Execution = types.ExecutionExecute
	cfg.Appearance = types.AppearanceInteractionOnly

	addr := BuildAddress(testOrigin, id.NewWidgetID(), cfg)

	assert.Contains(t, addr, "size=compact")
	assert.Contains(t, addr, "theme=dark")
	assert.NotContains(t, addr, "sitekey")
	assert.NotContains(t, addr, "execution")
	assert.NotContains(t, addr, "appearance")
}

func TestCreateAttachesClosedBoundary(t *testing.T) {
	container := testContainer(t)
	factory := NewFactory(testOrigin, nil)

	frame, err := factory.Create(id.NewWidgetID(), testConfig(), container)
	require.NoError(t, err)

	root := container.Shadow()
	require.NotNil(t, root)
	assert.Equal(t, dom.ShadowClosed, root.Mode())
	assert.Len(t, root.Children(), 1)
	assert.Equal(t, container, frame.Host())
}

func TestCreateFailsOnOccupiedContainer(t *testing.T) {
	container := testContainer(t)
	factory := NewFactory(testOrigin, nil)

	_, err := factory.Create(id.NewWidgetID(), testConfig(), container)
	require.NoError(t, err)

	_, err = factory.Create(id.NewWidgetID(), testConfig(), container)
	assert.Error(t, err, "a container already hosting a boundary cannot accept another")
}

func TestSwapPreservesIdentityReplacesFrame(t *testing.T) {
	container := testContainer(t)
	factory := NewFactory(testOrigin, nil)

	old, err := factory.Create(id.NewWidgetID(), testConfig(), container)
	require.NoError(t, err)

	fresh, err := factory.Swap(old, testConfig())
	require.NoError(t, err)

	assert.Equal(t, old.WidgetID(), fresh.WidgetID(), "widget id survives the swap")
	assert.NotSame(t, old, fresh, "the boundary object itself is replaced")

	root := container.Shadow()
	require.NotNil(t, root)
	assert.Len(t, root.Children(), 1, "swap must not grow the shadow subtree")
}

func TestDetachReleasesBoundary(t *testing.T) {
	container := testContainer(t)
	factory := NewFactory(testOrigin, nil)

	frame, err := factory.Create(id.NewWidgetID(), testConfig(), container)
	require.NoError(t, err)

	frame.Detach()

	assert.Nil(t, container.Shadow(), "detach should release the shadow root")
}

func TestLoaderLoad(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	loader := NewLoader(logging.NewNop())
	widgetID := id.NewWidgetID()
	addr := BuildAddress(srv.URL, widgetID, testConfig())

	require.NoError(t, loader.Load(t.Context(), addr))
	assert.Equal(t, WidgetPath+widgetID.String(), gotPath)
}

func TestLoaderLoadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	loader := NewLoader(logging.NewNop())

	assert.Error(t, loader.Load(t.Context(), srv.URL+"/widget/v1/x"))
}

func TestLoaderBreakerOpensOnRepeatedFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	loader := NewLoader(logging.NewNop())
	addr := srv.URL + "/widget/v1/x"

	for i := 0; i < 5; i++ {
		require.Error(t, loader.Load(t.Context(), addr))
	}

	seen := hits
	err := loader.Load(t.Context(), addr)
	assert.ErrorIs(t, err, resilience.ErrOpen)
	assert.Equal(t, seen, hits, "open breaker must not reach the origin")
}
