package boundary

import (
	"net/url"

	"github.com/shieldgate/widgethost/internal/shared/id"
	"github.com/shieldgate/widgethost/internal/shared/types"
)

// WidgetPath is the fixed path segment under the challenge origin. Together
// with the origin, the widget id path component, and the size/theme query
// parameters it forms the remote content address. The structure must be
// reproduced bit-for-bit for interop with the remote service.
const WidgetPath = "/widget/v1/"

// BuildAddress constructs the remote content address for a widget. Only the
// rendering-relevant fields (size, theme) are forwarded; the sitekey and the
// behavioral fields stay on the host side. Construction never fails for
// pre-validated configuration.
func BuildAddress(origin string, widgetID id.WidgetID, cfg types.WidgetConfig) string {
	q := url.Values{}
	q.Set("size", string(cfg.Size))
	q.Set("theme", string(cfg.Theme))

	u := url.URL{
		Path:     WidgetPath + widgetID.String(),
		RawQuery: q.Encode(),
	}
	return origin + u.String()
}
