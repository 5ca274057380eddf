package config

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shieldgate/widgethost/internal/dom"
	"github.com/shieldgate/widgethost/internal/shared/types"
)

// ScriptPathMarker is the source-URL substring that identifies the hosting
// script tag within a page. The exact value is part of the integration
// contract with published embed snippets.
const ScriptPathMarker = "widget/v1/api.js"

// DiscoverScript locates the hosting script tag by source-URL substring
// match and reads its load mode and query parameters. The result is
// initialized once per page and read-only thereafter. A missing tag is a
// startup diagnostic for the caller, not a fatal condition.
func DiscoverScript(doc *dom.Document) types.ScriptConfig {
	cfg := types.ScriptConfig{
		LoadMode: types.LoadSync,
		Params:   map[string]string{},
	}

	doc.Selection("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if !strings.Contains(src, ScriptPathMarker) {
			return true
		}

		cfg.Found = true
		if _, ok := s.Attr("async"); ok {
			cfg.LoadMode = types.LoadAsync
		} else if _, ok := s.Attr("defer"); ok {
			cfg.LoadMode = types.LoadDefer
		}

		if u, err := url.Parse(src); err == nil {
			for k, vs := range u.Query() {
				if len(vs) > 0 {
					cfg.Params[k] = vs[0]
				}
			}
		}
		return false
	})

	return cfg
}
