package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
)

// middlewareMaintenance blocks routes listed in app.maintenance.endpoints.
// An entry is either "<METHOD> <route>" or a bare route for every method.
// The list is read per request so a hot config reload takes effect at once.
func middlewareMaintenance(cfg config.Config, ro *Router) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg != nil && underMaintenance(cfg.GetArray("app.maintenance.endpoints"), r.Method, matchedRoutePath(r)) {
				ro.writeNotice(w, r, i18n.MsgMaintenance, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func underMaintenance(entries []string, method, route string) bool {
	for _, e := range entries {
		m, p, found := strings.Cut(strings.TrimSpace(e), " ")
		if !found {
			p, m = m, ""
		}
		if strings.TrimSpace(p) != route {
			continue
		}
		if m == "" || strings.EqualFold(m, method) {
			return true
		}
	}

	return false
}
