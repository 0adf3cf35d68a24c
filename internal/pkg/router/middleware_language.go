package router

import (
	"net/http"

	"github.com/shandysiswandi/rationkiosk/internal/pkg/config"
	"github.com/shandysiswandi/rationkiosk/internal/pkg/i18n"
)

// middlewareLanguage picks the response language from ?lang=, then
// Accept-Language, then app.default_lang.
func middlewareLanguage(cfg config.Config, trans i18n.Translator) Middleware {
	fallback := i18n.English
	if cfg != nil && cfg.GetString("app.default_lang") != "" {
		fallback = cfg.GetString("app.default_lang")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := fallback
			if trans != nil {
				candidates := []string{r.URL.Query().Get("lang")}
				candidates = append(candidates, i18n.ParseAcceptLanguage(r.Header.Get("Accept-Language"))...)
				lang = trans.Negotiate(append(candidates, fallback)...)
			}

			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
		})
	}
}
