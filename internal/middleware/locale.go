package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// LocaleKey identifies the resolved UI locale in a request context.
var LocaleKey = localeContextKey{}

var supported = []language.Tag{
	language.English, // default
	language.Spanish,
}

var matcher = language.NewMatcher(supported)

// Locale resolves the request locale from X-Locale or Accept-Language and
// stores the matched tag's base language in the context. Unknown or absent
// preferences fall back to the first supported language.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := resolveLocale(r)
		ctx := context.WithValue(r.Context(), LocaleKey, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LocaleFromContext returns the resolved locale, defaulting to "en".
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok && v != "" {
		return v
	}
	return "en"
}

func resolveLocale(r *http.Request) string {
	prefs := r.Header.Get("X-Locale")
	if prefs == "" {
		prefs = r.Header.Get("Accept-Language")
	}
	tags, _, err := language.ParseAcceptLanguage(prefs)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, idx, _ := matcher.Match(tags...)
	base, _ := supported[idx].Base()
	return base.String()
}
