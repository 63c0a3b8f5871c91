package handlers

import (
	"net/http"

	"labelscan/web"
)

// UI serves the embedded single-page frontend.
func (a *App) UI(w http.ResponseWriter, r *http.Request) {
	page, err := web.Assets.ReadFile("index.html")
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "frontend assets unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}
