package handlers

import (
	"encoding/json"
	"net/http"

	"labelscan/internal/infra"
	"labelscan/internal/queue"
)

// App bundles the dependencies shared by all handlers.
type App struct {
	Store          *queue.Store
	Controller     *queue.Controller
	Logger         infra.Logger
	MaxUploadBytes int64
}

// NewApp constructs the handler container.
func NewApp(store *queue.Store, controller *queue.Controller, logger infra.Logger, maxUploadBytes int64) *App {
	return &App{
		Store:          store,
		Controller:     controller,
		Logger:         logger,
		MaxUploadBytes: maxUploadBytes,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
