package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"labelscan/internal/domain"
	"labelscan/internal/export"
	"labelscan/internal/middleware"
)

var nothingToExportNotice = map[string]string{
	"en": "No completed rows to export yet.",
	"es": "Todavía no hay filas completadas para exportar.",
}

// Export streams an .xlsx workbook of all done items. With nothing done it
// answers 409 with a localized, user-visible notice instead of a file.
func (a *App) Export(w http.ResponseWriter, r *http.Request) {
	workbook, err := export.BuildWorkbook(a.Store.Snapshot())
	if err != nil {
		if errors.Is(err, domain.ErrNothingToExport) {
			locale := middleware.LocaleFromContext(r.Context())
			notice, ok := nothingToExportNotice[locale]
			if !ok {
				notice = nothingToExportNotice["en"]
			}
			a.error(w, http.StatusConflict, "nothing_to_export", notice)
			return
		}
		a.Logger.Error().Err(err).Msg("handlers: export failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build workbook")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(workbook)))
	_, _ = w.Write(workbook)
}
