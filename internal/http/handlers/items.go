package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"labelscan/internal/domain"
	"labelscan/internal/queue"
)

// multipartMemoryLimit caps how much of a parsed upload stays in memory
// before the stdlib spills to temp files.
const multipartMemoryLimit = 8 << 20

type itemView struct {
	ID           string                  `json:"id"`
	FileName     string                  `json:"fileName"`
	MIMEType     string                  `json:"mimeType"`
	Status       domain.Status           `json:"status"`
	Fields       *domain.ExtractedFields `json:"fields,omitempty"`
	ErrorMessage string                  `json:"errorMessage,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
	UpdatedAt    time.Time               `json:"updatedAt"`
}

type listResponse struct {
	Items    []itemView  `json:"items"`
	Throttle queue.State `json:"throttle"`
}

// ItemsUpload accepts one multipart form with any number of files under the
// "images" field and enqueues each for extraction.
func (a *App) ItemsUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "no files in \"images\" field")
		return
	}

	// Read and validate every file before enqueueing any, so a rejected
	// batch leaves the queue untouched and can be re-uploaded as a whole.
	type upload struct {
		fileName string
		mimeType string
		data     []byte
	}
	uploads := make([]upload, 0, len(files))
	for _, header := range files {
		data, mimeType, err := readImageFile(header)
		if err != nil {
			if errors.Is(err, domain.ErrUnsupportedImage) {
				a.error(w, http.StatusUnsupportedMediaType, "unsupported_media_type", header.Filename+" is not a supported image")
				return
			}
			a.error(w, http.StatusBadRequest, "bad_request", "failed to read "+header.Filename)
			return
		}
		uploads = append(uploads, upload{
			fileName: sanitizeFileName(header.Filename),
			mimeType: mimeType,
			data:     data,
		})
	}

	created := make([]itemView, 0, len(uploads))
	for _, u := range uploads {
		item := a.Store.Enqueue(u.fileName, u.mimeType, u.data)
		created = append(created, newItemView(item))
	}

	a.Logger.Info().Int("count", len(created)).Msg("handlers: enqueued uploads")
	a.json(w, http.StatusAccepted, map[string]any{"items": created})
}

// ItemsList returns the current snapshot plus the throttle state that drives
// the visible countdown.
func (a *App) ItemsList(w http.ResponseWriter, r *http.Request) {
	snapshot := a.Store.Snapshot()
	views := make([]itemView, len(snapshot))
	for i, it := range snapshot {
		views[i] = newItemView(it)
	}
	a.json(w, http.StatusOK, listResponse{Items: views, Throttle: a.Controller.State()})
}

// ItemsDelete removes one item. An extraction already in flight is not
// cancelled; its result will be discarded when it lands.
func (a *App) ItemsDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Store.Delete(id); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ItemsImage serves the original upload bytes as the preview.
func (a *App) ItemsImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := a.Store.Get(id)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "item not found")
		return
	}
	w.Header().Set("Content-Type", item.MIMEType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = w.Write(item.ImageData)
}

func newItemView(it domain.Item) itemView {
	return itemView{
		ID:           it.ID,
		FileName:     it.FileName,
		MIMEType:     it.MIMEType,
		Status:       it.Status,
		Fields:       it.Fields,
		ErrorMessage: it.ErrorMessage,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func readImageFile(header *multipart.FileHeader) ([]byte, string, error) {
	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	// Sniff the real content type; the declared header is advisory.
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", domain.ErrUnsupportedImage
	}
	return data, mimeType, nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
