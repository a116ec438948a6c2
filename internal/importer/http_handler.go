package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/weldworks/workshop-api/internal/scheduler"
)

// Handler exposes the import pipeline over HTTP: a synchronous upload
// trigger and a recurring-schedule trigger.
type Handler struct {
	service   *Service
	scheduler *scheduler.Scheduler
	uploadDir string
}

// NewHTTPHandler wires the import endpoints.
func NewHTTPHandler(service *Service, sched *scheduler.Scheduler, uploadDir string) *Handler {
	return &Handler{service: service, scheduler: sched, uploadDir: uploadDir}
}

// Register mounts the import routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /upload/{templateId}", h.handleUpload)
	mux.HandleFunc("POST /schedule/import/{templateId}", h.handleSchedule)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	templateID, err := uuid.Parse(r.PathValue("templateId"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid template id: %v", err), http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		http.Error(w, fmt.Sprintf("failed to prepare upload dir: %v", err), http.StatusInternalServerError)
		return
	}

	filePath := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s", uuid.New(), filepath.Base(header.Filename)))
	dst, err := os.Create(filePath)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to store upload: %v", err), http.StatusInternalServerError)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		http.Error(w, fmt.Sprintf("failed to store upload: %v", err), http.StatusInternalServerError)
		return
	}
	if err := dst.Close(); err != nil {
		http.Error(w, fmt.Sprintf("failed to store upload: %v", err), http.StatusInternalServerError)
		return
	}

	count, err := h.service.Run(r.Context(), filePath, templateID)
	if err != nil {
		switch {
		case errors.Is(err, ErrTemplateNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrUnreadableFormat):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"imported": count})
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	templateID, err := uuid.Parse(r.PathValue("templateId"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid template id: %v", err), http.StatusBadRequest)
		return
	}

	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		http.Error(w, "path to excel file required", http.StatusBadRequest)
		return
	}

	hour, err := queryInt(r, "hour", 2)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	minute, err := queryInt(r, "minute", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Deterministic id: identical parameters collide into an upsert rather
	// than registering a duplicate trigger.
	jobID := fmt.Sprintf("import_%s_%d_%d", templateID, hour, minute)

	if err := h.scheduler.Schedule(scheduler.Job{
		ID:         jobID,
		Hour:       hour,
		Minute:     minute,
		FilePath:   path,
		TemplateID: templateID,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"scheduled": jobID})
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return value, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
