package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/weldworks/workshop-api/internal/repository"
	"github.com/weldworks/workshop-api/internal/scheduler"
)

func newTestHandler(t *testing.T, templates repository.TemplateRepository, entries repository.EntryRepository) (*http.ServeMux, *scheduler.Scheduler) {
	t.Helper()

	service := NewService(templates, entries, nil)
	sched := scheduler.New(service, time.Second)

	mux := http.NewServeMux()
	NewHTTPHandler(service, sched, t.TempDir()).Register(mux)
	return mux, sched
}

func multipartUpload(t *testing.T, path string) (*bytes.Buffer, string) {
	t.Helper()

	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "sensors.xlsx")
	if err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(payload)); err != nil {
		t.Fatalf("failed to copy payload: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close form: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadImportsSpreadsheet(t *testing.T) {
	template := activeTemplate()
	templates := &stubTemplateRepo{template: template}
	entries := &stubEntryRepo{}
	mux, _ := newTestHandler(t, templates, entries)

	body, contentType := multipartUpload(t, sensorWorkbook(t))
	req := httptest.NewRequest(http.MethodPost, "/upload/"+template.ID.String(), body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["imported"] != 3 {
		t.Fatalf("expected 3 imported entries, got %d", resp["imported"])
	}
	if len(entries.records) != 3 {
		t.Fatalf("expected 3 persisted records, got %d", len(entries.records))
	}
}

func TestUploadUnknownTemplateReturnsNotFound(t *testing.T) {
	templates := &stubTemplateRepo{err: fmt.Errorf("template: %w", repository.ErrNotFound)}
	entries := &stubEntryRepo{}
	mux, _ := newTestHandler(t, templates, entries)

	body, contentType := multipartUpload(t, sensorWorkbook(t))
	req := httptest.NewRequest(http.MethodPost, "/upload/"+uuid.NewString(), body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if entries.calls != 0 {
		t.Fatalf("upload against missing template wrote entries")
	}
}

func TestScheduleRegistersDeterministicJob(t *testing.T) {
	template := activeTemplate()
	mux, sched := newTestHandler(t, &stubTemplateRepo{template: template}, &stubEntryRepo{})

	url := fmt.Sprintf("/schedule/import/%s?hour=2&minute=0&path=a.xlsx", template.ID)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, url, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	wantID := fmt.Sprintf("import_%s_2_0", template.ID)
	if resp["scheduled"] != wantID {
		t.Fatalf("expected job id %s, got %s", wantID, resp["scheduled"])
	}

	// Repeating the call collides into an upsert, not a duplicate trigger.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, url, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat, got %d", rec.Code)
	}
	if jobs := sched.Jobs(); len(jobs) != 1 {
		t.Fatalf("expected one active trigger, got %d", len(jobs))
	}
}

func TestScheduleDefaultsHourAndMinute(t *testing.T) {
	template := activeTemplate()
	mux, sched := newTestHandler(t, &stubTemplateRepo{template: template}, &stubEntryRepo{})

	url := fmt.Sprintf("/schedule/import/%s?path=a.xlsx", template.ID)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, url, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	jobs := sched.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("expected one trigger, got %d", len(jobs))
	}
	if jobs[0].Job.Hour != 2 || jobs[0].Job.Minute != 0 {
		t.Fatalf("expected default 02:00 trigger, got %02d:%02d", jobs[0].Job.Hour, jobs[0].Job.Minute)
	}
}

func TestScheduleRequiresPath(t *testing.T) {
	template := activeTemplate()
	mux, _ := newTestHandler(t, &stubTemplateRepo{template: template}, &stubEntryRepo{})

	url := fmt.Sprintf("/schedule/import/%s?hour=2", template.ID)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, url, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without path, got %d", rec.Code)
	}
}

func TestScheduleRejectsOutOfRangeTrigger(t *testing.T) {
	template := activeTemplate()
	mux, _ := newTestHandler(t, &stubTemplateRepo{template: template}, &stubEntryRepo{})

	url := fmt.Sprintf("/schedule/import/%s?hour=24&path=a.xlsx", template.ID)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, url, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for hour 24, got %d", rec.Code)
	}
}
