package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/weldworks/workshop-api/internal/domain"
	"github.com/weldworks/workshop-api/internal/repository"
)

type stubTemplateRepo struct {
	template domain.Template
	err      error
}

func (s *stubTemplateRepo) Create(ctx context.Context, template domain.Template) (domain.Template, error) {
	return template, nil
}

func (s *stubTemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Template, error) {
	if s.err != nil {
		return domain.Template{}, s.err
	}
	return s.template, nil
}

func (s *stubTemplateRepo) List(ctx context.Context) ([]domain.Template, error) {
	return []domain.Template{s.template}, nil
}

func (s *stubTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubEntryRepo struct {
	templateID uuid.UUID
	machineID  uuid.UUID
	records    []domain.EntryData
	calls      int
	failWith   error
}

func (s *stubEntryRepo) CreateBatch(ctx context.Context, templateID, machineID uuid.UUID, records []domain.EntryData) (int, error) {
	s.calls++
	if s.failWith != nil {
		return 0, s.failWith
	}
	s.templateID = templateID
	s.machineID = machineID
	s.records = records
	return len(records), nil
}

func (s *stubEntryRepo) ListByTemplate(ctx context.Context, templateID uuid.UUID, limit, offset int) ([]domain.WorkshopEntry, error) {
	return nil, nil
}

type stubRunRepo struct {
	created  []domain.ImportRun
	statuses []domain.ImportRunStatus
}

func (s *stubRunRepo) Create(ctx context.Context, run domain.ImportRun) (domain.ImportRun, error) {
	s.created = append(s.created, run)
	return run, nil
}

func (s *stubRunRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ImportRunStatus, details map[string]any) error {
	s.statuses = append(s.statuses, status)
	return nil
}

func activeTemplate() domain.Template {
	return domain.Template{
		ID:        uuid.New(),
		Name:      "line sensors",
		MachineID: uuid.New(),
		Mapping: map[string]string{
			"Temp (C)": "temperature",
			"Pressure": "pressure",
		},
		Active: true,
	}
}

func sensorWorkbook(t *testing.T) string {
	t.Helper()
	return writeWorkbook(t, [][]any{
		{"Temp (C)", "Pressure", "Operator"},
		{21.5, 101.3, "alice"},
		{22.0, nil, "bob"},
		{19.8, 99.1, "carol"},
	})
}

func TestRunImportsAllRows(t *testing.T) {
	template := activeTemplate()
	templates := &stubTemplateRepo{template: template}
	entries := &stubEntryRepo{}
	runs := &stubRunRepo{}

	service := NewService(templates, entries, runs)

	count, err := service.Run(context.Background(), sensorWorkbook(t), template.ID)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 imported entries, got %d", count)
	}

	if entries.templateID != template.ID {
		t.Fatalf("entries bound to wrong template: %s", entries.templateID)
	}
	if entries.machineID != template.MachineID {
		t.Fatalf("entries bound to wrong machine: %s", entries.machineID)
	}
	if len(entries.records) != 3 {
		t.Fatalf("expected 3 persisted records, got %d", len(entries.records))
	}
	if !entries.records[1]["pressure"].IsNull() {
		t.Fatalf("expected row 2 pressure to be null, got %+v", entries.records[1]["pressure"])
	}
}

func TestRunTemplateNotFound(t *testing.T) {
	templates := &stubTemplateRepo{err: fmt.Errorf("template: %w", repository.ErrNotFound)}
	entries := &stubEntryRepo{}

	service := NewService(templates, entries, nil)

	_, err := service.Run(context.Background(), sensorWorkbook(t), uuid.New())
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if entries.calls != 0 {
		t.Fatalf("no entries may be written for a missing template")
	}
}

func TestRunInactiveTemplate(t *testing.T) {
	template := activeTemplate()
	template.Active = false
	templates := &stubTemplateRepo{template: template}
	entries := &stubEntryRepo{}

	service := NewService(templates, entries, nil)

	_, err := service.Run(context.Background(), sensorWorkbook(t), template.ID)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound for inactive template, got %v", err)
	}
	if entries.calls != 0 {
		t.Fatalf("no entries may be written for an inactive template")
	}
}

func TestRunPersistFailurePropagates(t *testing.T) {
	template := activeTemplate()
	templates := &stubTemplateRepo{template: template}
	entries := &stubEntryRepo{failWith: errors.New("commit failed")}
	runs := &stubRunRepo{}

	service := NewService(templates, entries, runs)

	_, err := service.Run(context.Background(), sensorWorkbook(t), template.ID)
	if err == nil {
		t.Fatalf("expected persistence error to propagate")
	}

	last := runs.statuses[len(runs.statuses)-1]
	if last != domain.ImportRunFailed {
		t.Fatalf("expected failed run status, got %s", last)
	}
}

func TestRunRecordsAuditTransitions(t *testing.T) {
	template := activeTemplate()
	templates := &stubTemplateRepo{template: template}
	runs := &stubRunRepo{}

	service := NewService(templates, &stubEntryRepo{}, runs)

	if _, err := service.Run(context.Background(), sensorWorkbook(t), template.ID); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	if len(runs.created) != 1 {
		t.Fatalf("expected one run record, got %d", len(runs.created))
	}
	if runs.created[0].Status != domain.ImportRunPending {
		t.Fatalf("run must start pending, got %s", runs.created[0].Status)
	}
	want := []domain.ImportRunStatus{domain.ImportRunRunning, domain.ImportRunCompleted}
	if len(runs.statuses) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, runs.statuses)
	}
	for i, status := range want {
		if runs.statuses[i] != status {
			t.Fatalf("expected transitions %v, got %v", want, runs.statuses)
		}
	}
}

func TestRunScheduledSwallowsMissingTemplate(t *testing.T) {
	templates := &stubTemplateRepo{err: fmt.Errorf("template: %w", repository.ErrNotFound)}
	entries := &stubEntryRepo{}

	service := NewService(templates, entries, nil)

	// No caller to report to on the scheduled path; must not panic and
	// must write nothing.
	service.RunScheduled(context.Background(), sensorWorkbook(t), uuid.New())

	if entries.calls != 0 {
		t.Fatalf("scheduled run against missing template wrote entries")
	}
}

func TestRunScheduledDropsOtherFailures(t *testing.T) {
	template := activeTemplate()
	templates := &stubTemplateRepo{template: template}
	entries := &stubEntryRepo{failWith: errors.New("commit failed")}

	service := NewService(templates, entries, nil)

	service.RunScheduled(context.Background(), sensorWorkbook(t), template.ID)

	if entries.calls != 1 {
		t.Fatalf("expected exactly one persist attempt, got %d", entries.calls)
	}
}
