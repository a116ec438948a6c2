package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/weldworks/workshop-api/internal/domain"
	"github.com/weldworks/workshop-api/internal/repository"
)

// Service runs spreadsheet imports against templates.
type Service struct {
	templates repository.TemplateRepository
	entries   repository.EntryRepository
	runs      repository.ImportRunRepository
}

// NewService creates a new import service. The run repository may be nil;
// audit records are best-effort and never affect the import outcome.
func NewService(
	templates repository.TemplateRepository,
	entries repository.EntryRepository,
	runs repository.ImportRunRepository,
) *Service {
	return &Service{
		templates: templates,
		entries:   entries,
		runs:      runs,
	}
}

// Run executes one import: it resolves the template fresh (so template
// edits affect this run, not the state at schedule time), transforms the
// spreadsheet through the template's mapping, and persists all resulting
// entries as a single batch bound to the template's current machine.
// Returns the number of entries written. A missing or inactive template
// yields ErrTemplateNotFound before anything is read or written.
func (s *Service) Run(ctx context.Context, filePath string, templateID uuid.UUID) (int, error) {
	run := s.beginRun(ctx, filePath, templateID)

	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
		} else {
			err = fmt.Errorf("failed to resolve template: %w", err)
		}
		s.finishRun(ctx, run, 0, err)
		return 0, err
	}
	if !template.Active {
		err := fmt.Errorf("%w: %s is inactive", ErrTemplateNotFound, templateID)
		s.finishRun(ctx, run, 0, err)
		return 0, err
	}

	records, err := Transform(filePath, template.Mapping)
	if err != nil {
		s.finishRun(ctx, run, 0, err)
		return 0, err
	}

	count, err := s.entries.CreateBatch(ctx, template.ID, template.MachineID, records)
	if err != nil {
		err = fmt.Errorf("failed to persist entries: %w", err)
		s.finishRun(ctx, run, 0, err)
		return 0, err
	}

	s.finishRun(ctx, run, count, nil)
	return count, nil
}

// RunScheduled is the scheduler-facing wrapper around Run. A template that
// was deleted or deactivated after scheduling makes the run a silent no-op;
// there is no caller to report to. All other failures are logged and
// dropped — a failed scheduled run is simply absent until the next trigger.
// The synchronous upload path calls Run directly and propagates everything.
func (s *Service) RunScheduled(ctx context.Context, filePath string, templateID uuid.UUID) {
	count, err := s.Run(ctx, filePath, templateID)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return
		}
		log.Printf("[IMPORT] scheduled run for template %s failed: %v", templateID, err)
		return
	}
	log.Printf("[IMPORT] scheduled run for template %s imported %d entries", templateID, count)
}

func (s *Service) beginRun(ctx context.Context, filePath string, templateID uuid.UUID) *domain.ImportRun {
	if s.runs == nil {
		return nil
	}
	run, err := s.runs.Create(ctx, domain.NewImportRun(filepath.Base(filePath), templateID, nil))
	if err != nil {
		log.Printf("[IMPORT] failed to record import run: %v", err)
		return nil
	}
	if err := s.runs.UpdateStatus(ctx, run.ID, domain.ImportRunRunning, run.Details); err != nil {
		log.Printf("[IMPORT] failed to mark import run running: %v", err)
	}
	return &run
}

func (s *Service) finishRun(ctx context.Context, run *domain.ImportRun, imported int, runErr error) {
	if run == nil {
		return
	}
	status := domain.ImportRunCompleted
	details := map[string]any{"imported": imported}
	if runErr != nil {
		status = domain.ImportRunFailed
		details = map[string]any{"error": runErr.Error()}
	}
	if err := s.runs.UpdateStatus(ctx, run.ID, status, details); err != nil {
		log.Printf("[IMPORT] failed to finish import run: %v", err)
	}
}
