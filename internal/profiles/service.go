package profiles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cv-backend/internal/artifacts"
	"cv-backend/internal/extract"
	"cv-backend/internal/shared/telemetry"
	"cv-backend/internal/shared/util"
)

// Upload carries one submitted document through the pipeline.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Result is the outcome of a processed submission.
type Result struct {
	ID               int64         `json:"id"`
	Record           ProfileRecord `json:"extractedData"`
	ArtifactURL      string        `json:"fileUrl"`
	OriginalFilename string        `json:"originalFilename"`
}

// ArtifactSaver persists the original upload and returns its URL.
type ArtifactSaver interface {
	Save(ctx context.Context, data []byte, fileName string, contentType string) (string, error)
}

// Service runs the ingestion pipeline: extract text, archive the original,
// structure the text, persist the record.
type Service struct {
	Structurer *Structurer
	Artifacts  ArtifactSaver
	Repo       Repo

	// now is stubbed in tests to pin artifact names.
	now func() time.Time
}

// NewService wires the pipeline stages together.
func NewService(structurer *Structurer, saver ArtifactSaver, repo Repo) *Service {
	return &Service{
		Structurer: structurer,
		Artifacts:  saver,
		Repo:       repo,
		now:        time.Now,
	}
}

// Process runs one document through the full pipeline. Extraction and the
// empty-text check happen before the artifact is archived, so rejected
// documents leave no trace. A structuring or persistence failure after the
// artifact write leaves the artifact in place; orphans are accepted.
func (s *Service) Process(ctx context.Context, up Upload) (Result, error) {
	text, err := extract.Extract(up.Data, up.ContentType)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("%w: document contains no extractable text", ErrEmptyInput)
	}

	sanitized, err := util.SanitizeFileName(up.Filename)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", artifacts.ErrPersistFailed, err)
	}
	fileName := fmt.Sprintf("%d-%s", s.now().UnixMilli(), sanitized)

	artifactURL, err := s.Artifacts.Save(ctx, up.Data, fileName, up.ContentType)
	if err != nil {
		return Result{}, err
	}

	rec, err := s.Structurer.Structure(ctx, text)
	if err != nil {
		return Result{}, err
	}

	id, err := s.Repo.Insert(ctx, rec, artifactURL, up.Filename)
	if err != nil {
		return Result{}, err
	}

	telemetry.Info("profiles.processed", map[string]any{
		"id":        id,
		"file_name": fileName,
		"chars":     len(text),
	})

	return Result{
		ID:               id,
		Record:           rec,
		ArtifactURL:      artifactURL,
		OriginalFilename: up.Filename,
	}, nil
}

// List returns submissions matching the filters, newest first.
func (s *Service) List(ctx context.Context, f Filters, p Pagination) ([]Submission, PageInfo, error) {
	return s.Repo.ListFiltered(ctx, f, p)
}

// Get fetches one submission by id.
func (s *Service) Get(ctx context.Context, id int64) (Submission, error) {
	return s.Repo.GetByID(ctx, id)
}
