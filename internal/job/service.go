package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voskhttp/voskhttp/internal/models"
)

var ErrNotFound = errors.New("job not found")

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type CreateRequest struct {
	FilePath string
	Language string
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.TranscriptionJob, error) {
	id := uuid.New()

	var j models.TranscriptionJob
	err := s.db.QueryRow(ctx,
		`INSERT INTO transcription_jobs (id, file_path, language, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, file_path, language, status, created_at, updated_at`,
		id, req.FilePath, req.Language, models.JobStatusPending,
	).Scan(&j.ID, &j.FilePath, &j.Language, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	return &j, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.TranscriptionJob, error) {
	var j models.TranscriptionJob
	err := s.db.QueryRow(ctx,
		`SELECT id, file_path, language, status, result, COALESCE(error, ''), created_at, updated_at
		 FROM transcription_jobs WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.FilePath, &j.Language, &j.Status, &j.Result, &j.Error, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select job: %w", err)
	}

	return &j, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]models.TranscriptionJob, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, file_path, language, status, COALESCE(error, ''), created_at, updated_at
		 FROM transcription_jobs
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.TranscriptionJob
	for rows.Next() {
		var j models.TranscriptionJob
		if err := rows.Scan(&j.ID, &j.FilePath, &j.Language, &j.Status, &j.Error, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status models.JobStatus) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE transcription_jobs SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResult marks the job done and stores the monologues document.
func (s *Service) SetResult(ctx context.Context, id uuid.UUID, result []byte) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE transcription_jobs SET status = $2, result = $3, error = '', updated_at = now() WHERE id = $1`,
		id, models.JobStatusDone, result,
	)
	if err != nil {
		return fmt.Errorf("set result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) SetError(ctx context.Context, id uuid.UUID, msg string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE transcription_jobs SET status = $2, error = $3, updated_at = now() WHERE id = $1`,
		id, models.JobStatusFailed, msg,
	)
	if err != nil {
		return fmt.Errorf("set error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM transcription_jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
