// Package history persists a per-request record of /transcribe outcomes.
package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/mediatranscriber/internal/models"
)

// Recorder stores transcription log entries.
type Recorder interface {
	Record(ctx context.Context, entry models.TranscriptionLog) error
}

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) Record(ctx context.Context, entry models.TranscriptionLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO transcription_logs (id, request_id, filename, content_type, file_size, model, backend, transcoded, status, text_length, latency_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID, entry.RequestID, entry.Filename, entry.ContentType, entry.FileSize, entry.Model,
		entry.Backend, entry.Transcoded, entry.Status, entry.TextLength, entry.LatencyMs,
	)
	if err != nil {
		return fmt.Errorf("insert transcription log: %w", err)
	}

	return nil
}

type Query struct {
	Status string
	Limit  int
	Offset int
}

// Normalize clamps the page size to [1, 200], defaulting to 50.
func (q Query) Normalize() Query {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// BuildListQuery returns the SQL and arguments for a List call.
func BuildListQuery(q Query) (string, []interface{}) {
	q = q.Normalize()

	query := `SELECT id, request_id, filename, content_type, file_size, model, backend, transcoded, status, text_length, latency_ms, created_at
			  FROM transcription_logs`
	args := []interface{}{}
	argIdx := 1

	if q.Status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", argIdx)
		args = append(args, q.Status)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, q.Limit, q.Offset)

	return query, args
}

func (s *Service) List(ctx context.Context, q Query) ([]models.TranscriptionLog, error) {
	query, args := BuildListQuery(q)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transcription logs: %w", err)
	}
	defer rows.Close()

	logs := []models.TranscriptionLog{}
	for rows.Next() {
		var l models.TranscriptionLog
		if err := rows.Scan(&l.ID, &l.RequestID, &l.Filename, &l.ContentType, &l.FileSize, &l.Model,
			&l.Backend, &l.Transcoded, &l.Status, &l.TextLength, &l.LatencyMs, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transcription log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcription logs: %w", err)
	}
	return logs, nil
}
