package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"interviewprep/models"

	"github.com/google/uuid"
)

type QuestionRepository interface {
	GetQuestionsBySession(ctx context.Context, sessionID string) ([]*models.Question, error)
	GetQuestionByID(ctx context.Context, id string) (*models.Question, error)
	UpdateQuestion(ctx context.Context, question *models.Question) error
}

type PostgresQuestionRepository struct {
	db DBTX
}

func NewPostgresQuestionRepository(db DBTX) *PostgresQuestionRepository {
	return &PostgresQuestionRepository{db: db}
}

// GetQuestionsBySession returns the session's questions in insertion order.
func (r *PostgresQuestionRepository) GetQuestionsBySession(ctx context.Context, sessionID string) ([]*models.Question, error) {
	query := `
		SELECT id, session_id, question, answer, note, is_pinned, created_at, updated_at
		FROM questions
		WHERE session_id = $1
		ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := make([]*models.Question, 0)
	for rows.Next() {
		q := &models.Question{}
		if err := scanQuestion(rows, q); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over questions: %w", err)
	}

	return questions, nil
}

func (r *PostgresQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	query := `
		SELECT id, session_id, question, answer, note, is_pinned, created_at, updated_at
		FROM questions
		WHERE id = $1`

	q := &models.Question{}
	if err := scanQuestion(r.db.QueryRowContext(ctx, query, id), q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("question", id)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// UpdateQuestion writes the mutable fields: pinned flag and note.
func (r *PostgresQuestionRepository) UpdateQuestion(ctx context.Context, question *models.Question) error {
	query := `
		UPDATE questions
		SET note = $2, is_pinned = $3, updated_at = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, question.ID, question.Note, question.IsPinned, question.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return requireAffected(result, "question", question.ID)
}

func insertQuestions(ctx context.Context, tx DBTX, sessionID string, questions []*models.Question) error {
	query := `
		INSERT INTO questions (id, session_id, question, answer, note, is_pinned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, q := range questions {
		q.ID = uuid.NewString()
		q.SessionID = sessionID

		_, err := tx.ExecContext(ctx, query, q.ID, q.SessionID, q.Question, q.Answer, q.Note, q.IsPinned, q.CreatedAt, q.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
	}
	return nil
}

func scanQuestion(row scanner, q *models.Question) error {
	return row.Scan(&q.ID, &q.SessionID, &q.Question, &q.Answer, &q.Note, &q.IsPinned, &q.CreatedAt, &q.UpdatedAt)
}
