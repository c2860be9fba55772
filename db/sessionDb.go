package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"interviewprep/models"

	"github.com/google/uuid"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session, questions []*models.Question) error
	GetSessionByID(ctx context.Context, id string) (*models.Session, error)
	ListSessionsByUser(ctx context.Context, userID string) ([]*models.Session, error)
	AppendQuestions(ctx context.Context, sessionID string, questions []*models.Question, at time.Time) error
	TouchSession(ctx context.Context, id string, at time.Time) error
	DeleteSession(ctx context.Context, id string) error
}

type PostgresSessionRepository struct {
	db *sql.DB
}

func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

const sessionColumns = `
		s.id, s.user_id, s.role, s.experience, s.topics_to_focus, s.description,
		s.created_at, s.updated_at, s.last_accessed_at,
		(SELECT COUNT(*) FROM questions q WHERE q.session_id = s.id)`

// CreateSession stores the session and its initial questions in one
// transaction. Ids are assigned here.
func (r *PostgresSessionRepository) CreateSession(ctx context.Context, session *models.Session, questions []*models.Question) error {
	session.ID = uuid.NewString()

	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		query := `
			INSERT INTO sessions (id, user_id, role, experience, topics_to_focus, description, created_at, updated_at, last_accessed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

		_, err := tx.ExecContext(ctx, query,
			session.ID, session.UserID, session.Role, session.Experience, session.TopicsToFocus, session.Description,
			session.CreatedAt, session.UpdatedAt, session.LastAccessedAt)
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		if err := insertQuestions(ctx, tx, session.ID, questions); err != nil {
			return err
		}
		session.QuestionCount = len(questions)
		return nil
	})
}

func (r *PostgresSessionRepository) GetSessionByID(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT` + sessionColumns + `
		FROM sessions s
		WHERE s.id = $1`

	session := &models.Session{}
	err := scanSession(r.db.QueryRowContext(ctx, query, id), session)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("session", id)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// ListSessionsByUser returns the user's sessions, newest first.
func (r *PostgresSessionRepository) ListSessionsByUser(ctx context.Context, userID string) ([]*models.Session, error) {
	query := `SELECT` + sessionColumns + `
		FROM sessions s
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC, s.id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*models.Session, 0)
	for rows.Next() {
		session := &models.Session{}
		if err := scanSession(rows, session); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over sessions: %w", err)
	}

	return sessions, nil
}

// AppendQuestions adds questions after the existing ones. The session row is
// locked for the duration so concurrent appends each land as a whole.
func (r *PostgresSessionRepository) AppendQuestions(ctx context.Context, sessionID string, questions []*models.Question, at time.Time) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		var id string
		err := tx.QueryRowContext(ctx, `SELECT id FROM sessions WHERE id = $1 FOR UPDATE`, sessionID).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("session", sessionID)
			}
			return fmt.Errorf("failed to lock session: %w", err)
		}

		if err := insertQuestions(ctx, tx, sessionID, questions); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = $2 WHERE id = $1`, sessionID, at); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		return nil
	})
}

func (r *PostgresSessionRepository) TouchSession(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE sessions SET last_accessed_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return requireAffected(result, "session", id)
}

// DeleteSession removes the session's questions and then the session itself
// in one transaction.
func (r *PostgresSessionRepository) DeleteSession(ctx context.Context, id string) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE session_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete session questions: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return requireAffected(result, "session", id)
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner, s *models.Session) error {
	return row.Scan(&s.ID, &s.UserID, &s.Role, &s.Experience, &s.TopicsToFocus, &s.Description,
		&s.CreatedAt, &s.UpdatedAt, &s.LastAccessedAt, &s.QuestionCount)
}

func requireAffected(result sql.Result, kind, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound(kind, id)
	}
	return nil
}
