package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"interviewprep/apperr"
	"interviewprep/config"
	"interviewprep/db"
	"interviewprep/models"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

const (
	maxBatchSize  = config.MaxQuestionBatch
	maxNoteLength = 10000
)

// SessionStoreService owns sessions and their questions. Every operation
// takes the acting user and checks ownership before reading or writing.
type SessionStoreService struct {
	sessions  db.SessionRepository
	questions db.QuestionRepository
	now       func() time.Time
}

func NewSessionStoreService(sessions db.SessionRepository, questions db.QuestionRepository) *SessionStoreService {
	return &SessionStoreService{
		sessions:  sessions,
		questions: questions,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession persists a session together with its initial questions.
func (s *SessionStoreService) CreateSession(ctx context.Context, owner string, req *models.CreateSessionRequest) (*models.Session, error) {
	log.Printf("[INFO] Starting session creation for user %s with %d questions", owner, len(req.Questions))

	if err := s.validateCreateRequest(req); err != nil {
		log.Printf("[ERROR] Session creation validation failed: %v", err)
		return nil, err
	}

	now := s.now()
	session := &models.Session{
		UserID:         owner,
		Role:           strings.TrimSpace(req.Role),
		Experience:     strings.TrimSpace(req.Experience),
		TopicsToFocus:  strings.TrimSpace(req.TopicsToFocus),
		Description:    strings.TrimSpace(req.Description),
		CreatedAt:      now,
		UpdatedAt:      now,
		LastAccessedAt: now,
	}
	questions := s.newQuestions(req.Questions, now)

	if err := s.sessions.CreateSession(ctx, session, questions); err != nil {
		log.Printf("[ERROR] Failed to create session in repository: %v", err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	session.Questions = questions
	session.QuestionCount = len(questions)

	log.Printf("[INFO] Successfully created session %s with %d questions", session.ID, len(questions))
	return session, nil
}

// AppendQuestions adds questions after the session's existing ones and
// returns the updated session.
func (s *SessionStoreService) AppendQuestions(ctx context.Context, owner, sessionID string, pairs []models.QAPair) (*models.Session, error) {
	log.Printf("[INFO] Starting append of %d questions to session %s", len(pairs), sessionID)

	if _, err := s.ownedSession(ctx, owner, sessionID); err != nil {
		log.Printf("[ERROR] Append rejected for session %s: %v", sessionID, err)
		return nil, err
	}

	if err := validatePairs(pairs); err != nil {
		log.Printf("[ERROR] Append validation failed: %v", err)
		return nil, err
	}

	now := s.now()
	if err := s.sessions.AppendQuestions(ctx, sessionID, s.newQuestions(pairs, now), now); err != nil {
		log.Printf("[ERROR] Failed to append questions to session %s: %v", sessionID, err)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to append questions: %w", err)
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] Successfully appended %d questions to session %s (now %d)", len(pairs), sessionID, session.QuestionCount)
	return session, nil
}

// GetSession returns the session with its full ordered question list and
// records the access time.
func (s *SessionStoreService) GetSession(ctx context.Context, owner, sessionID string) (*models.Session, error) {
	log.Printf("[INFO] Starting get session %s", sessionID)

	if _, err := s.ownedSession(ctx, owner, sessionID); err != nil {
		log.Printf("[ERROR] Failed to get session %s: %v", sessionID, err)
		return nil, err
	}

	now := s.now()
	if err := s.sessions.TouchSession(ctx, sessionID, now); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		log.Printf("[WARN] Failed to record access to session %s: %v", sessionID, err)
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		log.Printf("[ERROR] Failed to load session %s: %v", sessionID, err)
		return nil, err
	}

	log.Printf("[INFO] Successfully retrieved session %s with %d questions", sessionID, len(session.Questions))
	return session, nil
}

// ListSessions returns the owner's sessions, newest first. A non-empty query
// keeps only sessions whose role, topics or description match it.
func (s *SessionStoreService) ListSessions(ctx context.Context, owner, query string) ([]*models.Session, error) {
	log.Printf("[INFO] Starting list sessions for user %s", owner)

	sessions, err := s.sessions.ListSessionsByUser(ctx, owner)
	if err != nil {
		log.Printf("[ERROR] Failed to list sessions: %v", err)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	if terms := strings.Fields(query); len(terms) > 0 {
		sessions = lo.Filter(sessions, func(session *models.Session, _ int) bool {
			return s.sessionMatchesSearch(session, terms)
		})
		log.Printf("[INFO] Search %q matched %d sessions", query, len(sessions))
	}

	log.Printf("[INFO] Successfully retrieved %d sessions", len(sessions))
	return sessions, nil
}

// DeleteSession removes the session and all of its questions.
func (s *SessionStoreService) DeleteSession(ctx context.Context, owner, sessionID string) error {
	log.Printf("[INFO] Starting delete session %s", sessionID)

	if _, err := s.ownedSession(ctx, owner, sessionID); err != nil {
		log.Printf("[ERROR] Delete rejected for session %s: %v", sessionID, err)
		return err
	}

	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		log.Printf("[ERROR] Failed to delete session %s: %v", sessionID, err)
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.Printf("[INFO] Successfully deleted session %s", sessionID)
	return nil
}

// GetQuestion returns a question owned (through its session) by owner.
func (s *SessionStoreService) GetQuestion(ctx context.Context, owner, questionID string) (*models.Question, error) {
	return s.ownedQuestion(ctx, owner, "", questionID)
}

// SetPinned sets the pinned flag. sessionID may be empty; when given it must
// be the question's session.
func (s *SessionStoreService) SetPinned(ctx context.Context, owner, sessionID, questionID string, pinned bool) (*models.Question, error) {
	return s.UpdateQuestion(ctx, owner, sessionID, questionID, &models.UpdateQuestionRequest{IsPinned: &pinned})
}

func (s *SessionStoreService) SetNote(ctx context.Context, owner, sessionID, questionID, note string) (*models.Question, error) {
	return s.UpdateQuestion(ctx, owner, sessionID, questionID, &models.UpdateQuestionRequest{Note: &note})
}

// TogglePinned flips the pinned flag.
func (s *SessionStoreService) TogglePinned(ctx context.Context, owner, questionID string) (*models.Question, error) {
	log.Printf("[INFO] Starting toggle pin for question %s", questionID)

	question, err := s.ownedQuestion(ctx, owner, "", questionID)
	if err != nil {
		log.Printf("[ERROR] Toggle pin rejected for question %s: %v", questionID, err)
		return nil, err
	}

	question.IsPinned = !question.IsPinned
	return s.saveQuestion(ctx, question)
}

// UpdateQuestion applies a partial update of the pinned flag and/or note.
// Ownership is checked before the patch is validated.
func (s *SessionStoreService) UpdateQuestion(ctx context.Context, owner, sessionID, questionID string, req *models.UpdateQuestionRequest) (*models.Question, error) {
	log.Printf("[INFO] Starting update question %s", questionID)

	question, err := s.ownedQuestion(ctx, owner, sessionID, questionID)
	if err != nil {
		log.Printf("[ERROR] Update rejected for question %s: %v", questionID, err)
		return nil, err
	}

	if req.IsPinned == nil && req.Note == nil {
		err := fmt.Errorf("%w: isPinned or note is required", apperr.ErrInvalidInput)
		log.Printf("[ERROR] Question update validation failed: %v", err)
		return nil, err
	}
	if req.Note != nil && len(*req.Note) > maxNoteLength {
		err := fmt.Errorf("%w: note cannot exceed %d characters", apperr.ErrInvalidInput, maxNoteLength)
		log.Printf("[ERROR] Question update validation failed: %v", err)
		return nil, err
	}

	if req.IsPinned != nil {
		question.IsPinned = *req.IsPinned
	}
	if req.Note != nil {
		question.Note = strings.TrimSpace(*req.Note)
	}

	return s.saveQuestion(ctx, question)
}

func (s *SessionStoreService) saveQuestion(ctx context.Context, question *models.Question) (*models.Question, error) {
	question.UpdatedAt = s.now()
	if err := s.questions.UpdateQuestion(ctx, question); err != nil {
		log.Printf("[ERROR] Failed to update question %s: %v", question.ID, err)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	log.Printf("[INFO] Successfully updated question %s", question.ID)
	return question, nil
}

// ownedSession loads the session and checks that owner holds it.
func (s *SessionStoreService) ownedSession(ctx context.Context, owner, sessionID string) (*models.Session, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("%w: session with id %s", apperr.ErrNotFound, sessionID)
	}

	session, err := s.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != owner {
		return nil, fmt.Errorf("%w: session %s belongs to another user", apperr.ErrForbidden, sessionID)
	}
	return session, nil
}

func (s *SessionStoreService) ownedQuestion(ctx context.Context, owner, sessionID, questionID string) (*models.Question, error) {
	if _, err := uuid.Parse(questionID); err != nil {
		return nil, fmt.Errorf("%w: question with id %s", apperr.ErrNotFound, questionID)
	}

	question, err := s.questions.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if sessionID != "" && question.SessionID != sessionID {
		return nil, fmt.Errorf("%w: question %s is not in session %s", apperr.ErrNotFound, questionID, sessionID)
	}

	if _, err := s.ownedSession(ctx, owner, question.SessionID); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *SessionStoreService) loadSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.GetQuestionsBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	session.Questions = questions
	session.QuestionCount = len(questions)
	return session, nil
}

func (s *SessionStoreService) newQuestions(pairs []models.QAPair, now time.Time) []*models.Question {
	return lo.Map(pairs, func(p models.QAPair, _ int) *models.Question {
		return &models.Question{
			Question:  strings.TrimSpace(p.Question),
			Answer:    strings.TrimSpace(p.Answer),
			CreatedAt: now,
			UpdatedAt: now,
		}
	})
}

func (s *SessionStoreService) validateCreateRequest(req *models.CreateSessionRequest) error {
	if strings.TrimSpace(req.Role) == "" {
		return fmt.Errorf("%w: role is required", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Experience) == "" {
		return fmt.Errorf("%w: experience is required", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(req.TopicsToFocus) == "" {
		return fmt.Errorf("%w: topicsToFocus is required", apperr.ErrInvalidInput)
	}
	return validatePairs(req.Questions)
}

func validatePairs(pairs []models.QAPair) error {
	if len(pairs) == 0 {
		return fmt.Errorf("%w: at least one question is required", apperr.ErrInvalidInput)
	}
	if len(pairs) > maxBatchSize {
		return fmt.Errorf("%w: at most %d questions can be added at once", apperr.ErrInvalidInput, maxBatchSize)
	}
	for i, p := range pairs {
		if strings.TrimSpace(p.Question) == "" || strings.TrimSpace(p.Answer) == "" {
			return fmt.Errorf("%w: question %d must have non-empty question and answer", apperr.ErrInvalidInput, i+1)
		}
	}
	return nil
}

func (s *SessionStoreService) sessionMatchesSearch(session *models.Session, searchTerms []string) bool {
	content := strings.Join([]string{session.Role, session.TopicsToFocus, session.Description}, " ")
	words := strings.Fields(strings.ToLower(content))

	cleanWords := make([]string, 0, len(words))
	for _, word := range words {
		cleanWord := strings.Trim(word, ".,!?;:()[]{}\"'")
		if len(cleanWord) > 0 {
			cleanWords = append(cleanWords, cleanWord)
		}
	}

	for _, term := range searchTerms {
		if fuzzy.MatchFold(term, content) {
			return true
		}

		// one-letter typos against individual words
		for _, word := range cleanWords {
			if len(term) > 3 && fuzzy.LevenshteinDistance(strings.ToLower(term), word) <= 1 {
				return true
			}
		}
	}

	return false
}
