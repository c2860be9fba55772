// Package dbtest provides in-memory repositories for tests of the layers
// above db. They mirror the Postgres repositories' error behaviour.
package dbtest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"interviewprep/apperr"
	"interviewprep/models"

	"github.com/google/uuid"
)

// Store backs all three repositories so that cascades are visible across them.
type Store struct {
	mu        sync.Mutex
	users     map[string]*models.User
	sessions  map[string]*models.Session
	questions map[string]*storedQuestion
	seq       int64

	// Fail, when set, is returned by every write.
	Fail error
}

type storedQuestion struct {
	q   models.Question
	seq int64
}

func NewStore() *Store {
	return &Store{
		users:     make(map[string]*models.User),
		sessions:  make(map[string]*models.Session),
		questions: make(map[string]*storedQuestion),
	}
}

// Users

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%w: email %s is already registered", apperr.ErrConflict, user.Email)
		}
	}
	user.ID = uuid.NewString()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user with id %s", apperr.ErrNotFound, id)
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: user with email %s", apperr.ErrNotFound, email)
}

// DeleteUser cascades to the user's sessions and questions.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	for sid, sess := range s.sessions {
		if sess.UserID == id {
			s.deleteSessionLocked(sid)
		}
	}
}

// Sessions

func (s *Store) CreateSession(_ context.Context, session *models.Session, questions []*models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	if _, ok := s.users[session.UserID]; !ok {
		return fmt.Errorf("failed to create session: user %s does not exist", session.UserID)
	}
	session.ID = uuid.NewString()
	s.insertQuestionsLocked(session.ID, questions)
	session.QuestionCount = len(questions)

	cp := *session
	cp.Questions = nil
	s.sessions[session.ID] = &cp
	return nil
}

func (s *Store) GetSessionByID(_ context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session with id %s", apperr.ErrNotFound, id)
	}
	cp := *sess
	cp.QuestionCount = s.countLocked(id)
	return &cp, nil
}

func (s *Store) ListSessionsByUser(_ context.Context, userID string) ([]*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Session, 0)
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			cp := *sess
			cp.QuestionCount = s.countLocked(sess.ID)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) AppendQuestions(_ context.Context, sessionID string, questions []*models.Question, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	sess, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: session with id %s", apperr.ErrNotFound, sessionID)
	}
	s.insertQuestionsLocked(sessionID, questions)
	sess.UpdatedAt = at
	return nil
}

func (s *Store) TouchSession(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%w: session with id %s", apperr.ErrNotFound, id)
	}
	sess.LastAccessedAt = at
	return nil
}

func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: session with id %s", apperr.ErrNotFound, id)
	}
	s.deleteSessionLocked(id)
	return nil
}

// Questions

func (s *Store) GetQuestionsBySession(_ context.Context, sessionID string) ([]*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionsLocked(sessionID), nil
}

func (s *Store) GetQuestionByID(_ context.Context, id string) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sq, ok := s.questions[id]
	if !ok {
		return nil, fmt.Errorf("%w: question with id %s", apperr.ErrNotFound, id)
	}
	cp := sq.q
	return &cp, nil
}

func (s *Store) UpdateQuestion(_ context.Context, question *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	sq, ok := s.questions[question.ID]
	if !ok {
		return fmt.Errorf("%w: question with id %s", apperr.ErrNotFound, question.ID)
	}
	sq.q.Note = question.Note
	sq.q.IsPinned = question.IsPinned
	sq.q.UpdatedAt = question.UpdatedAt
	return nil
}

// Inspection helpers for assertions.

// QuestionCount returns how many stored questions reference sessionID.
func (s *Store) QuestionCount(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked(sessionID)
}

// SessionCount returns the number of stored sessions.
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) insertQuestionsLocked(sessionID string, questions []*models.Question) {
	for _, q := range questions {
		s.seq++
		q.ID = uuid.NewString()
		q.SessionID = sessionID
		s.questions[q.ID] = &storedQuestion{q: *q, seq: s.seq}
	}
}

func (s *Store) questionsLocked(sessionID string) []*models.Question {
	var stored []*storedQuestion
	for _, sq := range s.questions {
		if sq.q.SessionID == sessionID {
			stored = append(stored, sq)
		}
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].seq < stored[j].seq })

	out := make([]*models.Question, 0, len(stored))
	for _, sq := range stored {
		cp := sq.q
		out = append(out, &cp)
	}
	return out
}

func (s *Store) countLocked(sessionID string) int {
	n := 0
	for _, sq := range s.questions {
		if sq.q.SessionID == sessionID {
			n++
		}
	}
	return n
}

func (s *Store) deleteSessionLocked(id string) {
	for qid, sq := range s.questions {
		if sq.q.SessionID == id {
			delete(s.questions, qid)
		}
	}
	delete(s.sessions, id)
}
