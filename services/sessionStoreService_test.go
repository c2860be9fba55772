package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"interviewprep/apperr"
	"interviewprep/db/dbtest"
	"interviewprep/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, store *dbtest.Store, email string) string {
	t.Helper()
	user := &models.User{Name: "Test", Email: email, PasswordHash: "x"}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user.ID
}

func newStoreService(t *testing.T) (*dbtest.Store, *SessionStoreService, string) {
	t.Helper()
	store := dbtest.NewStore()
	return store, NewSessionStoreService(store, store), newUser(t, store, "owner@example.com")
}

func createRequest(pairs ...models.QAPair) *models.CreateSessionRequest {
	return &models.CreateSessionRequest{
		Role:          "Backend Engineer",
		Experience:    "3 years",
		TopicsToFocus: "Go, SQL",
		Description:   "payments team",
		Questions:     pairs,
	}
}

func pair(q, a string) models.QAPair {
	return models.QAPair{Question: q, Answer: a}
}

func questionTexts(session *models.Session) []string {
	texts := make([]string, 0, len(session.Questions))
	for _, q := range session.Questions {
		texts = append(texts, q.Question)
	}
	return texts
}

func TestCreateSession(t *testing.T) {
	store, svc, owner := newStoreService(t)

	session, err := svc.CreateSession(context.Background(), owner, createRequest(pair(" Q1 ", "A1"), pair("Q2", "A2")))
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, owner, session.UserID)
	assert.Equal(t, 2, session.QuestionCount)
	assert.Equal(t, []string{"Q1", "Q2"}, questionTexts(session))
	for _, q := range session.Questions {
		assert.Equal(t, session.ID, q.SessionID)
		assert.False(t, q.IsPinned)
		assert.Empty(t, q.Note)
	}
	assert.Equal(t, 2, store.QuestionCount(session.ID))
}

func TestCreateSession_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *models.CreateSessionRequest)
	}{
		{name: "missing role", mutate: func(req *models.CreateSessionRequest) { req.Role = " " }},
		{name: "missing experience", mutate: func(req *models.CreateSessionRequest) { req.Experience = "" }},
		{name: "missing topics", mutate: func(req *models.CreateSessionRequest) { req.TopicsToFocus = "" }},
		{name: "no questions", mutate: func(req *models.CreateSessionRequest) { req.Questions = nil }},
		{name: "blank answer", mutate: func(req *models.CreateSessionRequest) { req.Questions = []models.QAPair{pair("Q", " ")} }},
		{name: "blank question", mutate: func(req *models.CreateSessionRequest) { req.Questions = []models.QAPair{pair("", "A")} }},
		{name: "batch too large", mutate: func(req *models.CreateSessionRequest) {
			req.Questions = make([]models.QAPair, maxBatchSize+1)
			for i := range req.Questions {
				req.Questions[i] = pair("Q", "A")
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc, owner := newStoreService(t)
			req := createRequest(pair("Q1", "A1"))
			tt.mutate(req)

			_, err := svc.CreateSession(context.Background(), owner, req)

			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
			assert.Equal(t, 0, store.SessionCount())
		})
	}
}

func TestAppendQuestions_PreservesOrder(t *testing.T) {
	_, svc, owner := newStoreService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, owner, createRequest(pair("Q1", "A1"), pair("Q2", "A2")))
	require.NoError(t, err)

	updated, err := svc.AppendQuestions(ctx, owner, session.ID, []models.QAPair{pair("Q3", "A3"), pair("Q4", "A4")})
	require.NoError(t, err)

	assert.Equal(t, []string{"Q1", "Q2", "Q3", "Q4"}, questionTexts(updated))
	assert.Equal(t, 4, updated.QuestionCount)
}

func TestAppendQuestions_Errors(t *testing.T) {
	store, svc, owner := newStoreService(t)
	ctx := context.Background()
	other := newUser(t, store, "other@example.com")

	session, err := svc.CreateSession(ctx, owner, createRequest(pair("Q1", "A1")))
	require.NoError(t, err)

	tests := []struct {
		name      string
		actor     string
		sessionID string
		pairs     []models.QAPair
		wantErr   error
	}{
		{name: "non-owner", actor: other, sessionID: session.ID, pairs: []models.QAPair{pair("Q", "A")}, wantErr: apperr.ErrForbidden},
		{name: "unknown session", actor: owner, sessionID: uuid.NewString(), pairs: []models.QAPair{pair("Q", "A")}, wantErr: apperr.ErrNotFound},
		{name: "malformed id", actor: owner, sessionID: "not-a-uuid", pairs: []models.QAPair{pair("Q", "A")}, wantErr: apperr.ErrNotFound},
		{name: "empty batch", actor: owner, sessionID: session.ID, pairs: nil, wantErr: apperr.ErrInvalidInput},
		{name: "one invalid element rejects all", actor: owner, sessionID: session.ID, pairs: []models.QAPair{pair("Q", "A"), pair("Q", "")}, wantErr: apperr.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AppendQuestions(ctx, tt.actor, tt.sessionID, tt.pairs)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, store.QuestionCount(session.ID))
		})
	}
}

func TestGetSession(t *testing.T) {
	store, svc, owner := newStoreService(t)
	ctx := context.Background()
	other := newUser(t, store, "other@example.com")

	created, err := svc.CreateSession(ctx, owner, createRequest(pair("Q1", "A1"), pair("Q2", "A2")))
	require.NoError(t, err)

	first, err := svc.GetSession(ctx, owner, created.ID)
	require.NoError(t, err)
	second, err := svc.GetSession(ctx, owner, created.ID)
	require.NoError(t, err)

	assert.Equal(t, questionTexts(first), questionTexts(second))
	assert.Equal(t, first.QuestionCount, second.QuestionCount)
	assert.False(t, second.LastAccessedAt.Before(first.LastAccessedAt))

	_, err = svc.GetSession(ctx, other, created.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.GetSession(ctx, owner, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListSessions(t *testing.T) {
	store, svc, owner := newStoreService(t)
	ctx := context.Background()
	other := newUser(t, store, "other@example.com")

	_, err := svc.CreateSession(ctx, owner, createRequest(pair("Q1", "A1")))
	require.NoError(t, err)
	frontend := createRequest(pair("Q1", "A1"))
	frontend.Role = "Frontend Developer"
	frontend.TopicsToFocus = "React, CSS"
	frontend.Description = ""
	_, err = svc.CreateSession(ctx, owner, frontend)
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, other, createRequest(pair("Q1", "A1")))
	require.NoError(t, err)

	all, err := svc.ListSessions(ctx, owner, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, s := range all {
		assert.Equal(t, owner, s.UserID)
	}

	matched, err := svc.ListSessions(ctx, owner, "react")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Frontend Developer", matched[0].Role)

	none, err := svc.ListSessions(ctx, other, "react")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSessionMatchesSearch(t *testing.T) {
	svc := &SessionStoreService{}

	tests := []struct {
		name        string
		session     models.Session
		searchTerms []string
		expected    bool
	}{
		{
			name:        "role match",
			session:     models.Session{Role: "Backend Engineer", TopicsToFocus: "Go"},
			searchTerms: []string{"backend"},
			expected:    true,
		},
		{
			name:        "topic match case insensitive",
			session:     models.Session{Role: "Engineer", TopicsToFocus: "KUBERNETES, Docker"},
			searchTerms: []string{"kubernetes"},
			expected:    true,
		},
		{
			name:        "description match",
			session:     models.Session{Role: "Engineer", TopicsToFocus: "Go", Description: "payments team interview"},
			searchTerms: []string{"payments"},
			expected:    true,
		},
		{
			name:        "typo tolerance",
			session:     models.Session{Role: "Data Engineer", TopicsToFocus: "databases"},
			searchTerms: []string{"databses"},
			expected:    true,
		},
		{
			name:        "one-letter substitution",
			session:     models.Session{Role: "Engineer", TopicsToFocus: "Go, Redis"},
			searchTerms: []string{"redix"},
			expected:    true,
		},
		{
			name:        "multiple terms one matches",
			session:     models.Session{Role: "Engineer", TopicsToFocus: "microservices"},
			searchTerms: []string{"zzz", "microservices"},
			expected:    true,
		},
		{
			name:        "no match",
			session:     models.Session{Role: "Engineer", TopicsToFocus: "Go"},
			searchTerms: []string{"zzz", "qqq"},
			expected:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.sessionMatchesSearch(&tt.session, tt.searchTerms)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDeleteSession_Cascades(t *testing.T) {
	store, svc, owner := newStoreService(t)
	ctx := context.Background()
	other := newUser(t, store, "other@example.com")

	session, err := svc.CreateSession(ctx, owner, createRequest(pair("Q1", "A1"), pair("Q2", "A2")))
	require.NoError(t, err)
	questionID := session.Questions[0].ID

	err = svc.DeleteSession(ctx, other, session.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Equal(t, 1, store.SessionCount())

	require.NoError(t, svc.DeleteSession(ctx, owner, session.ID))
	assert.Equal(t, 0, store.SessionCount())
	assert.Equal(t, 0, store.QuestionCount(session.ID))

	_, err = svc.GetQuestion(ctx, owner, questionID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = svc.DeleteSession(ctx, owner, session.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteUser_CascadesToSessions(t *testing.T) {
	store, svc, owner := newStoreService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, owner, createRequest(pair("Q1", "A1")))
	require.NoError(t, err)

	store.DeleteUser(owner)

	assert.Equal(t, 0, store.SessionCount())
	assert.Equal(t, 0, store.QuestionCount(session.ID))
}

func TestQuestionUpdates(t *testing.T) {
	store, svc, owner := newStoreService(t)
	ctx := context.Background()
	other := newUser(t, store, "other@example.com")

	session, err := svc.CreateSession(ctx, owner, createRequest(pair("Q1", "A1"), pair("Q2", "A2")))
	require.NoError(t, err)
	q := session.Questions[1]

	pinned, err := svc.SetPinned(ctx, owner, session.ID, q.ID, true)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)

	toggled, err := svc.TogglePinned(ctx, owner, q.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsPinned)

	noted, err := svc.SetNote(ctx, owner, "", q.ID, "  remember the CAP theorem ")
	require.NoError(t, err)
	assert.Equal(t, "remember the CAP theorem", noted.Note)
	assert.False(t, noted.IsPinned)

	reloaded, err := svc.GetSession(ctx, owner, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "remember the CAP theorem", reloaded.Questions[1].Note)
	assert.Equal(t, []string{"Q1", "Q2"}, questionTexts(reloaded))

	_, err = svc.SetPinned(ctx, other, "", q.ID, true)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.SetNote(ctx, other, "", q.ID, "hijacked")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.SetNote(ctx, other, "", q.ID, strings.Repeat("n", maxNoteLength+1))
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.UpdateQuestion(ctx, other, "", q.ID, &models.UpdateQuestionRequest{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.SetNote(ctx, owner, "", q.ID, strings.Repeat("n", maxNoteLength+1))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.SetPinned(ctx, owner, uuid.NewString(), q.ID, true)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.UpdateQuestion(ctx, owner, "", q.ID, &models.UpdateQuestionRequest{})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.TogglePinned(ctx, owner, "bogus")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	after, err := svc.GetQuestion(ctx, owner, q.ID)
	require.NoError(t, err)
	assert.False(t, after.IsPinned)
}

func TestQuestionUpdate_StoreFailure(t *testing.T) {
	store, svc, owner := newStoreService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, owner, createRequest(pair("Q1", "A1")))
	require.NoError(t, err)

	store.Fail = errors.New("connection reset")
	_, err = svc.SetPinned(ctx, owner, "", session.Questions[0].ID, true)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}
