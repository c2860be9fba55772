package models

import "time"

type Session struct {
	ID             string      `json:"id" db:"id"`
	UserID         string      `json:"userId" db:"user_id"`
	Role           string      `json:"role" db:"role"`
	Experience     string      `json:"experience" db:"experience"`
	TopicsToFocus  string      `json:"topicsToFocus" db:"topics_to_focus"`
	Description    string      `json:"description" db:"description"`
	Questions      []*Question `json:"questions,omitempty"`
	QuestionCount  int         `json:"questionCount"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`
	LastAccessedAt time.Time   `json:"lastAccessedAt" db:"last_accessed_at"`
}

type Question struct {
	ID        string    `json:"id" db:"id"`
	SessionID string    `json:"sessionId" db:"session_id"`
	Question  string    `json:"question" db:"question"`
	Answer    string    `json:"answer" db:"answer"`
	Note      string    `json:"note" db:"note"`
	IsPinned  bool      `json:"isPinned" db:"is_pinned"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type CreateSessionRequest struct {
	Role          string   `json:"role"`
	Experience    string   `json:"experience"`
	TopicsToFocus string   `json:"topicsToFocus"`
	Description   string   `json:"description"`
	Questions     []QAPair `json:"questions"`
}

type AppendQuestionsRequest struct {
	SessionID string   `json:"sessionId,omitempty"`
	Questions []QAPair `json:"questions"`
}

// UpdateQuestionRequest is a partial update; nil fields are left untouched.
type UpdateQuestionRequest struct {
	IsPinned *bool   `json:"isPinned,omitempty"`
	Note     *string `json:"note,omitempty"`
}

type GenerateSessionRequest struct {
	Role              string `json:"role"`
	Experience        string `json:"experience"`
	TopicsToFocus     string `json:"topicsToFocus"`
	Description       string `json:"description"`
	NumberOfQuestions int    `json:"numberOfQuestions"`
}

type GenerateMoreRequest struct {
	NumberOfQuestions int `json:"numberOfQuestions"`
}

type SessionResponse struct {
	Session *Session `json:"session"`
}

type GeneratedSessionResponse struct {
	Session        *Session `json:"session"`
	RequestedCount int      `json:"requestedCount"`
	GeneratedCount int      `json:"generatedCount"`
}

type QuestionResponse struct {
	Question *Question `json:"question"`
}

type ExplainQuestionResponse struct {
	Explanation *Explanation `json:"explanation"`
	Question    *Question    `json:"question"`
}
