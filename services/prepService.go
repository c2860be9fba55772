package services

import (
	"context"
	"log"
	"strings"

	"interviewprep/models"
	"interviewprep/services/ai"
)

// PrepService combines generation with the session store: generated
// questions are only persisted once the whole batch has been validated.
type PrepService struct {
	ai    *ai.Service
	store *SessionStoreService
}

func NewPrepService(aiService *ai.Service, store *SessionStoreService) *PrepService {
	return &PrepService{
		ai:    aiService,
		store: store,
	}
}

// GenerateSession generates a question batch and stores it as a new session.
func (s *PrepService) GenerateSession(ctx context.Context, owner string, req *models.GenerateSessionRequest) (*models.GeneratedSessionResponse, error) {
	log.Printf("[INFO] Starting generated session for user %s", owner)

	batch, err := s.ai.GenerateQuestions(ctx, &models.GenerateQuestionsRequest{
		Role:              req.Role,
		Experience:        req.Experience,
		TopicsToFocus:     req.TopicsToFocus,
		NumberOfQuestions: req.NumberOfQuestions,
	})
	if err != nil {
		log.Printf("[ERROR] Generated session failed at generation: %v", err)
		return nil, err
	}

	session, err := s.store.CreateSession(ctx, owner, &models.CreateSessionRequest{
		Role:          req.Role,
		Experience:    req.Experience,
		TopicsToFocus: ai.NormalizeTopics(req.TopicsToFocus),
		Description:   req.Description,
		Questions:     batch.Questions,
	})
	if err != nil {
		log.Printf("[ERROR] Generated session failed at store: %v", err)
		return nil, err
	}

	log.Printf("[INFO] Successfully generated session %s (%d of %d questions)", session.ID, batch.Count, batch.Requested)
	return &models.GeneratedSessionResponse{
		Session:        session,
		RequestedCount: batch.Requested,
		GeneratedCount: batch.Count,
	}, nil
}

// GenerateMoreQuestions generates questions from the session's own role,
// experience and topics and appends them.
func (s *PrepService) GenerateMoreQuestions(ctx context.Context, owner, sessionID string, req *models.GenerateMoreRequest) (*models.GeneratedSessionResponse, error) {
	log.Printf("[INFO] Starting generate more questions for session %s", sessionID)

	session, err := s.store.ownedSession(ctx, owner, sessionID)
	if err != nil {
		log.Printf("[ERROR] Generate more rejected for session %s: %v", sessionID, err)
		return nil, err
	}

	batch, err := s.ai.GenerateQuestions(ctx, &models.GenerateQuestionsRequest{
		Role:              session.Role,
		Experience:        session.Experience,
		TopicsToFocus:     session.TopicsToFocus,
		NumberOfQuestions: req.NumberOfQuestions,
	})
	if err != nil {
		log.Printf("[ERROR] Generate more failed at generation: %v", err)
		return nil, err
	}

	updated, err := s.store.AppendQuestions(ctx, owner, sessionID, batch.Questions)
	if err != nil {
		log.Printf("[ERROR] Generate more failed at store: %v", err)
		return nil, err
	}

	log.Printf("[INFO] Successfully appended %d generated questions to session %s", batch.Count, sessionID)
	return &models.GeneratedSessionResponse{
		Session:        updated,
		RequestedCount: batch.Requested,
		GeneratedCount: batch.Count,
	}, nil
}

// ExplainQuestion generates an explanation for a stored question and saves
// it as the question's note.
func (s *PrepService) ExplainQuestion(ctx context.Context, owner, questionID string) (*models.ExplainQuestionResponse, error) {
	log.Printf("[INFO] Starting explain question %s", questionID)

	question, err := s.store.GetQuestion(ctx, owner, questionID)
	if err != nil {
		log.Printf("[ERROR] Explain rejected for question %s: %v", questionID, err)
		return nil, err
	}

	explanation, err := s.ai.GenerateExplanation(ctx, &models.GenerateExplanationRequest{
		Question: question.Question,
		Answer:   question.Answer,
	})
	if err != nil {
		log.Printf("[ERROR] Explain failed at generation: %v", err)
		return nil, err
	}

	note := explanation.NoteText()
	if len(note) > maxNoteLength {
		note = strings.ToValidUTF8(note[:maxNoteLength], "")
	}

	updated, err := s.store.SetNote(ctx, owner, question.SessionID, question.ID, note)
	if err != nil {
		log.Printf("[ERROR] Explain failed at store: %v", err)
		return nil, err
	}

	log.Printf("[INFO] Successfully saved explanation for question %s", questionID)
	return &models.ExplainQuestionResponse{
		Explanation: explanation,
		Question:    updated,
	}, nil
}
