package ai

import (
	"context"
	"log"

	"interviewprep/models"
)

// GenerateQuestions validates the request, asks the provider for a batch and
// returns the usable pairs. Nothing is persisted here.
func (s *Service) GenerateQuestions(ctx context.Context, req *models.GenerateQuestionsRequest) (*models.GeneratedBatch, error) {
	log.Printf("[INFO] Starting question generation for role %q", req.Role)

	if err := validateQuestionInput(req.Role, req.Experience, req.TopicsToFocus); err != nil {
		log.Printf("[ERROR] Question generation validation failed: %v", err)
		return nil, err
	}
	count, err := s.QuestionCount(req.NumberOfQuestions)
	if err != nil {
		log.Printf("[ERROR] Question generation validation failed: %v", err)
		return nil, err
	}

	prompt := BuildQuestionsPrompt(QuestionPromptInput{
		Role:       req.Role,
		Experience: req.Experience,
		Topics:     req.TopicsToFocus,
		Count:      count,
	})

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[ERROR] Failed to generate questions: %v", err)
		return nil, err
	}

	batch, err := ParseQuestionBatch(raw, count)
	if err != nil {
		log.Printf("[ERROR] Failed to parse generated questions (response length %d): %v", len(raw), err)
		return nil, err
	}

	if batch.Count < count {
		log.Printf("[WARN] Provider returned %d usable questions, %d requested", batch.Count, count)
	}
	log.Printf("[INFO] Successfully generated %d questions", batch.Count)
	return batch, nil
}
