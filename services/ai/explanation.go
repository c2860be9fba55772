package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"interviewprep/apperr"
	"interviewprep/models"
)

// GenerateExplanation asks the provider to explain the concept behind a
// single question.
func (s *Service) GenerateExplanation(ctx context.Context, req *models.GenerateExplanationRequest) (*models.Explanation, error) {
	log.Printf("[INFO] Starting explanation generation")

	if strings.TrimSpace(req.Question) == "" {
		err := fmt.Errorf("%w: question is required", apperr.ErrInvalidInput)
		log.Printf("[ERROR] Explanation validation failed: %v", err)
		return nil, err
	}

	prompt := BuildExplanationPrompt(ExplanationPromptInput{
		Question: req.Question,
		Answer:   req.Answer,
	})

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[ERROR] Failed to generate explanation: %v", err)
		return nil, err
	}

	explanation, err := ParseExplanation(raw)
	if err != nil {
		log.Printf("[ERROR] Failed to parse generated explanation (response length %d): %v", len(raw), err)
		return nil, err
	}

	log.Printf("[INFO] Successfully generated explanation of %d characters", len(explanation.Explanation))
	return explanation, nil
}
