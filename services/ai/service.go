// Package ai turns generation requests into validated question batches and
// concept explanations.
package ai

import (
	"context"
	"fmt"
	"strings"

	"interviewprep/apperr"
)

// Generator is the text-completion boundary used by the service.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	generator    Generator
	defaultCount int
	maxCount     int
}

func NewService(generator Generator, defaultCount, maxCount int) *Service {
	return &Service{
		generator:    generator,
		defaultCount: defaultCount,
		maxCount:     maxCount,
	}
}

// QuestionCount resolves the requested count: zero means the default, and
// anything outside 1..max is rejected.
func (s *Service) QuestionCount(requested int) (int, error) {
	if requested == 0 {
		return s.defaultCount, nil
	}
	if requested < 1 || requested > s.maxCount {
		return 0, fmt.Errorf("%w: numberOfQuestions must be between 1 and %d", apperr.ErrInvalidInput, s.maxCount)
	}
	return requested, nil
}

func validateQuestionInput(role, experience, topics string) error {
	if strings.TrimSpace(role) == "" {
		return fmt.Errorf("%w: role is required", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(experience) == "" {
		return fmt.Errorf("%w: experience is required", apperr.ErrInvalidInput)
	}
	if NormalizeTopics(topics) == "" {
		return fmt.Errorf("%w: topicsToFocus is required", apperr.ErrInvalidInput)
	}
	return nil
}
