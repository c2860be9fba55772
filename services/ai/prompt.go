package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"interviewprep/models"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

const (
	QUESTIONS_PROMPT = `You are an experienced technical interviewer preparing a candidate for a job interview.

Role: %s
Candidate experience: %s
Topics to focus on: %s

Write exactly %d interview questions for this candidate. For every question also write a clear, complete answer that a strong candidate would give. Where an answer benefits from code, include a short code block inside the answer text. Keep the difficulty appropriate for the stated experience.

Respond with ONLY a JSON array. Do not add any introduction, explanation or markdown outside the array. Each element must match this JSON schema:
%s

The response must be a JSON array with %d elements.`

	EXPLANATION_PROMPT = `You are a senior engineer helping a candidate understand an interview topic in depth.

Explain the concept behind the following interview question as if teaching a motivated beginner. Cover what it is, why it matters, and the common pitfalls.

Question: %s
%s
Respond with ONLY a single JSON object. Do not add any text or markdown outside the object. The object must match this JSON schema:
%s`
)

// QuestionPromptInput holds the structured inputs of a question-generation prompt.
type QuestionPromptInput struct {
	Role       string
	Experience string
	Topics     string
	Count      int
}

type ExplanationPromptInput struct {
	Question string
	Answer   string
}

// explanationPayload is the object the provider is asked to return for a
// concept explanation.
type explanationPayload struct {
	Title       string `json:"title" jsonschema:"description=A short title for the concept"`
	Explanation string `json:"explanation" jsonschema:"required,minLength=1,description=The explanation text"`
	Examples    string `json:"examples,omitempty" jsonschema:"description=Optional short worked examples or code"`
}

var (
	questionsSchema   = renderSchema[[]models.QAPair]()
	explanationSchema = renderSchema[explanationPayload]()
)

func renderSchema[T any]() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	var v T
	schema := reflector.Reflect(v)
	schema.Version = ""

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("failed to render json schema: %v", err))
	}
	return string(out)
}

// BuildQuestionsPrompt renders the question-generation instructions. The
// result depends only on the input.
func BuildQuestionsPrompt(in QuestionPromptInput) string {
	return fmt.Sprintf(QUESTIONS_PROMPT,
		strings.TrimSpace(in.Role),
		strings.TrimSpace(in.Experience),
		NormalizeTopics(in.Topics),
		in.Count,
		questionsSchema,
		in.Count,
	)
}

// BuildExplanationPrompt renders the concept-explanation instructions.
func BuildExplanationPrompt(in ExplanationPromptInput) string {
	answer := ""
	if a := strings.TrimSpace(in.Answer); a != "" {
		answer = fmt.Sprintf("Reference answer: %s\n", a)
	}
	return fmt.Sprintf(EXPLANATION_PROMPT,
		strings.TrimSpace(in.Question),
		answer,
		explanationSchema,
	)
}

// NormalizeTopics trims a comma-separated topic list and drops empty entries,
// keeping the caller's order.
func NormalizeTopics(topics string) string {
	parts := lo.FilterMap(strings.Split(topics, ","), func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(t)
		return t, t != ""
	})
	return strings.Join(parts, ", ")
}
