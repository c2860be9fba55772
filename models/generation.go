package models

import "strings"

// QAPair is one generated interview question with its answer.
type QAPair struct {
	Question string `json:"question" jsonschema:"required,minLength=1,description=The interview question"`
	Answer   string `json:"answer" jsonschema:"required,minLength=1,description=A complete model answer to the question"`
}

type GenerateQuestionsRequest struct {
	Role              string `json:"role"`
	Experience        string `json:"experience"`
	TopicsToFocus     string `json:"topicsToFocus"`
	NumberOfQuestions int    `json:"numberOfQuestions"`
}

// GeneratedBatch is the validated output of one generation call. Count may be
// lower than Requested when the provider returned fewer usable items.
type GeneratedBatch struct {
	Questions []QAPair `json:"questions"`
	Requested int      `json:"requestedCount"`
	Count     int      `json:"generatedCount"`
}

type GenerateExplanationRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

type Explanation struct {
	Title       string `json:"title,omitempty"`
	Explanation string `json:"explanation"`
	Examples    string `json:"examples,omitempty"`
}

// NoteText renders the explanation as the text stored on a question note.
func (e *Explanation) NoteText() string {
	var sb strings.Builder
	if e.Title != "" {
		sb.WriteString(e.Title)
		sb.WriteString("\n\n")
	}
	sb.WriteString(e.Explanation)
	if e.Examples != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Examples)
	}
	return sb.String()
}
