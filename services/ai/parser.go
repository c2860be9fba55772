package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"interviewprep/apperr"
	"interviewprep/models"

	"github.com/samber/lo"
)

const fence = "```"

type rawPair struct {
	Question json.RawMessage `json:"question"`
	Answer   json.RawMessage `json:"answer"`
}

type rawExplanation struct {
	Title       json.RawMessage `json:"title"`
	Explanation json.RawMessage `json:"explanation"`
	Examples    json.RawMessage `json:"examples"`
}

// ParseQuestionBatch turns raw provider text into a validated batch of
// question/answer pairs. The first outermost array holding objects decides
// the result.
// Elements missing either field are dropped; the batch fails only when
// nothing usable remains. requested <= 0 disables trimming.
func ParseQuestionBatch(raw string, requested int) (*models.GeneratedBatch, error) {
	var pairs []models.QAPair
	found := false
	for _, candidate := range jsonCandidates(raw, '[', ']') {
		var elems []json.RawMessage
		if err := json.Unmarshal([]byte(candidate), &elems); err != nil || !hasObject(elems) {
			continue
		}
		found = true
		pairs = lo.FilterMap(elems, func(elem json.RawMessage, _ int) (models.QAPair, bool) {
			return toPair(elem)
		})
		break
	}

	if !found {
		return nil, fmt.Errorf("%w: no JSON array in response", apperr.ErrMalformedGenerationOutput)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no valid question/answer elements", apperr.ErrMalformedGenerationOutput)
	}

	if requested > 0 && len(pairs) > requested {
		pairs = pairs[:requested]
	}

	return &models.GeneratedBatch{
		Questions: pairs,
		Requested: requested,
		Count:     len(pairs),
	}, nil
}

// ParseExplanation extracts the outermost object that parses from raw
// provider text. Objects nested inside it are never considered.
func ParseExplanation(raw string) (*models.Explanation, error) {
	for _, candidate := range jsonCandidates(raw, '{', '}') {
		var re rawExplanation
		if err := json.Unmarshal([]byte(candidate), &re); err != nil {
			continue
		}

		explanation, ok := nonEmptyString(re.Explanation)
		if !ok {
			return nil, fmt.Errorf("%w: explanation object has no explanation text", apperr.ErrMalformedGenerationOutput)
		}
		title, _ := nonEmptyString(re.Title)

		return &models.Explanation{
			Title:       title,
			Explanation: explanation,
			Examples:    examplesText(re.Examples),
		}, nil
	}

	return nil, fmt.Errorf("%w: no explanation object in response", apperr.ErrMalformedGenerationOutput)
}

func hasObject(elems []json.RawMessage) bool {
	return lo.SomeBy(elems, func(elem json.RawMessage) bool {
		trimmed := bytes.TrimSpace(elem)
		return len(trimmed) > 0 && trimmed[0] == '{'
	})
}

func toPair(elem json.RawMessage) (models.QAPair, bool) {
	var rp rawPair
	if err := json.Unmarshal(elem, &rp); err != nil {
		return models.QAPair{}, false
	}
	q, ok := nonEmptyString(rp.Question)
	if !ok {
		return models.QAPair{}, false
	}
	a, ok := nonEmptyString(rp.Answer)
	if !ok {
		return models.QAPair{}, false
	}
	return models.QAPair{Question: q, Answer: a}, true
}

func nonEmptyString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// examplesText keeps the examples field as written: strings are unquoted,
// any other JSON value is kept as its source text.
func examplesText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}

// stripFences returns the body of the first markdown code fence, or the text
// unchanged when there is none. An unterminated fence yields everything after
// the opening line.
func stripFences(text string) string {
	start := strings.Index(text, fence)
	if start < 0 {
		return text
	}
	body := text[start+len(fence):]

	// skip the optional language tag
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		tag := strings.TrimSpace(body[:nl])
		if !strings.ContainsAny(tag, "[{") {
			body = body[nl+1:]
		}
	}

	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// jsonCandidates returns every balanced open/close span, left to right,
// first from the fenced body and then from the raw text when they differ.
func jsonCandidates(raw string, opening, closing byte) []string {
	stripped := stripFences(raw)
	out := bracketSpans(stripped, opening, closing)
	if stripped != raw {
		out = append(out, bracketSpans(raw, opening, closing)...)
	}
	return out
}

// bracketSpans returns the outermost bracketed spans of text. A span that is
// valid JSON hides everything nested inside it.
func bracketSpans(text string, opening, closing byte) []string {
	var out []string
	for i := 0; i < len(text); i++ {
		if text[i] != opening {
			continue
		}
		end := matchBracket(text, i, opening, closing)
		if end <= 0 {
			continue
		}
		span := text[i : end+1]
		out = append(out, span)
		if json.Valid([]byte(span)) {
			i = end
		}
	}
	return out
}

func matchBracket(text string, start int, opening, closing byte) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case opening:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
