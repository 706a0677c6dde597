package models

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// DefaultMinQuestionLength is the shortest accepted question, in characters.
const DefaultMinQuestionLength = 5

var (
	// ErrEmptyQuestion is returned for missing or whitespace-only questions.
	ErrEmptyQuestion = errors.New("question cannot be empty")
	// ErrQuestionTooShort is returned when the trimmed question is below the minimum length.
	ErrQuestionTooShort = errors.New("question is too short")
)

// QuestionRequest is the body of POST /api/.
type QuestionRequest struct {
	Question string  `json:"question"`
	Image    *string `json:"image,omitempty"` // base64, optional data URL prefix
}

// Validate trims the question in place and checks it against minLength.
// A minLength <= 0 uses DefaultMinQuestionLength.
func (q *QuestionRequest) Validate(minLength int) error {
	if minLength <= 0 {
		minLength = DefaultMinQuestionLength
	}
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		return ErrEmptyQuestion
	}
	if utf8.RuneCountInString(q.Question) < minLength {
		return ErrQuestionTooShort
	}
	return nil
}

// HasImage reports whether a non-empty image payload was sent.
func (q *QuestionRequest) HasImage() bool {
	return q.Image != nil && strings.TrimSpace(*q.Image) != ""
}

// AnswerResponse is the body returned by POST /api/.
type AnswerResponse struct {
	Answer string `json:"answer"`
	Links  []Link `json:"links"`
}

// NewAnswerResponse builds the wire response from a resolver result.
func NewAnswerResponse(r QueryResult) *AnswerResponse {
	return &AnswerResponse{Answer: r.Answer, Links: CloneLinks(r.Links)}
}
