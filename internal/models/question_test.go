package models

import (
	"errors"
	"testing"
)

func TestQuestionRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		q       string
		min     int
		want    string
		wantErr error
	}{
		{"empty", "", 0, "", ErrEmptyQuestion},
		{"whitespace only", "   \t\n", 0, "", ErrEmptyQuestion},
		{"too short", "hi", 0, "", ErrQuestionTooShort},
		{"trimmed to short", "  hey  ", 0, "", ErrQuestionTooShort},
		{"exactly default minimum", "hello", 0, "hello", nil},
		{"trims surrounding space", "  banana  ", 0, "banana", nil},
		{"custom minimum", "hi", 2, "hi", nil},
		{"counts runes not bytes", "ééééé", 0, "ééééé", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &QuestionRequest{Question: tt.q}
			err := req.Validate(tt.min)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && req.Question != tt.want {
				t.Errorf("Question = %q, want %q", req.Question, tt.want)
			}
		})
	}
}

func TestQuestionRequest_HasImage(t *testing.T) {
	empty := " "
	img := "aGVsbG8="
	if (&QuestionRequest{}).HasImage() {
		t.Error("nil image should not count")
	}
	if (&QuestionRequest{Image: &empty}).HasImage() {
		t.Error("blank image should not count")
	}
	if !(&QuestionRequest{Image: &img}).HasImage() {
		t.Error("expected image")
	}
}

func TestNewAnswerResponse_CopiesLinks(t *testing.T) {
	links := []Link{{URL: "https://a", Text: "a"}}
	resp := NewAnswerResponse(QueryResult{Answer: "x", Links: links})
	resp.Links[0].URL = "changed"
	if links[0].URL != "https://a" {
		t.Error("response links must not alias the result links")
	}
	if NewAnswerResponse(QueryResult{}).Links == nil {
		t.Error("links should encode as [] not null")
	}
}
