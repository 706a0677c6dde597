package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/hyperjump/vta/internal/models"
	"github.com/hyperjump/vta/internal/resolver"
)

func init() {
	color.NoColor = true
}

func TestWriteAnswer_Text(t *testing.T) {
	result := models.QueryResult{
		Question: "Should I use podman?",
		Answer:   "Podman is preferred.",
		Links:    []models.Link{{URL: "https://tds.s-anand.net/#/docker", Text: "Container docs"}},
	}
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, result, nil, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Answer:", "Podman is preferred.", "Helpful Links:", "Container docs", "https://tds.s-anand.net/#/docker"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, NoLinksMessage) || strings.Contains(out, "matched by") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestWriteAnswer_NoLinksAndExplain(t *testing.T) {
	result := models.QueryResult{Question: "q", Answer: "a", Links: []models.Link{}}
	match := &resolver.Match{Stage: resolver.StageFuzzy, EntryIndex: 2, Ratio: 0.5}
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, result, match, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, NoLinksMessage) {
		t.Errorf("missing placeholder:\n%s", out)
	}
	if !strings.Contains(out, "matched by fuzzy (entry 2, ratio 0.50)") {
		t.Errorf("missing match info:\n%s", out)
	}

	buf.Reset()
	_ = WriteAnswer(&buf, result, &resolver.Match{Stage: resolver.StageCategory, EntryIndex: -1, Category: "default"}, OutputText)
	if !strings.Contains(buf.String(), "matched by category (category default)") {
		t.Errorf("missing category info:\n%s", buf.String())
	}
}

func TestWriteAnswer_JSON(t *testing.T) {
	result := models.QueryResult{Question: "q", Answer: "a"}
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, result, nil, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if links, ok := decoded["links"].([]interface{}); !ok || len(links) != 0 {
		t.Errorf("links = %v, want []", decoded["links"])
	}
	if _, ok := decoded["match"]; ok {
		t.Error("match should be omitted when nil")
	}
}

func testSearchResponse() *models.PostSearchResponse {
	return &models.PostSearchResponse{
		Query:     "podman",
		QueryTime: 3,
		Total:     1,
		Hits: []*models.PostHit{{
			Rank:  1,
			Score: 1,
			Post: &models.Post{
				ID: 170234, Title: "Docker vs Podman for TDS Course", Author: "student_helper",
				CreatedAt: time.Date(2025, 1, 28, 9, 15, 0, 0, time.UTC), Replies: 23, Likes: 18,
				URL: "https://discourse.onlinedegree.iitm.ac.in/t/docker-vs-podman-for-tds-course/170234",
			},
			Snippet: "Podman is the recommended containerization tool.",
		}},
	}
}

func TestWriteSearchResults_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, testSearchResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Found 1 posts in 3ms", "Docker vs Podman", "student_helper · 2025-01-28 · 23 replies · 18 likes", "recommended containerization"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	_ = WriteSearchResults(&buf, &models.PostSearchResponse{Query: "podmn", Suggestion: "podman"}, OutputText)
	if !strings.Contains(buf.String(), "Showing results for: podman") {
		t.Errorf("missing suggestion:\n%s", buf.String())
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, testSearchResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.PostSearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Query != "podman" || len(decoded.Hits) != 1 || decoded.Hits[0].Post.ID != 170234 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteStatus(t *testing.T) {
	status := &Status{CorpusEntries: 4, Categories: 5, CorpusSource: "built-in"}
	var buf bytes.Buffer
	if err := WriteStatus(&buf, status, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Archive:          disabled") {
		t.Errorf("output:\n%s", buf.String())
	}

	status.ArchiveEnabled = true
	status.Posts = 3
	status.DiskUsageBytes = 2048
	buf.Reset()
	_ = WriteStatus(&buf, status, OutputText)
	if !strings.Contains(buf.String(), "Archived posts:   3") || !strings.Contains(buf.String(), "2.0 KiB") {
		t.Errorf("output:\n%s", buf.String())
	}

	buf.Reset()
	if err := WriteStatus(&buf, status, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded Status
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || decoded.Posts != 3 {
		t.Errorf("decoded = %+v, %v", decoded, err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
