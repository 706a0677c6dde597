package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/vta/internal/assistant"
	"github.com/hyperjump/vta/internal/config"
	"github.com/hyperjump/vta/internal/discourse"
	"github.com/hyperjump/vta/internal/indexer"
	"github.com/hyperjump/vta/internal/keyword"
	"github.com/hyperjump/vta/internal/knowledge"
	"github.com/hyperjump/vta/internal/models"
	"github.com/hyperjump/vta/internal/ranking"
	"github.com/hyperjump/vta/internal/resolver"
	"github.com/hyperjump/vta/internal/search"
	"github.com/hyperjump/vta/internal/server"
	"github.com/hyperjump/vta/internal/storage"
	"go.uber.org/zap"
)

const e2eSearchLimit = 30

func TestE2E_SearchReturnsCorrectResults(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	corpus := BuildCorpus()
	if corpus.TotalPosts == 0 {
		t.Fatal("corpus has no posts")
	}
	if corpus.TotalQueries == 0 {
		t.Fatal("corpus has no query test cases")
	}

	exportPath := filepath.Join(dir, "posts.csv")
	f, err := os.Create(exportPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := discourse.WritePosts(f, corpus.Posts, discourse.FormatCSV); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	scraper := discourse.New("", discourse.WithSource(&discourse.FileSource{Path: exportPath}))
	posts, err := scraper.ScrapeByDateRange(ctx, "2025-01-01", "2025-04-01", "tds")
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != corpus.TotalPosts {
		t.Fatalf("scraped %d posts, want %d", len(posts), corpus.TotalPosts)
	}

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "db.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	kwIndex, err := keyword.NewBleveIndex(filepath.Join(dir, "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	defer kwIndex.Close()

	idx := indexer.NewIndexer(store, kwIndex)
	if err := idx.IndexRun(ctx, &models.ScrapeRun{StartDate: "2025-01-01", EndDate: "2025-04-01", Category: "tds"}, posts); err != nil {
		t.Fatal(err)
	}
	engine := search.NewEngine(store, kwIndex, nil).WithRanker(ranking.NewRanker(nil))

	t.Logf("indexed %d posts; running %d query test cases", corpus.TotalPosts, corpus.TotalQueries)

	for _, tc := range corpus.TestCases {
		t.Run(tc.Description, func(t *testing.T) {
			resp, err := engine.SearchPosts(ctx, tc.Query, e2eSearchLimit)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			resultIDs := postIDsFromResponse(resp)
			if !containsAny(resultIDs, tc.ExpectedPostIDs) {
				t.Errorf("query %q: expected at least one of %v in results, got %d results (ids: %v)",
					tc.Query, tc.ExpectedPostIDs, len(resultIDs), resultIDs)
			}
		})
	}
}

func TestE2E_AnswerAPI(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Assistant.SimulatedLatency = 0
	svc := assistant.NewService(resolver.New(knowledge.Default(), knowledge.DefaultCategories()), &cfg.Assistant)
	ts := httptest.NewServer(server.NewServer(svc, cfg, zap.NewNop()).Router())
	defer ts.Close()

	entries := knowledge.Default().Entries()
	cases := []struct {
		question   string
		wantPrefix string
	}{
		{entries[0].Question, entries[0].Answer},
		{strings.ToUpper(entries[1].Question), entries[1].Answer},
		{entries[2].Question, entries[2].Answer},
		{entries[3].Question, entries[3].Answer},
		{"is podman required?", entries[2].Answer},
		{"When is the grade released", "For assignment-related"},
		{"how do I organize my notebook", "For assignment-related"},
		{"my container keeps crashing", "For containerization"},
		{"which openai model?", "For API-related"},
		{"exam hall tickets please", "For exam schedules"},
		{"what is the meaning of life", "Thank you for your question!"},
	}
	for _, tc := range cases {
		t.Run(tc.question, func(t *testing.T) {
			answer := postQuestion(t, ts.URL, tc.question)
			if !strings.HasPrefix(answer.Answer, tc.wantPrefix) {
				t.Errorf("answer = %q, want prefix %q", answer.Answer, tc.wantPrefix)
			}
			if answer.Links == nil {
				t.Error("links must be an array, not null")
			}
		})
	}
}

func postQuestion(t *testing.T, baseURL, question string) models.AnswerResponse {
	t.Helper()
	body, err := json.Marshal(models.QuestionRequest{Question: question})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(baseURL+"/api/", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var answer models.AnswerResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		t.Fatal(err)
	}
	return answer
}

func postIDsFromResponse(resp *models.PostSearchResponse) []int64 {
	ids := make([]int64, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		if h.Post != nil {
			ids = append(ids, h.Post.ID)
		}
	}
	return ids
}

func containsAny(got []int64, expected []int64) bool {
	want := make(map[int64]bool, len(expected))
	for _, id := range expected {
		want[id] = true
	}
	for _, id := range got {
		if want[id] {
			return true
		}
	}
	return false
}
