// Package e2e provides end-to-end tests with a large post corpus and multiple queries.
package e2e

import (
	"fmt"
	"time"

	"github.com/hyperjump/vta/internal/models"
)

// QueryTestCase defines a query and the post IDs of which at least one must
// appear in the search results.
type QueryTestCase struct {
	Query           string
	ExpectedPostIDs []int64
	Description     string
}

// Corpus holds posts and query test cases for E2E tests.
type Corpus struct {
	Posts        []models.Post
	TestCases    []QueryTestCase
	TotalPosts   int
	TotalQueries int
}

const firstPostID = 200000

// corpusStart is the creation time of the first post; later posts follow 18h apart.
var corpusStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

var topics = []struct {
	title   string
	phrase  string
	content string
}{
	{"Pandas Merge Help", "pandas dataframe merge", "My pandas dataframe merge drops rows when the key columns have different dtypes."},
	{"Podman Rootless Setup", "podman rootless containers", "Podman rootless containers fail to bind port 80 without extra sysctl settings."},
	{"Docker Compose Networking", "docker compose network", "The docker compose network cannot resolve the service hostname from another container."},
	{"AI Proxy Token Limits", "proxy token budget", "The AI proxy token budget resets monthly; check the usage endpoint before submitting."},
	{"Vercel Deployment Errors", "vercel serverless deployment", "Vercel serverless deployment fails because the function bundle exceeds the size limit."},
	{"GitHub Actions Schedules", "github actions cron", "GitHub actions cron workflows only run on the default branch of the repository."},
	{"DuckDB Parquet Queries", "duckdb parquet query", "A duckdb parquet query over a remote bucket needs the httpfs extension loaded."},
	{"Web Scraping With Playwright", "playwright headless scraping", "Playwright headless scraping gets blocked unless you set a realistic user agent."},
	{"LLM Sentiment Classification", "sentiment classification prompt", "The sentiment classification prompt must return exactly one of the three labels."},
	{"Embedding Similarity Scores", "cosine similarity embeddings", "Cosine similarity embeddings should be normalized before taking the dot product."},
	{"Excel Cleanup Tricks", "excel pivot cleanup", "Excel pivot cleanup is easier after removing merged cells and blank header rows."},
	{"Regex Data Extraction", "regex capture groups", "Named regex capture groups make the extracted columns self-documenting."},
	{"FastAPI CORS Issues", "fastapi cors middleware", "Add the fastapi cors middleware before mounting routes or preflight requests fail."},
	{"Geospatial Distance Calculation", "haversine geospatial distance", "Use the haversine geospatial distance formula for coordinates in degrees."},
	{"Image Compression Question", "lossless image compression", "Lossless image compression with pillow keeps the pixels identical but shrinks the file."},
	{"Markdown Formatting Rules", "prettier markdown formatting", "Run prettier markdown formatting with the exact version given in the question."},
	{"SQL Window Functions", "sqlite window functions", "Sqlite window functions need version 3.25 or later for ROW_NUMBER support."},
	{"Colab Authentication", "colab google authentication", "The colab google authentication popup must use the same account as the form."},
	{"HTTP Status Debugging", "unprocessable entity status", "An unprocessable entity status means the request body failed validation."},
	{"Network Graph Analysis", "networkx shortest path", "Networkx shortest path returns the node list; use its length minus one for hops."},
}

// BuildCorpus returns a corpus of 100 posts with varied content and multiple query test cases.
// Each post carries a unique signature token so queries can assert the exact post is returned.
func BuildCorpus() *Corpus {
	posts := buildPosts(100)
	cases := buildQueryTestCases(posts)
	return &Corpus{
		Posts:        posts,
		TestCases:    cases,
		TotalPosts:   len(posts),
		TotalQueries: len(cases),
	}
}

func signature(i int) string {
	return fmt.Sprintf("sig%03dtoken", i)
}

func buildPosts(n int) []models.Post {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		topic := topics[i%len(topics)]
		id := int64(firstPostID + i)
		posts = append(posts, models.Post{
			ID:        id,
			Title:     fmt.Sprintf("%s (%d)", topic.title, i/len(topics)+1),
			Author:    fmt.Sprintf("student_%02d", i%17),
			CreatedAt: corpusStart.Add(time.Duration(i) * 18 * time.Hour),
			Content:   topic.content + " Reference " + signature(i) + ".",
			URL:       fmt.Sprintf("https://discourse.onlinedegree.iitm.ac.in/t/post-%d/%d", i, id),
			Category:  "tds",
			Replies:   i % 9,
			Likes:     i % 13,
		})
	}
	return posts
}

func buildQueryTestCases(posts []models.Post) []QueryTestCase {
	var cases []QueryTestCase
	for ti, topic := range topics {
		var ids []int64
		for i := ti; i < len(posts); i += len(topics) {
			ids = append(ids, posts[i].ID)
		}
		cases = append(cases, QueryTestCase{
			Query:           topic.phrase,
			ExpectedPostIDs: ids,
			Description:     "phrase: " + topic.phrase,
		})
	}
	for i := 0; i < len(posts); i += 7 {
		cases = append(cases, QueryTestCase{
			Query:           signature(i),
			ExpectedPostIDs: []int64{posts[i].ID},
			Description:     "signature: " + signature(i),
		})
	}
	return cases
}
