// Package cli renders assistant answers, post search results and exports for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/hyperjump/vta/internal/models"
	"github.com/hyperjump/vta/internal/resolver"
	"github.com/hyperjump/vta/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// NoLinksMessage is shown when an answer carries no links.
const NoLinksMessage = "No additional links available for this question."

const rule = "─────────────────────────────────────────────────────────"

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	linkColor    = color.New(color.FgBlue, color.Underline)
	mutedColor   = color.New(color.FgHiBlack)
)

// Answer is the JSON shape of an answered question.
type Answer struct {
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Links    []models.Link   `json:"links"`
	Match    *resolver.Match `json:"match,omitempty"`
}

// WriteAnswer writes an answer to w. match is optional and only shown when non-nil.
func WriteAnswer(w io.Writer, result models.QueryResult, match *resolver.Match, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, Answer{
			Question: result.Question,
			Answer:   result.Answer,
			Links:    models.CloneLinks(result.Links),
			Match:    match,
		})
	default:
		writeAnswerText(w, result, match)
		return nil
	}
}

func writeAnswerText(w io.Writer, result models.QueryResult, match *resolver.Match) {
	fmt.Fprintln(w)
	headingColor.Fprintln(w, "Answer:")
	fmt.Fprintf(w, "%s\n\n", result.Answer)
	if len(result.Links) == 0 {
		mutedColor.Fprintln(w, NoLinksMessage)
	} else {
		headingColor.Fprintln(w, "Helpful Links:")
		for _, l := range result.Links {
			fmt.Fprintf(w, "  • %s\n    ", l.Text)
			linkColor.Fprintln(w, l.URL)
		}
	}
	if match != nil {
		fmt.Fprintln(w)
		mutedColor.Fprintf(w, "matched by %s", match.Stage)
		switch match.Stage {
		case resolver.StageCategory:
			mutedColor.Fprintf(w, " (category %s)", match.Category)
		case resolver.StageFuzzy:
			mutedColor.Fprintf(w, " (entry %d, ratio %.2f)", match.EntryIndex, match.Ratio)
		default:
			mutedColor.Fprintf(w, " (entry %d)", match.EntryIndex)
		}
		fmt.Fprintln(w)
	}
}

// WriteSearchResults writes post search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.PostSearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.PostSearchResponse) {
	fmt.Fprintf(w, "\nFound %d posts in %dms\n\n", response.Total, response.QueryTime)
	if response.Suggestion != "" {
		fmt.Fprintf(w, "Showing results for: ")
		headingColor.Fprintln(w, response.Suggestion)
		fmt.Fprintln(w)
	}
	for _, hit := range response.Hits {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Rank: %d | Score: %.4f\n", hit.Rank, hit.Score)
		headingColor.Fprintln(w, hit.Post.Title)
		fmt.Fprintf(w, "%s · %s · %d replies · %d likes\n",
			hit.Post.Author, hit.Post.CreatedAt.Format("2006-01-02"), hit.Post.Replies, hit.Post.Likes)
		if hit.Post.URL != "" {
			linkColor.Fprintln(w, hit.Post.URL)
		}
		fmt.Fprintf(w, "\n%s\n\n", utils.TruncateWords(hit.Snippet, 40))
	}
}

// Status summarizes the corpus and the post archive.
type Status struct {
	CorpusEntries  int    `json:"corpus_entries"`
	Categories     int    `json:"categories"`
	CorpusSource   string `json:"corpus_source"`
	ArchiveEnabled bool   `json:"archive_enabled"`
	Posts          int64  `json:"posts"`
	ScrapeRuns     int64  `json:"scrape_runs"`
	IndexedPosts   uint64 `json:"indexed_posts"`
	DiskUsageBytes int64  `json:"disk_usage_bytes"`
	DatabasePath   string `json:"database_path,omitempty"`
	BleveIndexPath string `json:"bleve_index_path,omitempty"`
}

// WriteStatus writes status to w in the given format.
func WriteStatus(w io.Writer, status *Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	fmt.Fprintf(w, "Corpus entries:   %d (%s)\n", status.CorpusEntries, status.CorpusSource)
	fmt.Fprintf(w, "Categories:       %d\n", status.Categories)
	if !status.ArchiveEnabled {
		fmt.Fprintln(w, "Archive:          disabled")
		return nil
	}
	fmt.Fprintf(w, "Archived posts:   %d\n", status.Posts)
	fmt.Fprintf(w, "Indexed posts:    %d\n", status.IndexedPosts)
	fmt.Fprintf(w, "Scrape runs:      %d\n", status.ScrapeRuns)
	fmt.Fprintf(w, "Disk usage:       %s\n", FormatBytes(status.DiskUsageBytes))
	fmt.Fprintf(w, "Database:         %s\n", status.DatabasePath)
	fmt.Fprintf(w, "Bleve index:      %s\n", status.BleveIndexPath)
	return nil
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
