package models

import "time"

// Post is a forum post captured by the Discourse scraper.
type Post struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Content   string    `json:"content" db:"content"`
	URL       string    `json:"url" db:"url"`
	Category  string    `json:"category" db:"category"`
	Replies   int       `json:"replies" db:"replies"`
	Likes     int       `json:"likes" db:"likes"`
}

// ScrapeRun records one scraper invocation stored in the archive.
type ScrapeRun struct {
	ID        string    `json:"id" db:"id"`
	StartDate string    `json:"start_date" db:"start_date"`
	EndDate   string    `json:"end_date" db:"end_date"`
	Category  string    `json:"category" db:"category"`
	PostCount int       `json:"post_count" db:"post_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PostHit is a single archive search hit.
type PostHit struct {
	Post    *Post   `json:"post"`
	Score   float64 `json:"score"` // relative to the best hit, in (0,1]
	Rank    int     `json:"rank"`
	Snippet string  `json:"snippet"`
}

// PostSearchResponse is the response for a post search request.
type PostSearchResponse struct {
	Hits      []*PostHit `json:"hits"`
	Total     int        `json:"total"`
	QueryTime int64      `json:"query_time_ms"`
	Query     string     `json:"query"`
	// Suggestion is a corrected query, set when the original found nothing.
	Suggestion string `json:"suggestion,omitempty"`
}
