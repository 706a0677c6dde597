package discourse

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/vta/internal/models"
	"github.com/xuri/excelize/v2"
)

// Format is a post export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet used for xlsx exports.
const SheetName = "Posts"

// ErrUnknownFormat is returned for unsupported export formats.
var ErrUnknownFormat = errors.New("unknown format")

var csvHeader = []string{"id", "title", "author", "created_at", "content", "url", "category", "replies", "likes"}

// ParseFormat parses a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q (want json, csv or xlsx)", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// DefaultOutputFile is the export file name for format.
func DefaultOutputFile(format Format) string {
	return "discourse_posts." + string(format)
}

// WritePosts encodes posts to w.
func WritePosts(w io.Writer, posts []models.Post, format Format) error {
	if posts == nil {
		posts = []models.Post{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(posts)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return err
		}
		for _, p := range posts {
			if err := cw.Write(postRecord(p)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatXLSX:
		return writeXLSX(w, posts)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

func postRecord(p models.Post) []string {
	return []string{
		strconv.FormatInt(p.ID, 10),
		p.Title,
		p.Author,
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.Content,
		p.URL,
		p.Category,
		strconv.Itoa(p.Replies),
		strconv.Itoa(p.Likes),
	}
}

func writeXLSX(w io.Writer, posts []models.Post) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, p := range posts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			p.ID, p.Title, p.Author, p.CreatedAt.UTC().Format(time.RFC3339),
			p.Content, p.URL, p.Category, p.Replies, p.Likes,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write post %d: %w", p.ID, err)
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// ReadPosts decodes posts previously written by WritePosts.
func ReadPosts(r io.Reader, format Format) ([]models.Post, error) {
	switch format {
	case FormatJSON:
		var posts []models.Post
		if err := json.NewDecoder(r).Decode(&posts); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return posts, nil
	case FormatCSV:
		records, err := csv.NewReader(r).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		return parseRecords(records)
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("open Excel: %w", err)
		}
		defer f.Close()
		rows, err := f.GetRows(SheetName)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", SheetName, err)
		}
		return parseRecords(rows)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// parseRecords converts tabular rows (header first) into posts. Columns are
// matched by header name; trailing empty cells may be missing.
func parseRecords(rows [][]string) ([]models.Post, error) {
	if len(rows) == 0 {
		return []models.Post{}, nil
	}
	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"id", "title", "created_at", "content"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	posts := make([]models.Post, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		id, err := strconv.ParseInt(get(row, "id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid id: %w", line, err)
		}
		created, err := time.Parse(time.RFC3339, get(row, "created_at"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid created_at: %w", line, err)
		}
		p := models.Post{
			ID:        id,
			Title:     get(row, "title"),
			Author:    get(row, "author"),
			CreatedAt: created,
			Content:   get(row, "content"),
			URL:       get(row, "url"),
			Category:  get(row, "category"),
		}
		if p.Replies, err = atoiOrZero(get(row, "replies")); err != nil {
			return nil, fmt.Errorf("row %d: invalid replies: %w", line, err)
		}
		if p.Likes, err = atoiOrZero(get(row, "likes")); err != nil {
			return nil, fmt.Errorf("row %d: invalid likes: %w", line, err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
