package discourse

import (
	"context"
	"fmt"
	"os"

	"github.com/hyperjump/vta/internal/models"
)

// FileSource reads posts from a previous export (json, csv or xlsx by extension).
type FileSource struct {
	Path string
}

// Posts implements Source.
func (s *FileSource) Posts(ctx context.Context) ([]models.Post, error) {
	format, err := FormatFromPath(s.Path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer f.Close()
	return ReadPosts(f, format)
}
