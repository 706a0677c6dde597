package keyword

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/vta/internal/models"
	bolt "go.etcd.io/bbolt"
)

// ErrIndexInUse is returned when another process holds the index open.
var ErrIndexInUse = errors.New("keyword index is in use by another process; pass --server to query the running server")

// openTimeout bounds the wait for the index file lock.
var openTimeout = 2 * time.Second

var textFields = []string{"title", "content", "author", "category"}

// postDocument is the indexed form of a post.
type postDocument struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

func newPostDocument(p *models.Post) postDocument {
	return postDocument{Title: p.Title, Content: p.Content, Author: p.Author, Category: p.Category}
}

// BleveIndex implements PostIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

func newPostMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer: lowercase + tokenize, no stemming, so "ga5" and "podman" match verbatim.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	for _, f := range textFields {
		docMapping.AddFieldMappingsAt(f, textFieldMapping)
	}
	im.AddDocumentMapping("post", docMapping)
	im.DefaultType = "post"
	im.DefaultMapping = docMapping
	return im
}

// NewBleveIndex creates or opens a Bleve index at path. An empty path gives an
// in-memory index. If the mapping changes, remove the index directory to rebuild it.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if path == "" {
		index, err := bleve.NewMemOnly(newPostMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory Bleve index: %w", err)
		}
		return &BleveIndex{index: index}, nil
	}

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.OpenUsing(path, map[string]interface{}{
			"bolt_timeout": openTimeout.String(),
		})
		if errors.Is(openErr, bolt.ErrTimeout) {
			return nil, fmt.Errorf("%w: %s", ErrIndexInUse, path)
		}
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, newPostMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Index indexes a single post.
func (b *BleveIndex) Index(ctx context.Context, post *models.Post) error {
	return b.index.Index(docID(post.ID), newPostDocument(post))
}

// IndexBatch indexes posts in one batch.
func (b *BleveIndex) IndexBatch(ctx context.Context, posts []models.Post) error {
	batch := b.index.NewBatch()
	for i := range posts {
		if err := batch.Index(docID(posts[i].ID), newPostDocument(&posts[i])); err != nil {
			return fmt.Errorf("failed to batch post %d: %w", posts[i].ID, err)
		}
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to index batch: %w", err)
	}
	return nil
}

// Search runs a match query over all post fields and returns up to limit hits.
// With opts.TitleBoost > 1 an additional boosted title clause lifts posts whose
// title matches.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*Hit, error) {
	var titleBoost float64
	var fuzziness int
	if opts != nil {
		titleBoost = opts.TitleBoost
		fuzziness = opts.Fuzziness
	}

	all := bleve.NewMatchQuery(query)
	all.SetFuzziness(fuzziness)
	var q blevequery.Query = all
	if titleBoost > 1 {
		title := bleve.NewMatchQuery(query)
		title.SetField("title")
		title.SetFuzziness(fuzziness)
		title.SetBoost(titleBoost)
		fields := make([]blevequery.Query, 0, len(textFields))
		for _, f := range textFields {
			fq := bleve.NewMatchQuery(query)
			fq.SetField(f)
			fq.SetFuzziness(fuzziness)
			fields = append(fields, fq)
		}
		q = bleve.NewDisjunctionQuery(append(fields, title)...)
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*Hit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, &Hit{ID: id, Score: hit.Score})
	}
	return out, nil
}

// Delete removes a post from the index.
func (b *BleveIndex) Delete(ctx context.Context, id int64) error {
	return b.index.Delete(docID(id))
}

// DocCount returns the number of indexed posts.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// Terms returns every distinct term in the title and content fields.
func (b *BleveIndex) Terms() ([]string, error) {
	seen := make(map[string]struct{})
	var terms []string
	for _, field := range []string{"title", "content"} {
		dict, err := b.index.FieldDict(field)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s terms: %w", field, err)
		}
		for {
			entry, err := dict.Next()
			if err != nil || entry == nil {
				break
			}
			if _, ok := seen[entry.Term]; !ok {
				seen[entry.Term] = struct{}{}
				terms = append(terms, entry.Term)
			}
		}
		_ = dict.Close()
	}
	return terms, nil
}

// TermFrequency returns the number of posts containing term.
func (b *BleveIndex) TermFrequency(term string) (int, error) {
	q := bleve.NewMatchQuery(strings.ToLower(term))
	req := bleve.NewSearchRequestOptions(q, 0, 0, false)
	results, err := b.index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("failed to count term %q: %w", term, err)
	}
	return int(results.Total), nil
}
