package knowledge

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hyperjump/vta/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrInvalidCorpus is wrapped by every corpus file validation error.
var ErrInvalidCorpus = errors.New("invalid corpus")

type corpusFile struct {
	Entries    []models.KnowledgeEntry `yaml:"entries"`
	Categories []Category              `yaml:"categories"`
}

// LoadFile reads a YAML corpus. When the file has no categories section the
// built-in categories are returned.
func LoadFile(path string) (*StaticCorpus, []Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML corpus document.
func Parse(data []byte) (*StaticCorpus, []Category, error) {
	var f corpusFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("failed to parse corpus: %w", err)
	}
	for i, e := range f.Entries {
		if strings.TrimSpace(e.Question) == "" || strings.TrimSpace(e.Answer) == "" {
			return nil, nil, fmt.Errorf("%w: entry %d needs a question and an answer", ErrInvalidCorpus, i)
		}
		if err := validateLinks(e.Links); err != nil {
			return nil, nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidCorpus, i, err)
		}
	}
	categories := f.Categories
	if len(categories) == 0 {
		categories = DefaultCategories()
	} else if err := ValidateCategories(categories); err != nil {
		return nil, nil, err
	}
	return NewStaticCorpus(f.Entries), categories, nil
}

// ValidateCategories checks that only the last category is keyword-less and
// that every category has an answer.
func ValidateCategories(categories []Category) error {
	if len(categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidCorpus)
	}
	last := len(categories) - 1
	for i, c := range categories {
		if strings.TrimSpace(c.Answer) == "" {
			return fmt.Errorf("%w: category %q has no answer", ErrInvalidCorpus, c.Name)
		}
		if c.IsDefault() != (i == last) {
			return fmt.Errorf("%w: exactly the last category must have no keywords", ErrInvalidCorpus)
		}
		if err := validateLinks(c.Links); err != nil {
			return fmt.Errorf("%w: category %q: %v", ErrInvalidCorpus, c.Name, err)
		}
	}
	return nil
}

func validateLinks(links []models.Link) error {
	for j, l := range links {
		if strings.TrimSpace(l.URL) == "" {
			return fmt.Errorf("link %d has no url", j)
		}
	}
	return nil
}
