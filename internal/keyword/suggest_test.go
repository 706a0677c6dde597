package keyword

import (
	"context"
	"errors"
	"testing"
)

type mapDictionary map[string]int

func (m mapDictionary) Terms() ([]string, error) {
	out := make([]string, 0, len(m))
	for t := range m {
		out = append(out, t)
	}
	return out, nil
}

func (m mapDictionary) TermFrequency(term string) (int, error) { return m[term], nil }

type brokenDictionary struct{}

func (brokenDictionary) Terms() ([]string, error)            { return nil, errors.New("boom") }
func (brokenDictionary) TermFrequency(string) (int, error) { return 0, nil }

func TestSuggester_Correct(t *testing.T) {
	s := NewSuggester(mapDictionary{"podman": 3, "docker": 5, "course": 2, "coarse": 1}, 0)
	tests := []struct {
		query   string
		want    string
		changed bool
	}{
		{"podman", "podman", false},
		{"podmn dokcer", "podman docker", true},
		{"Podmn", "podman", true},
		// both "course" and "coarse" are one edit away; the more frequent wins
		{"corse", "course", true},
		{"xylophone", "xylophone", false},
	}
	for _, tt := range tests {
		got, changed := s.Correct(tt.query)
		if got != tt.want || changed != tt.changed {
			t.Errorf("Correct(%q) = %q, %v; want %q, %v", tt.query, got, changed, tt.want, tt.changed)
		}
	}
}

func TestSuggester_BrokenDictionary(t *testing.T) {
	s := NewSuggester(brokenDictionary{}, 1)
	if got, changed := s.Correct("anything"); got != "anything" || changed {
		t.Errorf("Correct = %q, %v", got, changed)
	}
	if err := s.Refresh(); err == nil {
		t.Error("expected refresh error")
	}
}

func TestSuggester_WithBleveIndex(t *testing.T) {
	idx := newMemIndex(t)
	if err := idx.IndexBatch(context.Background(), testPosts()); err != nil {
		t.Fatal(err)
	}
	s := NewSuggester(idx, 2)
	got, changed := s.Correct("containerizaton")
	if !changed || got != "containerization" {
		t.Errorf("Correct = %q, %v", got, changed)
	}
}
