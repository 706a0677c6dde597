package keyword

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Suggester proposes corrected queries ("did you mean") from the terms of a Dictionary.
type Suggester struct {
	dict        Dictionary
	maxDistance int

	mu    sync.RWMutex
	terms map[string]struct{}
}

// NewSuggester creates a suggester over dict. maxDistance <= 0 means 2.
func NewSuggester(dict Dictionary, maxDistance int) *Suggester {
	if maxDistance <= 0 {
		maxDistance = 2
	}
	return &Suggester{dict: dict, maxDistance: maxDistance}
}

// Refresh reloads the term list. Call it after the index changes.
func (s *Suggester) Refresh() error {
	terms, err := s.dict.Terms()
	if err != nil {
		return err
	}
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[strings.ToLower(t)] = struct{}{}
	}
	s.mu.Lock()
	s.terms = set
	s.mu.Unlock()
	return nil
}

func (s *Suggester) loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.terms != nil
}

// Correct replaces each unknown query term with its closest known term and
// reports whether anything changed.
func (s *Suggester) Correct(query string) (string, bool) {
	if !s.loaded() {
		if err := s.Refresh(); err != nil {
			return query, false
		}
	}
	words := strings.Fields(strings.ToLower(query))
	changed := false
	for i, w := range words {
		if best, ok := s.closest(w); ok {
			words[i] = best
			changed = true
		}
	}
	if !changed {
		return query, false
	}
	return strings.Join(words, " "), true
}

// closest returns the best replacement for an unknown term. Known terms and
// terms with no candidate within maxDistance return false. Ties go to the
// more frequent term, then the alphabetically first.
func (s *Suggester) closest(term string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.terms[term]; ok {
		return "", false
	}
	n := utf8.RuneCountInString(term)
	best, bestDist, bestFreq := "", s.maxDistance+1, -1
	for cand := range s.terms {
		diff := utf8.RuneCountInString(cand) - n
		if diff < 0 {
			diff = -diff
		}
		if diff > s.maxDistance {
			continue
		}
		dist := EditDistance(term, cand)
		if dist > bestDist {
			continue
		}
		freq, err := s.dict.TermFrequency(cand)
		if err != nil {
			continue
		}
		if dist < bestDist || freq > bestFreq || (freq == bestFreq && cand < best) {
			best, bestDist, bestFreq = cand, dist, freq
		}
	}
	return best, best != ""
}
