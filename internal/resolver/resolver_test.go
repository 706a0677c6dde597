package resolver

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/hyperjump/vta/internal/knowledge"
	"github.com/hyperjump/vta/internal/models"
)

func defaultResolver() *Resolver {
	return New(knowledge.Default(), knowledge.DefaultCategories())
}

func categoryByName(t *testing.T, name string) knowledge.Category {
	t.Helper()
	for _, c := range knowledge.DefaultCategories() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no category %q", name)
	return knowledge.Category{}
}

func TestResolve_ExactMatchEveryEntry(t *testing.T) {
	r := defaultResolver()
	for i, e := range knowledge.Default().Entries() {
		got, m := r.Explain(e.Question)
		if m.Stage != StageExact || m.EntryIndex != i {
			t.Errorf("entry %d: match = %+v, want exact at %d", i, m, i)
		}
		if got.Question != e.Question || got.Answer != e.Answer {
			t.Errorf("entry %d: got %+v", i, got)
		}
		if !reflect.DeepEqual(got.Links, e.Links) {
			t.Errorf("entry %d: links = %v, want %v", i, got.Links, e.Links)
		}
	}
}

func TestResolve_ExactMatchIgnoresCase(t *testing.T) {
	r := defaultResolver()
	e := knowledge.Default().Entries()[3]
	input := strings.ToUpper(e.Question)
	got, m := r.Explain(input)
	if m.Stage != StageExact {
		t.Fatalf("stage = %s, want exact", m.Stage)
	}
	if got.Question != input {
		t.Errorf("question should echo input, got %q", got.Question)
	}
	if got.Answer != e.Answer {
		t.Errorf("answer = %q", got.Answer)
	}
}

func TestResolve_GPTQuestion(t *testing.T) {
	got := defaultResolver().Resolve("Should I use gpt-4o-mini which AI proxy supports, or gpt3.5 turbo?")
	if !strings.Contains(got.Answer, "gpt-3.5-turbo-0125") {
		t.Errorf("answer = %q", got.Answer)
	}
	if len(got.Links) != 2 {
		t.Errorf("links = %d, want 2", len(got.Links))
	}
}

func TestResolve_FuzzyMatch(t *testing.T) {
	r := defaultResolver()
	got, m := r.Explain("Should I use Docker or Podman?")
	if m.Stage != StageFuzzy || m.EntryIndex != 2 {
		t.Fatalf("match = %+v, want fuzzy at 2", m)
	}
	if m.Ratio <= FuzzyThreshold {
		t.Errorf("ratio = %v", m.Ratio)
	}
	if !strings.Contains(got.Answer, "Podman") {
		t.Errorf("answer = %q", got.Answer)
	}
	if got.Question != "Should I use Docker or Podman?" {
		t.Errorf("question not echoed: %q", got.Question)
	}
}

func TestResolve_ContainerQuestionFallsToCategory(t *testing.T) {
	r := defaultResolver()
	input := "what container tool should I use"

	tokens := Tokenize(input)
	for i, e := range knowledge.Default().Entries() {
		if ratio, _ := MatchRatio(tokens, Tokenize(e.Question)); ratio > FuzzyThreshold {
			t.Fatalf("entry %d unexpectedly clears threshold with %v", i, ratio)
		}
	}

	got, m := r.Explain(input)
	if m.Stage != StageCategory || m.Category != knowledge.CategoryContainer {
		t.Fatalf("match = %+v, want containerization category", m)
	}
	if len(got.Links) != 1 || got.Links[0].URL != "https://tds.s-anand.net/#/docker" {
		t.Errorf("links = %v", got.Links)
	}
}

func TestResolve_DefaultFallback(t *testing.T) {
	r := defaultResolver()
	got, m := r.Explain("banana")
	if m.Stage != StageCategory || m.Category != knowledge.CategoryDefault {
		t.Fatalf("match = %+v, want default", m)
	}
	want := categoryByName(t, knowledge.CategoryDefault)
	if got.Answer != want.Answer || len(got.Links) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestResolve_CategoryPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"docker beats api", "Running docker versus calling an api from inside notebooks", knowledge.CategoryContainer},
		{"ga substring counts", "Is the legal notice inside a container", knowledge.CategoryAssignment},
		{"api via openai", "How do I call the openai endpoint", knowledge.CategoryAPI},
		{"schedule", "Where can I see the schedule for quizzes", knowledge.CategoryExam},
	}
	r := defaultResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, m := r.Explain(tt.input)
			if m.Stage != StageCategory || m.Category != tt.want {
				t.Fatalf("match = %+v, want category %s", m, tt.want)
			}
			if got.Answer != categoryByName(t, tt.want).Answer {
				t.Errorf("answer mismatch for %s", tt.want)
			}
		})
	}
}

func TestResolve_FirstQualifyingEntryWins(t *testing.T) {
	corpus := knowledge.NewStaticCorpus([]models.KnowledgeEntry{
		{Question: "python pandas numpy scipy", Answer: "first"},
		{Question: "python pandas plotting seaborn", Answer: "second"},
	})
	r := New(corpus, nil)
	input := "python pandas numpy plotting seaborn"

	tokens := Tokenize(input)
	first, _ := MatchRatio(tokens, Tokenize("python pandas numpy scipy"))
	second, _ := MatchRatio(tokens, Tokenize("python pandas plotting seaborn"))
	if !(second > first && first > FuzzyThreshold) {
		t.Fatalf("fixture broken: first=%v second=%v", first, second)
	}

	got, m := r.Explain(input)
	if got.Answer != "first" || m.EntryIndex != 0 {
		t.Errorf("got %q at %d, want first entry", got.Answer, m.EntryIndex)
	}
}

func TestResolve_ThresholdIsStrict(t *testing.T) {
	corpus := knowledge.NewStaticCorpus([]models.KnowledgeEntry{
		{Question: "alpha bravo charlie delta echo", Answer: "phonetic"},
	})
	r := New(corpus, nil)

	_, m := r.Explain("alpha bravo xray yankee zulu")
	if m.Stage != StageCategory {
		t.Errorf("ratio of exactly 0.4 must not match, got %+v", m)
	}
	got, m := r.Explain("alpha bravo charlie yankee zulu")
	if m.Stage != StageFuzzy || got.Answer != "phonetic" {
		t.Errorf("ratio 0.6 should match, got %+v", m)
	}
}

func TestResolve_ShortTokensOnlySkipFuzzy(t *testing.T) {
	corpus := knowledge.NewStaticCorpus([]models.KnowledgeEntry{
		{Question: "is it ok to use a laptop", Answer: "yes"},
	})
	_, m := New(corpus, nil).Explain("is it ok")
	if m.Stage != StageCategory || m.Category != knowledge.CategoryDefault {
		t.Errorf("match = %+v, want default category", m)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	r := defaultResolver()
	for _, q := range []string{"banana", "Should I use Docker or Podman?", "When is the TDS Sep 2025 end-term exam?"} {
		a := r.Resolve(q)
		b := r.Resolve(q)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Resolve(%q) not idempotent: %+v vs %+v", q, a, b)
		}
	}
}

func TestResolve_ResultDoesNotAliasCorpus(t *testing.T) {
	corpus := knowledge.Default()
	r := New(corpus, nil)
	q := corpus.Entries()[0].Question
	got := r.Resolve(q)
	got.Links[0].URL = "mutated"
	again := r.Resolve(q)
	if again.Links[0].URL == "mutated" {
		t.Error("mutating a result changed the resolver's data")
	}
	if corpus.Entries()[0].Links[0].URL == "mutated" {
		t.Error("mutating a result changed the corpus")
	}
}

func TestResolve_EmptyLinksNeverNil(t *testing.T) {
	got := defaultResolver().Resolve("When is the TDS Sep 2025 end-term exam?")
	if got.Links == nil || len(got.Links) != 0 {
		t.Errorf("links = %#v, want empty slice", got.Links)
	}
}

func TestResolve_NilCorpus(t *testing.T) {
	got := Resolve("docker help please", nil, nil)
	if got.Answer != categoryByName(t, knowledge.CategoryContainer).Answer {
		t.Errorf("answer = %q", got.Answer)
	}
}

func TestResolve_CategoriesWithoutDefault(t *testing.T) {
	cats := []knowledge.Category{{Name: "lab", Keywords: []string{"LAB"}, Answer: "lab answer"}}
	r := New(knowledge.NewStaticCorpus(nil), cats)
	if got := r.Resolve("my Lab broke"); got.Answer != "lab answer" {
		t.Errorf("keywords should match case-insensitively, got %q", got.Answer)
	}
	got, m := r.Explain("banana")
	if got.Answer != categoryByName(t, knowledge.CategoryDefault).Answer || m.Category != knowledge.CategoryDefault {
		t.Errorf("expected built-in default, got %+v", m)
	}
}

func TestResolve_Concurrent(t *testing.T) {
	r := defaultResolver()
	want := r.Resolve("banana")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := r.Resolve("banana"); !reflect.DeepEqual(got, want) {
				t.Errorf("concurrent result differs: %+v", got)
			}
		}()
	}
	wg.Wait()
}

func TestResolver_Counts(t *testing.T) {
	r := defaultResolver()
	if r.EntryCount() != 4 || r.CategoryCount() != 5 {
		t.Errorf("counts = %d, %d", r.EntryCount(), r.CategoryCount())
	}
}

func BenchmarkResolve(b *testing.B) {
	r := defaultResolver()
	inputs := []string{
		"Should I use gpt-4o-mini which AI proxy supports, or gpt3.5 turbo?",
		"Should I use Docker or Podman?",
		"what container tool should I use",
		"banana",
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Resolve(inputs[i%len(inputs)])
	}
}
