package openai

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestFallbackExtract_FrequencyThenTerm(t *testing.T) {
	text := "rust rust rust async async borrow"

	got := FallbackExtract(text, 10)
	want := []string{"rust", "async", "borrow"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFallbackExtract_TiesBreakAlphabetically(t *testing.T) {
	got := FallbackExtract("zebra apple zebra apple", 10)
	want := []string{"apple", "zebra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFallbackExtract_SkipsStopwordsAndShortTokens(t *testing.T) {
	got := FallbackExtract("the and for it is go rust", 10)
	want := []string{"rust"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFallbackExtract_Limit(t *testing.T) {
	got := FallbackExtract("alpha beta gamma delta", 2)
	if len(got) != 2 {
		t.Errorf("expected 2 terms, got %v", got)
	}
}

func TestFallbackExtract_LowercasesAndSplitsPunctuation(t *testing.T) {
	got := FallbackExtract("Rust! Rust? rust... Async,async", 10)
	want := []string{"rust", "async"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseKeywordJSON(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{"plain array", `["rust", "async"]`, []string{"rust", "async"}, false},
		{"json fence", "```json\n[\"rust\"]\n```", []string{"rust"}, false},
		{"bare fence", "```\n[\"rust\"]\n```", []string{"rust"}, false},
		{"surrounding whitespace", "  [\"rust\"]  ", []string{"rust"}, false},
		{"prose instead of JSON", "Here are the keywords: rust", nil, true},
		{"object instead of array", `{"keywords": ["rust"]}`, nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseKeywordJSON(tc.content)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtract_EmptyText(t *testing.T) {
	e := NewExtractor(&Config{Provider: "openai", Logger: zap.NewNop()})

	terms, err := e.Extract(context.Background(), "   \n  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if terms == nil || len(terms) != 0 {
		t.Errorf("expected empty slice, got %v", terms)
	}
}

func TestExtract_NoAPIKeyUsesHeuristic(t *testing.T) {
	e := NewExtractor(&Config{Provider: "openai", Logger: zap.NewNop()})

	terms, err := e.Extract(context.Background(), "rust rust borrow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"rust", "borrow"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("got %v, want %v", terms, want)
	}
}

func TestHealthCheck_HeuristicExtractorAlwaysHealthy(t *testing.T) {
	e := NewExtractor(&Config{Provider: "openai", Logger: zap.NewNop()})

	if err := e.HealthCheck(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
