package convert

import (
	"testing"
)

func TestFindSpans(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    StyleKind
		content string
		data    string
	}{
		{
			name:    "bold",
			input:   "this is *important* here",
			kind:    StyleBold,
			content: "important",
		},
		{
			name:    "italic",
			input:   "an /emphasized/ word",
			kind:    StyleItalic,
			content: "emphasized",
		},
		{
			name:    "code tilde",
			input:   "run ~make test~ now",
			kind:    StyleCode,
			content: "make test",
		},
		{
			name:    "code equals",
			input:   "the =Config= struct",
			kind:    StyleCode,
			content: "Config",
		},
		{
			name:    "underline",
			input:   "an _underlined_ word",
			kind:    StyleUnderline,
			content: "underlined",
		},
		{
			name:    "strikethrough",
			input:   "a +removed+ word",
			kind:    StyleStrikethrough,
			content: "removed",
		},
		{
			name:    "described link",
			input:   "see [[https://example.com][the docs]] here",
			kind:    StyleLink,
			content: "the docs",
			data:    "https://example.com",
		},
		{
			name:    "bare link",
			input:   "see [[https://example.com]] here",
			kind:    StyleLink,
			content: "https://example.com",
			data:    "https://example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := findSpans(tt.input)
			if len(spans) != 1 {
				t.Fatalf("got %d spans, want 1: %+v", len(spans), spans)
			}
			s := spans[0]
			if s.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", s.Kind, tt.kind)
			}
			if s.Content != tt.content {
				t.Errorf("content = %q, want %q", s.Content, tt.content)
			}
			if tt.data != "" && s.Data != tt.data {
				t.Errorf("data = %q, want %q", s.Data, tt.data)
			}
		})
	}
}

func TestFindSpansEmphasisBoundaries(t *testing.T) {
	// Emphasis delimiters glued to word characters are not formatting.
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "mid-word asterisks", input: "a*b*c", want: 0},
		{name: "path slashes", input: "see /usr/local/bin for tools", want: 0},
		{name: "snake case underscores", input: "use snake_case_names here", want: 0},
		{name: "arithmetic plus", input: "x+1+2", want: 0},
		{name: "bold at line start", input: "*bold* rest", want: 1},
		{name: "bold at line end", input: "rest *bold*", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got int
			for _, s := range findSpans(tt.input) {
				if s.Kind != StyleLink {
					got++
				}
			}
			if got != tt.want {
				t.Errorf("findSpans(%q) emphasis count = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestReduceSpans(t *testing.T) {
	tests := []struct {
		name string
		in   []span
		want []span
	}{
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
		{
			name: "disjoint kept in order",
			in: []span{
				{Start: 10, End: 15, Kind: StyleBold},
				{Start: 0, End: 5, Kind: StyleItalic},
			},
			want: []span{
				{Start: 0, End: 5, Kind: StyleItalic},
				{Start: 10, End: 15, Kind: StyleBold},
			},
		},
		{
			name: "overlap earlier wins",
			in: []span{
				{Start: 0, End: 8, Kind: StyleBold},
				{Start: 4, End: 12, Kind: StyleItalic},
			},
			want: []span{
				{Start: 0, End: 8, Kind: StyleBold},
			},
		},
		{
			name: "same start longer wins",
			in: []span{
				{Start: 0, End: 4, Kind: StyleCode},
				{Start: 0, End: 10, Kind: StyleLink},
			},
			want: []span{
				{Start: 0, End: 10, Kind: StyleLink},
			},
		},
		{
			name: "adjacent both kept",
			in: []span{
				{Start: 0, End: 5, Kind: StyleBold},
				{Start: 5, End: 9, Kind: StyleItalic},
			},
			want: []span{
				{Start: 0, End: 5, Kind: StyleBold},
				{Start: 5, End: 9, Kind: StyleItalic},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reduceSpans(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d spans, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i].Start != tt.want[i].Start || got[i].End != tt.want[i].End || got[i].Kind != tt.want[i].Kind {
					t.Errorf("span %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFindSpansLinkBeatsEmphasisInside(t *testing.T) {
	// A URL containing slashes must resolve as one link, not italic pieces.
	input := "go to [[https://example.com/a/b][site]] now"
	spans := reduceSpans(findSpans(input))
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %+v", len(spans), spans)
	}
	if spans[0].Kind != StyleLink || spans[0].Content != "site" {
		t.Errorf("span = %+v", spans[0])
	}
}
