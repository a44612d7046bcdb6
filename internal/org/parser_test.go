package org

import (
	"strings"
	"testing"
)

func TestParseMetadata(t *testing.T) {
	doc := Parse("#+TITLE: Project Notes\n#+GDOC_ID: abc123\n\n* Heading\n")

	if v, _ := doc.Metadata("TITLE"); v != "Project Notes" {
		t.Errorf("TITLE = %q, want %q", v, "Project Notes")
	}
	if doc.GDocID() != "abc123" {
		t.Errorf("GDocID = %q, want abc123", doc.GDocID())
	}
	if keys := doc.MetadataKeys(); len(keys) != 2 || keys[0] != "TITLE" || keys[1] != "GDOC_ID" {
		t.Errorf("MetadataKeys = %v, want [TITLE GDOC_ID]", keys)
	}
}

func TestParseMetadataStopsAtDirectives(t *testing.T) {
	doc := Parse("#+TITLE: Notes\n#+GDOCS_COMMENT: please review\n\nBody text\n")

	if _, ok := doc.Metadata("GDOCS_COMMENT"); ok {
		t.Error("GDOCS_COMMENT must not become document metadata")
	}
	if len(doc.Content) == 0 || doc.Content[0].Type != NodeCommentDirective {
		t.Fatalf("expected leading comment directive, got %+v", doc.Content)
	}
	if got := doc.Content[0].Property("content"); got != "please review" {
		t.Errorf("directive content = %q", got)
	}
}

func TestParseHeading(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		level    int
		title    string
		todo     string
		priority string
		tags     []string
	}{
		{
			name:  "plain",
			input: "* Introduction",
			level: 1,
			title: "Introduction",
		},
		{
			name:  "nested level",
			input: "*** Deep Section",
			level: 3,
			title: "Deep Section",
		},
		{
			name:  "todo state",
			input: "** TODO Write draft",
			level: 2,
			title: "Write draft",
			todo:  "TODO",
		},
		{
			name:     "todo with priority",
			input:    "* TODO [#A] Urgent thing",
			level:    1,
			title:    "Urgent thing",
			todo:     "TODO",
			priority: "A",
		},
		{
			name:  "tags",
			input: "* Meeting Notes :work:sync:",
			level: 1,
			title: "Meeting Notes",
			tags:  []string{"work", "sync"},
		},
		{
			name:  "todo-like word mid-title stays in title",
			input: "* Things TODO later",
			level: 1,
			title: "Things TODO later",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.input + "\n")
			if len(doc.Content) != 1 {
				t.Fatalf("got %d nodes, want 1", len(doc.Content))
			}
			h := doc.Content[0]
			if h.Type != NodeHeading {
				t.Fatalf("type = %s, want heading", h.Type)
			}
			if h.Level != tt.level {
				t.Errorf("level = %d, want %d", h.Level, tt.level)
			}
			if h.Title != tt.title {
				t.Errorf("title = %q, want %q", h.Title, tt.title)
			}
			if h.TodoState != tt.todo {
				t.Errorf("todo = %q, want %q", h.TodoState, tt.todo)
			}
			if h.Priority != tt.priority {
				t.Errorf("priority = %q, want %q", h.Priority, tt.priority)
			}
			if len(h.Tags) != len(tt.tags) {
				t.Fatalf("tags = %v, want %v", h.Tags, tt.tags)
			}
			for i := range tt.tags {
				if h.Tags[i] != tt.tags[i] {
					t.Errorf("tags = %v, want %v", h.Tags, tt.tags)
				}
			}
		})
	}
}

func TestParseHeadingPropertyDrawer(t *testing.T) {
	input := strings.Join([]string{
		"*** Comment from Reviewer [2024-01-15 Mon 14:30]",
		":PROPERTIES:",
		":COMMENT_ID: c1",
		`:ANCHOR: "quoted text"`,
		":RESOLVED: nil",
		":END:",
		"The comment body.",
	}, "\n")

	doc := Parse(input)
	h := doc.Content[0]
	if h.Property("COMMENT_ID") != "c1" {
		t.Errorf("COMMENT_ID = %q", h.Property("COMMENT_ID"))
	}
	if h.Property("ANCHOR") != `"quoted text"` {
		t.Errorf("ANCHOR = %q", h.Property("ANCHOR"))
	}
	if h.Property("RESOLVED") != "nil" {
		t.Errorf("RESOLVED = %q", h.Property("RESOLVED"))
	}
	// Drawer lines are not content.
	if len(h.Children) != 1 || h.Children[0].Type != NodeParagraph {
		t.Fatalf("children = %+v", h.Children)
	}
}

func TestParseUnterminatedDrawerIsContent(t *testing.T) {
	doc := Parse("* H\n:PROPERTIES:\n:KEY: v\nno end marker\n")
	h := doc.Content[0]
	if len(h.Properties) != 0 {
		t.Errorf("unterminated drawer parsed as properties: %v", h.Properties)
	}
	if len(h.Children) == 0 {
		t.Error("drawer lines should degrade to content")
	}
}

func TestParseHeadingNesting(t *testing.T) {
	input := strings.Join([]string{
		"* Top",
		"Intro paragraph.",
		"** Child A",
		"** Child B",
		"*** Grandchild",
		"* Second Top",
	}, "\n")

	doc := Parse(input)
	if len(doc.Content) != 2 {
		t.Fatalf("got %d top-level nodes, want 2", len(doc.Content))
	}

	top := doc.Content[0]
	if len(top.Children) != 3 {
		t.Fatalf("top children = %d, want 3 (paragraph + two headings)", len(top.Children))
	}
	if top.Children[0].Type != NodeParagraph {
		t.Errorf("first child type = %s, want paragraph", top.Children[0].Type)
	}
	childB := top.Children[2]
	if childB.Title != "Child B" || len(childB.Children) != 1 {
		t.Fatalf("Child B should hold the grandchild, got %+v", childB)
	}
	if childB.Children[0].Title != "Grandchild" {
		t.Errorf("grandchild title = %q", childB.Children[0].Title)
	}
}

func TestParseSrcBlock(t *testing.T) {
	input := strings.Join([]string{
		"#+BEGIN_SRC python :file out.svg :exports results",
		"import this",
		"print('hi')",
		"#+END_SRC",
	}, "\n")

	doc := Parse(input)
	if len(doc.Content) != 1 {
		t.Fatalf("got %d nodes, want 1", len(doc.Content))
	}
	src := doc.Content[0]
	if src.Type != NodeSrcBlock {
		t.Fatalf("type = %s, want src_block", src.Type)
	}
	if src.Language != "python" {
		t.Errorf("language = %q, want python", src.Language)
	}
	if src.HeaderArgs != ":file out.svg :exports results" {
		t.Errorf("header args = %q", src.HeaderArgs)
	}
	if src.Content != "import this\nprint('hi')" {
		t.Errorf("content = %q", src.Content)
	}
	if src.StartLine != 0 || src.EndLine != 3 {
		t.Errorf("span = (%d,%d), want (0,3)", src.StartLine, src.EndLine)
	}
}

func TestParseSrcBlockUnterminated(t *testing.T) {
	doc := Parse("#+BEGIN_SRC sh\necho hi\n")

	if len(doc.Content) != 1 || doc.Content[0].Type != NodeSrcBlock {
		t.Fatalf("unterminated block should still parse, got %+v", doc.Content)
	}
	if !strings.Contains(doc.Content[0].Content, "echo hi") {
		t.Errorf("content = %q", doc.Content[0].Content)
	}
}

func TestParseTable(t *testing.T) {
	input := strings.Join([]string{
		"| Name | Role |",
		"|------+------|",
		"| Ada  | Eng  |",
		"| Bo   | PM   |",
	}, "\n")

	doc := Parse(input)
	table := doc.Content[0]
	if table.Type != NodeTable {
		t.Fatalf("type = %s, want table", table.Type)
	}
	if !table.HasHeader {
		t.Error("separator after first row should set HasHeader")
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.Rows))
	}
	if table.Rows[0][0] != "Name" || table.Rows[2][1] != "PM" {
		t.Errorf("cells = %v", table.Rows)
	}
}

func TestParseTableNoHeader(t *testing.T) {
	doc := Parse("| a | b |\n| c | d |\n")
	table := doc.Content[0]
	if table.HasHeader {
		t.Error("table without separator must not have a header")
	}
	if len(table.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(table.Rows))
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		listType string
		items    int
		checkbox string
	}{
		{
			name:     "unordered dash",
			input:    "- one\n- two\n- three\n",
			listType: ListUnordered,
			items:    3,
		},
		{
			name:     "ordered",
			input:    "1. first\n2. second\n",
			listType: ListOrdered,
			items:    2,
		},
		{
			name:     "checkboxes",
			input:    "- [X] done\n- [ ] open\n",
			listType: ListUnordered,
			items:    2,
			checkbox: "X",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.input)
			if len(doc.Content) != 1 {
				t.Fatalf("got %d nodes, want 1", len(doc.Content))
			}
			list := doc.Content[0]
			if list.Type != NodeList {
				t.Fatalf("type = %s, want list", list.Type)
			}
			if list.ListType != tt.listType {
				t.Errorf("list type = %s, want %s", list.ListType, tt.listType)
			}
			if len(list.Children) != tt.items {
				t.Fatalf("items = %d, want %d", len(list.Children), tt.items)
			}
			if tt.checkbox != "" && list.Children[0].Checkbox != tt.checkbox {
				t.Errorf("checkbox = %q, want %q", list.Children[0].Checkbox, tt.checkbox)
			}
		})
	}
}

func TestParseListContinuationLines(t *testing.T) {
	doc := Parse("- first item\n  continues here\n- second\n")
	list := doc.Content[0]
	if len(list.Children) != 2 {
		t.Fatalf("items = %d, want 2", len(list.Children))
	}
	if list.Children[0].Content != "first item continues here" {
		t.Errorf("item content = %q", list.Children[0].Content)
	}
}

func TestParseParagraphInline(t *testing.T) {
	doc := Parse("See [[https://example.com][the docs]] for more.\n")
	para := doc.Content[0]
	if para.Type != NodeParagraph {
		t.Fatalf("type = %s, want paragraph", para.Type)
	}
	if len(para.Children) != 3 {
		t.Fatalf("children = %d, want text/link/text", len(para.Children))
	}
	link := para.Children[1]
	if link.Type != NodeLink || link.URL != "https://example.com" || link.Description != "the docs" {
		t.Errorf("link = %+v", link)
	}
}

func TestParseBareLink(t *testing.T) {
	doc := Parse("Ref [[https://example.com]] end.\n")
	link := doc.Content[0].Children[1]
	if link.URL != "https://example.com" || link.Description != "" {
		t.Errorf("link = %+v", link)
	}
}

func TestParseMultilineParagraph(t *testing.T) {
	doc := Parse("Line one\nline two\n\nNext para\n")
	if len(doc.Content) != 2 {
		t.Fatalf("got %d nodes, want 2 paragraphs", len(doc.Content))
	}
	first := doc.Content[0]
	if first.Children[0].Content != "Line one line two" {
		t.Errorf("joined content = %q", first.Children[0].Content)
	}
}

func TestParseNeverFails(t *testing.T) {
	// Malformed or hostile input degrades to text, never panics.
	inputs := []string{
		"",
		"\n\n\n",
		":PROPERTIES:\nno end",
		"| broken table\n*not a heading",
		"#+END_SRC\nstray end marker",
	}
	for _, input := range inputs {
		doc := Parse(input)
		if doc == nil {
			t.Fatalf("Parse(%q) returned nil", input)
		}
	}
}

func TestParseLineSpans(t *testing.T) {
	input := strings.Join([]string{
		"#+TITLE: Doc",
		"",
		"* Heading",
		"#+BEGIN_SRC dot :file g.svg",
		"digraph {}",
		"#+END_SRC",
	}, "\n")

	doc := Parse(input)
	h := doc.Content[0]
	if h.StartLine != 2 {
		t.Errorf("heading start = %d, want 2", h.StartLine)
	}
	src := h.Children[0]
	if src.StartLine != 3 || src.EndLine != 5 {
		t.Errorf("src span = (%d,%d), want (3,5)", src.StartLine, src.EndLine)
	}
}
