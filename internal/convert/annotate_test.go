package convert

import (
	"strings"
	"testing"
	"time"

	"github.com/gerunddev/docbridge/internal/gdocs"
	"github.com/gerunddev/docbridge/internal/org"
)

var annotTime = time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

func fixedClock(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return annotTime }
	t.Cleanup(func() { now = orig })
}

func TestMergeAnnotationsCreatesSection(t *testing.T) {
	doc := org.Parse("* Content\nBody.\n")

	MergeAnnotations(doc,
		[]gdocs.Comment{{
			ID:          "c1",
			Content:     "Needs a source",
			Author:      "Reviewer",
			CreatedTime: annotTime,
			Anchor:      "quoted text",
		}},
		nil)

	if len(doc.Content) != 2 {
		t.Fatalf("top-level nodes = %d, want 2", len(doc.Content))
	}
	section := doc.Content[1]
	if section.Title != AnnotationsSection || section.Level != 1 {
		t.Fatalf("section = %+v", section)
	}

	h := section.Children[0]
	if h.Title != "Comment from Reviewer [2024-01-15 Mon 14:30]" {
		t.Errorf("title = %q", h.Title)
	}
	if h.Property(PropCommentID) != "c1" {
		t.Errorf("COMMENT_ID = %q", h.Property(PropCommentID))
	}
	if h.Property(PropAnchor) != `"quoted text"` {
		t.Errorf("ANCHOR = %q", h.Property(PropAnchor))
	}
	if h.Property(PropResolved) != ResolvedNo {
		t.Errorf("RESOLVED = %q, want nil", h.Property(PropResolved))
	}
	if h.Children[0].Content != "Needs a source" {
		t.Errorf("content = %q", h.Children[0].Content)
	}
}

func TestMergeAnnotationsReusesSection(t *testing.T) {
	doc := org.Parse("* GDOCS_ANNOTATIONS\n* Content\n")

	MergeAnnotations(doc, []gdocs.Comment{{ID: "c1", Author: "A", CreatedTime: annotTime}}, nil)
	MergeAnnotations(doc, []gdocs.Comment{{ID: "c2", Author: "B", CreatedTime: annotTime}}, nil)

	if len(doc.Content) != 2 {
		t.Fatalf("section duplicated: %d top-level nodes", len(doc.Content))
	}
	if got := len(doc.Content[0].Children); got != 2 {
		t.Errorf("annotations = %d, want 2", got)
	}
}

func TestMergeAnnotationsSkipsResolvedComments(t *testing.T) {
	doc := org.Parse("* Content\n")

	MergeAnnotations(doc, []gdocs.Comment{
		{ID: "c1", Author: "A", CreatedTime: annotTime, Resolved: true},
	}, nil)

	if len(doc.Content) != 1 {
		t.Error("resolved comment should not create a section")
	}
}

func TestMergeAnnotationsCommentReplies(t *testing.T) {
	doc := org.Parse("* Content\n")

	MergeAnnotations(doc, []gdocs.Comment{{
		ID: "c1", Author: "A", CreatedTime: annotTime,
		Replies: []gdocs.CommentReply{
			{ID: "r1", Content: "Agreed", Author: "B", CreatedTime: annotTime},
		},
	}}, nil)

	h := doc.Content[1].Children[0]
	var reply *org.Node
	for _, child := range h.Children {
		if child.Type == org.NodeHeading {
			reply = child
		}
	}
	if reply == nil {
		t.Fatal("no reply sub-heading")
	}
	if reply.Level != 4 || !strings.HasPrefix(reply.Title, "Reply from B") {
		t.Errorf("reply = %+v", reply)
	}
	if reply.Children[0].Content != "Agreed" {
		t.Errorf("reply content = %q", reply.Children[0].Content)
	}
}

func TestMergeAnnotationsSuggestion(t *testing.T) {
	doc := org.Parse("* Content\n")

	MergeAnnotations(doc, nil, []gdocs.Suggestion{{
		ID:           "s1",
		Kind:         gdocs.SuggestionInsertion,
		Content:      "new sentence",
		Author:       "Editor",
		CreatedTime:  annotTime,
		LocationHint: "after paragraph 2",
	}})

	h := doc.Content[1].Children[0]
	if h.Property(PropSuggestionID) != "s1" {
		t.Errorf("SUGG_ID = %q", h.Property(PropSuggestionID))
	}
	if h.Property(PropStatus) != StatusPending {
		t.Errorf("STATUS = %q", h.Property(PropStatus))
	}
	if h.Property(PropKind) != gdocs.SuggestionInsertion {
		t.Errorf("TYPE = %q", h.Property(PropKind))
	}
	if h.Children[0].Content != "[INSERTION] new sentence" {
		t.Errorf("content = %q", h.Children[0].Content)
	}
}

func TestMarkCommentResolved(t *testing.T) {
	fixedClock(t)
	doc := org.Parse("* Content\n")
	MergeAnnotations(doc, []gdocs.Comment{{ID: "c1", Author: "A", CreatedTime: annotTime}}, nil)

	if !MarkCommentResolved(doc, "c1") {
		t.Fatal("existing comment not found")
	}
	h := doc.Content[1].Children[0]
	if h.Property(PropResolved) != ResolvedYes {
		t.Errorf("RESOLVED = %q, want t", h.Property(PropResolved))
	}
	if h.Property(PropResolvedDate) != "[2024-01-15 Mon 14:30]" {
		t.Errorf("RESOLVED_DATE = %q", h.Property(PropResolvedDate))
	}

	if MarkCommentResolved(doc, "missing") {
		t.Error("unknown id reported as resolved")
	}
}

func TestMarkSuggestionIntegrated(t *testing.T) {
	fixedClock(t)
	doc := org.Parse("* Content\n")
	MergeAnnotations(doc, nil, []gdocs.Suggestion{{ID: "s1", Kind: "deletion", Author: "A", CreatedTime: annotTime}})

	if !MarkSuggestionIntegrated(doc, "s1") {
		t.Fatal("existing suggestion not found")
	}
	h := doc.Content[1].Children[0]
	if h.Property(PropStatus) != StatusIntegrated {
		t.Errorf("STATUS = %q", h.Property(PropStatus))
	}
	if h.Property(PropIntegratedDate) != "[2024-01-15 Mon 14:30]" {
		t.Errorf("INTEGRATED_DATE = %q", h.Property(PropIntegratedDate))
	}

	if MarkSuggestionIntegrated(doc, "nope") {
		t.Error("unknown id reported as integrated")
	}
}

func TestMoveToArchive(t *testing.T) {
	doc := org.Parse("* Content\n")
	MergeAnnotations(doc, []gdocs.Comment{{ID: "c1", Author: "A", CreatedTime: annotTime}}, nil)

	annotation := doc.Content[1].Children[0]
	MoveToArchive(doc, annotation)

	if got := len(doc.Content[1].Children); got != 0 {
		t.Errorf("annotation still in source section: %d children", got)
	}

	var archive *org.Node
	for _, n := range doc.Content {
		if n.Type == org.NodeHeading && n.Title == ArchiveSection {
			archive = n
		}
	}
	if archive == nil {
		t.Fatal("no archive section created")
	}
	if len(archive.Children) != 1 || archive.Children[0] != annotation {
		t.Errorf("archive children = %+v", archive.Children)
	}
}

func TestPendingCommentsAndSuggestions(t *testing.T) {
	doc := org.Parse("* Content\n")
	MergeAnnotations(doc,
		[]gdocs.Comment{
			{ID: "c1", Author: "A", CreatedTime: annotTime},
			{ID: "c2", Author: "B", CreatedTime: annotTime},
		},
		[]gdocs.Suggestion{
			{ID: "s1", Kind: "insertion", Author: "C", CreatedTime: annotTime},
		})

	MarkCommentResolved(doc, "c1")
	if got := len(PendingComments(doc)); got != 1 {
		t.Errorf("pending comments = %d, want 1", got)
	}

	MarkSuggestionIntegrated(doc, "s1")
	if got := len(PendingSuggestions(doc)); got != 0 {
		t.Errorf("pending suggestions = %d, want 0", got)
	}
}

func TestAnnotationsSurviveSerializeParse(t *testing.T) {
	doc := org.Parse("#+GDOC_ID: d1\n\n* Content\n")
	MergeAnnotations(doc, []gdocs.Comment{{
		ID: "c1", Content: "note", Author: "A", CreatedTime: annotTime, Anchor: "text",
	}}, nil)

	reparsed := org.Parse(org.Serialize(doc))
	pending := PendingComments(reparsed)
	if len(pending) != 1 {
		t.Fatalf("pending after round trip = %d, want 1", len(pending))
	}
	if pending[0].Property(PropCommentID) != "c1" {
		t.Errorf("COMMENT_ID = %q", pending[0].Property(PropCommentID))
	}
}

func TestCommentDirectives(t *testing.T) {
	doc := org.Parse("#+GDOCS_COMMENT: first\n\n* H\n#+GDOCS_COMMENT: second\n")

	got := CommentDirectives(doc)
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("directives = %v", got)
	}

	RemoveCommentDirectives(doc)
	if got := CommentDirectives(doc); len(got) != 0 {
		t.Errorf("directives after removal = %v", got)
	}
}
