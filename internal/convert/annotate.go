package convert

import (
	"fmt"
	"strings"
	"time"

	"github.com/gerunddev/docbridge/internal/gdocs"
	"github.com/gerunddev/docbridge/internal/org"
)

// Well-known section titles for sync-internal content. Both are filtered out
// of every push.
const (
	AnnotationsSection = "GDOCS_ANNOTATIONS"
	ArchiveSection     = "GDOCS_ARCHIVE"
)

// Annotation heading properties.
const (
	PropCommentID      = "COMMENT_ID"
	PropSuggestionID   = "SUGG_ID"
	PropAnchor         = "ANCHOR"
	PropResolved       = "RESOLVED"
	PropResolvedDate   = "RESOLVED_DATE"
	PropStatus         = "STATUS"
	PropIntegratedDate = "INTEGRATED_DATE"
	PropKind           = "TYPE"
	PropLocation       = "LOCATION"
)

// Property values stay strings from a fixed vocabulary so they serialize to
// org's native scalar form.
const (
	ResolvedNo       = "nil"
	ResolvedYes      = "t"
	StatusPending    = "pending"
	StatusIntegrated = "integrated"
)

// Org-style inactive timestamp, e.g. [2024-01-15 Mon 14:30].
const orgTimestampFormat = "[2006-01-02 Mon 15:04]"

// now is swapped out by tests.
var now = time.Now

// MergeAnnotations appends unresolved comments and all suggestions to the
// document's annotations section, creating the section when absent. The tree
// is mutated in place.
func MergeAnnotations(doc *org.Document, comments []gdocs.Comment, suggestions []gdocs.Suggestion) {
	var nodes []*org.Node

	for _, c := range comments {
		if c.Resolved {
			continue
		}
		nodes = append(nodes, commentToAnnotation(c))
	}
	for _, s := range suggestions {
		nodes = append(nodes, suggestionToAnnotation(s))
	}

	if len(nodes) == 0 {
		return
	}

	section := findOrCreateSection(doc, AnnotationsSection)
	section.Children = append(section.Children, nodes...)
}

func commentToAnnotation(c gdocs.Comment) *org.Node {
	h := org.NewNode(org.NodeHeading)
	h.Level = 3
	h.Title = fmt.Sprintf("Comment from %s %s", c.Author, c.CreatedTime.Format(orgTimestampFormat))
	h.SetProperty(PropCommentID, c.ID)
	h.SetProperty(PropAnchor, fmt.Sprintf("%q", c.Anchor))
	h.SetProperty(PropResolved, ResolvedNo)

	content := org.NewNode(org.NodeText)
	content.Content = c.Content
	h.Children = append(h.Children, content)

	for _, reply := range c.Replies {
		rh := org.NewNode(org.NodeHeading)
		rh.Level = 4
		rh.Title = fmt.Sprintf("Reply from %s %s", reply.Author, reply.CreatedTime.Format(orgTimestampFormat))
		rc := org.NewNode(org.NodeText)
		rc.Content = reply.Content
		rh.Children = append(rh.Children, rc)
		h.Children = append(h.Children, rh)
	}

	return h
}

func suggestionToAnnotation(s gdocs.Suggestion) *org.Node {
	h := org.NewNode(org.NodeHeading)
	h.Level = 3
	h.Title = fmt.Sprintf("Suggestion from %s %s", s.Author, s.CreatedTime.Format(orgTimestampFormat))
	h.SetProperty(PropSuggestionID, s.ID)
	h.SetProperty(PropKind, s.Kind)
	h.SetProperty(PropStatus, StatusPending)
	h.SetProperty(PropLocation, fmt.Sprintf("%q", s.LocationHint))

	content := org.NewNode(org.NodeText)
	content.Content = fmt.Sprintf("[%s] %s", strings.ToUpper(s.Kind), s.Content)
	h.Children = append(h.Children, content)

	return h
}

// findOrCreateSection returns the top-level heading with the given title,
// appending a new level-1 heading when none exists. Only top-level headings
// are considered; a nested section with the same title is content.
func findOrCreateSection(doc *org.Document, title string) *org.Node {
	for _, n := range doc.Content {
		if n.Type == org.NodeHeading && n.Title == title {
			return n
		}
	}
	section := org.NewNode(org.NodeHeading)
	section.Level = 1
	section.Title = title
	doc.Content = append(doc.Content, section)
	return section
}

// MarkCommentResolved flags the comment annotation with the given ID as
// resolved and stamps the resolution time. Returns false when no annotation
// carries the ID; calling it again overwrites the timestamp.
func MarkCommentResolved(doc *org.Document, commentID string) bool {
	h := findAnnotation(doc, PropCommentID, commentID)
	if h == nil {
		return false
	}
	h.SetProperty(PropResolved, ResolvedYes)
	h.SetProperty(PropResolvedDate, now().Format(orgTimestampFormat))
	return true
}

// MarkSuggestionIntegrated flags the suggestion annotation with the given ID
// as integrated. Returns false when no annotation carries the ID.
func MarkSuggestionIntegrated(doc *org.Document, suggestionID string) bool {
	h := findAnnotation(doc, PropSuggestionID, suggestionID)
	if h == nil {
		return false
	}
	h.SetProperty(PropStatus, StatusIntegrated)
	h.SetProperty(PropIntegratedDate, now().Format(orgTimestampFormat))
	return true
}

// MoveToArchive relocates an annotation heading into the archive section. The
// heading is detached from its current parent first; a node never has two
// parents.
func MoveToArchive(doc *org.Document, annotation *org.Node) {
	archive := findOrCreateSection(doc, ArchiveSection)
	removeNode(doc, annotation)
	archive.Children = append(archive.Children, annotation)
}

// findAnnotation locates a heading by an identifying property, depth first.
// First match wins.
func findAnnotation(doc *org.Document, prop, value string) *org.Node {
	var found *org.Node
	doc.Walk(func(n *org.Node) bool {
		if n.Type == org.NodeHeading && n.Property(prop) == value {
			found = n
			return false
		}
		return true
	})
	return found
}

func removeNode(doc *org.Document, target *org.Node) bool {
	var remove func(nodes []*org.Node) ([]*org.Node, bool)
	remove = func(nodes []*org.Node) ([]*org.Node, bool) {
		for i, n := range nodes {
			if n == target {
				return append(nodes[:i], nodes[i+1:]...), true
			}
			if n.Type == org.NodeHeading {
				if children, ok := remove(n.Children); ok {
					n.Children = children
					return nodes, true
				}
			}
		}
		return nodes, false
	}

	content, ok := remove(doc.Content)
	doc.Content = content
	return ok
}

// PendingComments returns every comment annotation not yet resolved.
func PendingComments(doc *org.Document) []*org.Node {
	var pending []*org.Node
	doc.Walk(func(n *org.Node) bool {
		if n.Type == org.NodeHeading {
			if _, ok := n.Properties[PropCommentID]; ok && n.Property(PropResolved) != ResolvedYes {
				pending = append(pending, n)
			}
		}
		return true
	})
	return pending
}

// PendingSuggestions returns every suggestion annotation still pending.
func PendingSuggestions(doc *org.Document) []*org.Node {
	var pending []*org.Node
	doc.Walk(func(n *org.Node) bool {
		if n.Type == org.NodeHeading {
			if _, ok := n.Properties[PropSuggestionID]; ok && n.Property(PropStatus) == StatusPending {
				pending = append(pending, n)
			}
		}
		return true
	})
	return pending
}

// CommentDirectives returns the contents of every #+GDOCS_COMMENT: directive
// in document order.
func CommentDirectives(doc *org.Document) []string {
	var contents []string
	doc.Walk(func(n *org.Node) bool {
		if n.Type == org.NodeCommentDirective {
			if c := n.Property("content"); c != "" {
				contents = append(contents, c)
			}
		}
		return true
	})
	return contents
}

// RemoveCommentDirectives strips every comment directive from the tree,
// used after the directives have been posted.
func RemoveCommentDirectives(doc *org.Document) {
	var filter func(nodes []*org.Node) []*org.Node
	filter = func(nodes []*org.Node) []*org.Node {
		var out []*org.Node
		for _, n := range nodes {
			if n.Type == org.NodeCommentDirective {
				continue
			}
			n.Children = filter(n.Children)
			out = append(out, n)
		}
		return out
	}
	doc.Content = filter(doc.Content)
}
