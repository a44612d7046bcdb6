// Package convert turns parsed org trees into Google Docs batchUpdate
// requests (push direction) and merges remote feedback back into the tree
// (pull direction).
package convert

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gerunddev/docbridge/internal/gdocs"
	"github.com/gerunddev/docbridge/internal/org"
)

const (
	monospaceFont     = "Courier New"
	monospaceFontSize = 10
	maxHeadingLevel   = 6
)

// ToRequests converts a document tree to an ordered request list. Replaying
// the list against an empty document reproduces the document's layout.
// Annotation and archive sections are filtered out first.
func ToRequests(doc *org.Document) []gdocs.Request {
	var reqs []gdocs.Request
	cur := 1 // index 0 is the reserved document-start marker

	for _, node := range FilterSyncSections(doc.Content) {
		var r []gdocs.Request
		r, cur = convertNode(node, cur)
		reqs = append(reqs, r...)
	}

	return reqs
}

// FilterSyncSections removes the annotation and archive sections from a node
// list, recursively, without mutating the input tree. A sync-internal section
// nested under a content heading is dropped the same as a top-level one.
func FilterSyncSections(nodes []*org.Node) []*org.Node {
	var out []*org.Node
	for _, n := range nodes {
		if n.Type == org.NodeHeading {
			if n.Title == AnnotationsSection || n.Title == ArchiveSection {
				continue
			}
			cp := *n
			cp.Children = FilterSyncSections(n.Children)
			out = append(out, &cp)
			continue
		}
		out = append(out, n)
	}
	return out
}

// convertNode converts one node at cursor position cur and returns the
// requests plus the advanced cursor. The cursor is threaded explicitly so
// each node kind converts independently.
func convertNode(n *org.Node, cur int) ([]gdocs.Request, int) {
	switch n.Type {
	case org.NodeHeading:
		return convertHeading(n, cur)
	case org.NodeParagraph:
		return convertParagraph(n, cur)
	case org.NodeText:
		return convertText(n, cur)
	case org.NodeSrcBlock:
		return convertSrcBlock(n, cur)
	case org.NodeTable:
		return convertTable(n, cur)
	case org.NodeList:
		return convertList(n, cur)
	case org.NodeLink:
		return convertLink(n, cur)
	case org.NodeRenderedImage:
		return convertRenderedImage(n, cur)
	default:
		// Comment directives are posted as comments, not body content.
		return nil, cur
	}
}

func convertHeading(h *org.Node, cur int) ([]gdocs.Request, int) {
	var parts []string
	if h.TodoState != "" {
		parts = append(parts, h.TodoState)
	}
	parts = append(parts, h.Title)
	text := strings.Join(parts, " ")
	if len(h.Tags) > 0 {
		text += " :" + strings.Join(h.Tags, ":") + ":"
	}
	text += "\n"

	start := cur
	reqs, cur := insertText(nil, cur, text)

	level := h.Level
	if level > maxHeadingLevel {
		level = maxHeadingLevel
	}
	reqs = append(reqs, gdocs.Request{
		UpdateParagraphStyle: &gdocs.UpdateParagraphStyleRequest{
			Range:          gdocs.Range{StartIndex: start, EndIndex: cur},
			ParagraphStyle: gdocs.ParagraphStyle{NamedStyleType: fmt.Sprintf("HEADING_%d", level)},
			Fields:         "namedStyleType",
		},
	})

	for _, child := range h.Children {
		var r []gdocs.Request
		r, cur = convertNode(child, cur)
		reqs = append(reqs, r...)
	}

	return reqs, cur
}

func convertParagraph(p *org.Node, cur int) ([]gdocs.Request, int) {
	var reqs []gdocs.Request
	for _, child := range p.Children {
		switch child.Type {
		case org.NodeText:
			if child.Content != "" {
				var r []gdocs.Request
				r, cur = convertFormattedText(child.Content, cur)
				reqs = append(reqs, r...)
			}
		case org.NodeLink:
			var r []gdocs.Request
			r, cur = convertInlineLink(child, cur)
			reqs = append(reqs, r...)
		}
	}
	reqs, cur = insertText(reqs, cur, "\n")
	return reqs, cur
}

// convertFormattedText resolves inline style spans in raw text. The
// delimiter-free plain string is inserted once, then one style request is
// emitted per retained span against the matching sub-range of that insertion.
// Style ranges are expressed in output coordinates, which differ from input
// coordinates once delimiters are stripped, hence the two-pass construction.
func convertFormattedText(raw string, cur int) ([]gdocs.Request, int) {
	spans := reduceSpans(findSpans(raw))
	if len(spans) == 0 {
		return insertText(nil, cur, raw)
	}

	type outRange struct {
		start, end int
		kind       StyleKind
		data       string
	}

	var plain strings.Builder
	var ranges []outRange
	last := 0
	for _, s := range spans {
		plain.WriteString(raw[last:s.Start])
		start := utf8.RuneCountInString(plain.String())
		plain.WriteString(s.Content)
		end := utf8.RuneCountInString(plain.String())
		ranges = append(ranges, outRange{start: start, end: end, kind: s.Kind, data: s.Data})
		last = s.End
	}
	plain.WriteString(raw[last:])

	insertStart := cur
	reqs, cur := insertText(nil, cur, plain.String())

	for _, r := range ranges {
		reqs = append(reqs, styleRequest(
			gdocs.Range{StartIndex: insertStart + r.start, EndIndex: insertStart + r.end},
			r.kind, r.data,
		))
	}

	return reqs, cur
}

func styleRequest(rng gdocs.Range, kind StyleKind, data string) gdocs.Request {
	var style gdocs.TextStyle
	var fields string

	switch kind {
	case StyleLink:
		style.Link = &gdocs.Link{URL: data}
		fields = "link"
	case StyleBold:
		style.Bold = boolPtr(true)
		fields = "bold"
	case StyleItalic:
		style.Italic = boolPtr(true)
		fields = "italic"
	case StyleCode:
		style.WeightedFontFamily = &gdocs.WeightedFontFamily{FontFamily: monospaceFont}
		fields = "weightedFontFamily"
	case StyleUnderline:
		style.Underline = boolPtr(true)
		fields = "underline"
	case StyleStrikethrough:
		style.Strikethrough = boolPtr(true)
		fields = "strikethrough"
	}

	return gdocs.Request{
		UpdateTextStyle: &gdocs.UpdateTextStyleRequest{
			Range:     rng,
			TextStyle: style,
			Fields:    fields,
		},
	}
}

func convertInlineLink(link *org.Node, cur int) ([]gdocs.Request, int) {
	display := link.Description
	if display == "" {
		display = link.URL
	}
	start := cur
	reqs, cur := insertText(nil, cur, display)
	if cur > start {
		reqs = append(reqs, styleRequest(
			gdocs.Range{StartIndex: start, EndIndex: cur}, StyleLink, link.URL,
		))
	}
	return reqs, cur
}

func convertText(t *org.Node, cur int) ([]gdocs.Request, int) {
	if strings.TrimSpace(t.Content) == "" {
		return nil, cur
	}
	return insertText(nil, cur, t.Content+"\n")
}

func convertSrcBlock(src *org.Node, cur int) ([]gdocs.Request, int) {
	text := ""
	if src.Language != "" {
		text += "# Language: " + src.Language + "\n"
	}
	text += src.Content + "\n\n"

	start := cur
	reqs, cur := insertText(nil, cur, text)

	// Monospace covers the code, not the trailing newlines.
	if cur-1 > start {
		reqs = append(reqs, monospaceRequest(gdocs.Range{StartIndex: start, EndIndex: cur - 1}))
	}
	return reqs, cur
}

func convertTable(table *org.Node, cur int) ([]gdocs.Request, int) {
	if len(table.Rows) == 0 {
		return nil, cur
	}

	// Tables render as column-aligned monospace text, not native table
	// objects; the Docs table model needs its own index bookkeeping and is
	// out of scope.
	var widths []int
	for _, row := range table.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, len(cell))
			} else if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var lines []string
	for i, row := range table.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cell + strings.Repeat(" ", widths[j]-len(cell))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		if i == 0 && table.HasHeader {
			seps := make([]string, len(widths))
			for j, w := range widths {
				seps[j] = strings.Repeat("-", w)
			}
			lines = append(lines, "|-"+strings.Join(seps, "-+-")+"-|")
		}
	}
	text := strings.Join(lines, "\n") + "\n\n"

	start := cur
	reqs, cur := insertText(nil, cur, text)
	if cur-1 > start {
		reqs = append(reqs, monospaceRequest(gdocs.Range{StartIndex: start, EndIndex: cur - 1}))
	}
	return reqs, cur
}

func monospaceRequest(rng gdocs.Range) gdocs.Request {
	return gdocs.Request{
		UpdateTextStyle: &gdocs.UpdateTextStyleRequest{
			Range: rng,
			TextStyle: gdocs.TextStyle{
				WeightedFontFamily: &gdocs.WeightedFontFamily{FontFamily: monospaceFont},
				FontSize:           &gdocs.Dimension{Magnitude: monospaceFontSize, Unit: "PT"},
			},
			Fields: "weightedFontFamily,fontSize",
		},
	}
}

func convertList(list *org.Node, cur int) ([]gdocs.Request, int) {
	listStart := cur
	var reqs []gdocs.Request

	// All item lines go in first; the bullet preset is applied to the whole
	// run afterwards. A list is one styled range, not N independent ones.
	for _, item := range list.Children {
		if item.Type != org.NodeListItem {
			continue
		}
		text := item.Content
		if item.Checkbox != "" {
			text = "[" + item.Checkbox + "] " + text
		}
		reqs, cur = insertText(reqs, cur, text+"\n")
	}

	if cur > listStart {
		preset := gdocs.BulletDisc
		if list.ListType == org.ListOrdered {
			preset = gdocs.BulletNumbered
		}
		reqs = append(reqs, gdocs.Request{
			CreateParagraphBullets: &gdocs.CreateParagraphBulletsRequest{
				Range:        gdocs.Range{StartIndex: listStart, EndIndex: cur},
				BulletPreset: preset,
			},
		})
	}

	reqs, cur = insertText(reqs, cur, "\n")
	return reqs, cur
}

func convertLink(link *org.Node, cur int) ([]gdocs.Request, int) {
	display := link.Description
	if display == "" {
		display = link.URL
	}
	start := cur
	reqs, cur := insertText(nil, cur, display+"\n")
	if cur-1 > start {
		reqs = append(reqs, styleRequest(
			gdocs.Range{StartIndex: start, EndIndex: cur - 1}, StyleLink, link.URL,
		))
	}
	return reqs, cur
}

func convertRenderedImage(img *org.Node, cur int) ([]gdocs.Request, int) {
	if img.RemoteURL == "" {
		return nil, cur
	}
	reqs := []gdocs.Request{{
		InsertInlineImage: &gdocs.InsertInlineImageRequest{
			Location: gdocs.Location{Index: cur},
			URI:      img.RemoteURL,
		},
	}}
	cur++ // an inline image occupies one index position
	reqs, cur = insertText(reqs, cur, "\n")
	return reqs, cur
}

// insertText appends an insertText request at cur and advances the cursor by
// the text's rune count. Empty insertions are suppressed so no zero-length
// style range can reference them.
func insertText(reqs []gdocs.Request, cur int, text string) ([]gdocs.Request, int) {
	if text == "" {
		return reqs, cur
	}
	reqs = append(reqs, gdocs.Request{
		InsertText: &gdocs.InsertTextRequest{
			Location: gdocs.Location{Index: cur},
			Text:     text,
		},
	})
	return reqs, cur + utf8.RuneCountInString(text)
}

func boolPtr(b bool) *bool { return &b }
