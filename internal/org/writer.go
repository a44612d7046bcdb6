package org

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// WriteFile serializes the document and writes it to path.
func WriteFile(path string, doc *Document) error {
	return os.WriteFile(path, []byte(Serialize(doc)), 0644)
}

// Serialize renders the document tree back to org-mode text. The result is a
// best-effort shape round trip: re-parsing yields the same node kinds,
// attributes, and relationships, though not necessarily identical whitespace.
func Serialize(doc *Document) string {
	var lines []string

	for _, key := range doc.MetadataKeys() {
		value, _ := doc.Metadata(key)
		lines = append(lines, fmt.Sprintf("#+%s: %s", key, value))
	}
	if len(doc.MetadataKeys()) > 0 && len(doc.Content) > 0 {
		lines = append(lines, "")
	}

	for _, node := range doc.Content {
		lines = append(lines, writeNode(node)...)
	}

	return strings.Join(lines, "\n")
}

func writeNode(node *Node) []string {
	switch node.Type {
	case NodeHeading:
		return writeHeading(node)
	case NodeText:
		if strings.TrimSpace(node.Content) == "" {
			return nil
		}
		return []string{node.Content}
	case NodeParagraph:
		return writeParagraph(node)
	case NodeLink:
		return []string{inlineToString(node)}
	case NodeSrcBlock:
		return writeSrcBlock(node)
	case NodeTable:
		return writeTable(node)
	case NodeList:
		return writeList(node)
	case NodeCommentDirective:
		return []string{fmt.Sprintf("#+GDOCS_COMMENT: %s", node.Property("content"))}
	default:
		// Rendered images and unknown kinds have no org syntax.
		return nil
	}
}

func writeHeading(h *Node) []string {
	parts := []string{strings.Repeat("*", h.Level)}
	if h.TodoState != "" {
		parts = append(parts, h.TodoState)
	}
	if h.Priority != "" {
		parts = append(parts, fmt.Sprintf("[#%s]", h.Priority))
	}
	parts = append(parts, h.Title)
	if len(h.Tags) > 0 {
		parts = append(parts, ":"+strings.Join(h.Tags, ":")+":")
	}

	lines := []string{strings.Join(parts, " ")}

	if len(h.Properties) > 0 {
		lines = append(lines, ":PROPERTIES:")
		keys := make([]string, 0, len(h.Properties))
		for k := range h.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf(":%s: %s", k, h.Properties[k]))
		}
		lines = append(lines, ":END:")
	}

	for _, child := range h.Children {
		lines = append(lines, writeNode(child)...)
	}

	return lines
}

func writeParagraph(p *Node) []string {
	var parts []string
	for _, child := range p.Children {
		parts = append(parts, inlineToString(child))
	}
	content := strings.Join(parts, "")
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return []string{content, ""}
}

func inlineToString(node *Node) string {
	switch node.Type {
	case NodeText:
		return node.Content
	case NodeLink:
		if node.Description != "" {
			return fmt.Sprintf("[[%s][%s]]", node.URL, node.Description)
		}
		return fmt.Sprintf("[[%s]]", node.URL)
	default:
		return ""
	}
}

func writeSrcBlock(src *Node) []string {
	header := "#+BEGIN_SRC"
	if src.Language != "" {
		header += " " + src.Language
	}
	if src.HeaderArgs != "" {
		header += " " + src.HeaderArgs
	}
	lines := []string{header}
	lines = append(lines, strings.Split(src.Content, "\n")...)
	lines = append(lines, "#+END_SRC", "")
	return lines
}

func writeTable(table *Node) []string {
	if len(table.Rows) == 0 {
		return nil
	}

	// Pad every column to its widest cell.
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
	lines = append(lines, "")
	return lines
}

func writeList(list *Node) []string {
	var lines []string
	ordinal := 0
	for _, item := range list.Children {
		if item.Type != NodeListItem {
			continue
		}
		ordinal++
		bullet := item.Bullet
		if list.ListType == ListOrdered {
			// Renumber sequentially regardless of stored bullet text.
			bullet = fmt.Sprintf("%d.", ordinal)
		}
		if item.Checkbox != "" {
			lines = append(lines, fmt.Sprintf("%s [%s] %s", bullet, item.Checkbox, item.Content))
		} else {
			lines = append(lines, fmt.Sprintf("%s %s", bullet, item.Content))
		}
	}
	lines = append(lines, "")
	return lines
}
