package org

import (
	"os"
	"regexp"
	"strings"
)

// Org-mode line patterns.
var (
	headingRe  = regexp.MustCompile(`^(\*+)\s+(?:(TODO|DONE|WAITING|CANCELLED)\s+)?(?:\[#([A-Z])\]\s+)?(.*)$`)
	metadataRe = regexp.MustCompile(`^#\+(\w+):\s*(.*)$`)
	linkRe     = regexp.MustCompile(`\[\[([^\]]+)\](?:\[([^\]]+)\])?\]`)
	srcBeginRe = regexp.MustCompile(`(?i)^#\+BEGIN_SRC[ \t]*(\w*)[ \t]*(.*)$`)
	srcEndRe   = regexp.MustCompile(`(?i)^#\+END_SRC\s*$`)
	tableRowRe = regexp.MustCompile(`^\s*\|(.+)\|\s*$`)
	tableSepRe = regexp.MustCompile(`^\s*\|[-+]+\|\s*$`)
	listItemRe = regexp.MustCompile(`^(\s*)([-+*]|\d+[.)])\s+(?:\[([ X-])\]\s+)?(.*)$`)
	commentRe  = regexp.MustCompile(`^#\+GDOCS_COMMENT:\s*(.*)$`)
	tagsRe     = regexp.MustCompile(`\s+:([:\w]+):$`)

	drawerStartRe = regexp.MustCompile(`^\s*:PROPERTIES:\s*$`)
	drawerEndRe   = regexp.MustCompile(`^\s*:END:\s*$`)
	propertyRe    = regexp.MustCompile(`^\s*:(\w+):\s*(.*)$`)
)

// Metadata keys that are content directives, not document metadata. The
// metadata scan stops at these so a comment directive placed before the
// first heading is not swallowed.
var directiveKeys = map[string]bool{
	"GDOCS_COMMENT": true,
	"BEGIN_SRC":     true,
	"END_SRC":       true,
}

// ParseFile parses an org-mode file. The only error path is the file read;
// parsing itself never fails.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := Parse(string(data))
	doc.Path = path
	return doc, nil
}

// Parse parses org-mode text into a document tree. Malformed input degrades
// to paragraph text; there is no failure path.
func Parse(content string) *Document {
	lines := strings.Split(content, "\n")
	doc := NewDocument()

	// Leading #+KEY: value lines become metadata.
	idx := 0
	for idx < len(lines) {
		line := strings.TrimRight(lines[idx], "\r")
		if m := metadataRe.FindStringSubmatch(line); m != nil {
			if directiveKeys[strings.ToUpper(m[1])] {
				break
			}
			doc.SetMetadata(m[1], m[2])
			idx++
			continue
		}
		if strings.TrimSpace(line) == "" {
			idx++
			continue
		}
		break
	}

	doc.Content = parseContent(lines[idx:], idx)
	return doc
}

// parseContent parses a run of lines into nodes. startLine is the 0-based
// offset of lines[0] in the original document, used for line spans.
func parseContent(lines []string, startLine int) []*Node {
	var nodes []*Node
	i := 0

	for i < len(lines) {
		line := strings.TrimRight(lines[i], "\r")

		if m := headingRe.FindStringSubmatch(line); m != nil {
			level := len(m[1])
			title := strings.TrimSpace(m[4])

			var tags []string
			if strings.HasSuffix(title, ":") {
				if tm := tagsRe.FindStringSubmatchIndex(title); tm != nil {
					for _, t := range strings.Split(title[tm[2]:tm[3]], ":") {
						if t != "" {
							tags = append(tags, t)
						}
					}
					title = strings.TrimSpace(title[:tm[0]])
				}
			}

			// Children run to the next heading of same or shallower level.
			j := i + 1
			for j < len(lines) {
				next := headingRe.FindStringSubmatch(strings.TrimRight(lines[j], "\r"))
				if next != nil && len(next[1]) <= level {
					break
				}
				j++
			}

			heading := NewNode(NodeHeading)
			heading.Level = level
			heading.Title = title
			heading.TodoState = m[2]
			heading.Priority = m[3]
			heading.Tags = tags

			// A property drawer directly under the heading line belongs to
			// the heading itself. An unterminated drawer stays content.
			childStart := i + 1
			if childStart < j && drawerStartRe.MatchString(strings.TrimRight(lines[childStart], "\r")) {
				props := make(map[string]string)
				k := childStart + 1
				closed := false
				for k < j {
					dl := strings.TrimRight(lines[k], "\r")
					if drawerEndRe.MatchString(dl) {
						closed = true
						k++
						break
					}
					if pm := propertyRe.FindStringSubmatch(dl); pm != nil {
						props[pm[1]] = pm[2]
					}
					k++
				}
				if closed {
					for key, value := range props {
						heading.SetProperty(key, value)
					}
					childStart = k
				}
			}

			heading.Children = parseContent(lines[childStart:j], startLine+childStart)
			heading.StartLine = startLine + i
			heading.EndLine = startLine + j - 1
			nodes = append(nodes, heading)
			i = j
			continue
		}

		if m := srcBeginRe.FindStringSubmatch(line); m != nil {
			blockStart := i
			var contentLines []string
			i++
			for i < len(lines) {
				blockLine := strings.TrimRight(lines[i], "\r")
				if srcEndRe.MatchString(blockLine) {
					break
				}
				contentLines = append(contentLines, blockLine)
				i++
			}
			// No end marker before EOF still closes the block.
			src := NewNode(NodeSrcBlock)
			src.Language = m[1]
			src.HeaderArgs = strings.TrimSpace(m[2])
			src.Content = strings.Join(contentLines, "\n")
			src.StartLine = startLine + blockStart
			src.EndLine = startLine + i
			nodes = append(nodes, src)
			i++
			continue
		}

		if tableRowRe.MatchString(line) || tableSepRe.MatchString(line) {
			tableStart := i
			tableLines := []string{line}
			i++
			for i < len(lines) {
				tl := strings.TrimRight(lines[i], "\r")
				if !tableRowRe.MatchString(tl) && !tableSepRe.MatchString(tl) {
					break
				}
				tableLines = append(tableLines, tl)
				i++
			}
			table := parseTable(tableLines)
			table.StartLine = startLine + tableStart
			table.EndLine = startLine + i - 1
			nodes = append(nodes, table)
			continue
		}

		if m := listItemRe.FindStringSubmatch(line); m != nil {
			listStart := i
			indent := len(m[1])
			listLines := []string{line}
			i++
			for i < len(lines) {
				next := strings.TrimRight(lines[i], "\r")
				if nm := listItemRe.FindStringSubmatch(next); nm != nil {
					if len(nm[1]) >= indent {
						listLines = append(listLines, next)
						i++
						continue
					}
					break
				}
				if strings.HasPrefix(next, strings.Repeat(" ", indent+2)) {
					listLines = append(listLines, next)
					i++
					continue
				}
				if strings.TrimSpace(next) == "" {
					i++
					continue
				}
				break
			}
			list := parseList(listLines)
			list.StartLine = startLine + listStart
			list.EndLine = startLine + i - 1
			nodes = append(nodes, list)
			continue
		}

		if m := commentRe.FindStringSubmatch(line); m != nil {
			directive := NewNode(NodeCommentDirective)
			directive.SetProperty("content", m[1])
			directive.StartLine = startLine + i
			directive.EndLine = startLine + i
			nodes = append(nodes, directive)
			i++
			continue
		}

		if strings.TrimSpace(line) != "" {
			paraStart := i
			paraLines := []string{line}
			i++
			for i < len(lines) {
				next := strings.TrimRight(lines[i], "\r")
				if strings.TrimSpace(next) == "" ||
					headingRe.MatchString(next) ||
					srcBeginRe.MatchString(next) ||
					tableRowRe.MatchString(next) ||
					listItemRe.MatchString(next) ||
					metadataRe.MatchString(next) {
					break
				}
				paraLines = append(paraLines, next)
				i++
			}
			para := parseParagraph(paraLines)
			para.StartLine = startLine + paraStart
			para.EndLine = startLine + i - 1
			nodes = append(nodes, para)
			continue
		}

		i++
	}

	return nodes
}

// parseParagraph joins the lines and splits them into inline Text/Link
// children. Emphasis markers stay in the raw text; they are resolved against
// the target format at conversion time, not here.
func parseParagraph(lines []string) *Node {
	para := NewNode(NodeParagraph)
	para.Children = parseInline(strings.Join(lines, " "))
	return para
}

// parseInline splits text into alternating Text and Link nodes.
func parseInline(text string) []*Node {
	var nodes []*Node
	pos := 0

	for _, loc := range linkRe.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > pos {
			t := NewNode(NodeText)
			t.Content = text[pos:loc[0]]
			nodes = append(nodes, t)
		}
		link := NewNode(NodeLink)
		link.URL = text[loc[2]:loc[3]]
		if loc[4] >= 0 {
			link.Description = text[loc[4]:loc[5]]
		}
		nodes = append(nodes, link)
		pos = loc[1]
	}

	if pos < len(text) || len(nodes) == 0 {
		t := NewNode(NodeText)
		t.Content = text[pos:]
		nodes = append(nodes, t)
	}

	return nodes
}

func parseTable(lines []string) *Node {
	table := NewNode(NodeTable)
	for _, line := range lines {
		if tableSepRe.MatchString(line) {
			if len(table.Rows) > 0 && !table.HasHeader {
				table.HasHeader = true
			}
			continue
		}
		if m := tableRowRe.FindStringSubmatch(line); m != nil {
			var cells []string
			for _, cell := range strings.Split(m[1], "|") {
				cells = append(cells, strings.TrimSpace(cell))
			}
			table.Rows = append(table.Rows, cells)
		}
	}
	return table
}

func parseList(lines []string) *Node {
	list := NewNode(NodeList)
	list.ListType = ListUnordered
	if m := listItemRe.FindStringSubmatch(lines[0]); m != nil {
		if m[2][0] >= '0' && m[2][0] <= '9' {
			list.ListType = ListOrdered
		}
	}

	var current *Node
	var contentParts []string
	flush := func() {
		if current != nil {
			current.Content = strings.Join(contentParts, " ")
			list.Children = append(list.Children, current)
		}
	}

	for _, line := range lines {
		if m := listItemRe.FindStringSubmatch(line); m != nil {
			flush()
			current = NewNode(NodeListItem)
			current.Bullet = m[2]
			current.Checkbox = m[3]
			contentParts = []string{m[4]}
			continue
		}
		if current != nil {
			contentParts = append(contentParts, strings.TrimSpace(line))
		}
	}
	flush()

	return list
}
