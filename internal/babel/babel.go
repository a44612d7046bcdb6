// Package babel handles org-babel source blocks that render to files. The
// blocks are located and replaced here; executing them and uploading their
// outputs belongs to the caller.
package babel

import (
	"path/filepath"
	"regexp"

	"github.com/gerunddev/docbridge/internal/org"
)

// headerArgRe matches one :key value pair. Values may contain dots and
// slashes (file paths) but no whitespace or colons.
var headerArgRe = regexp.MustCompile(`:(\w+)\s+([^\s:]+)`)

// ParseHeaderArgs parses a babel header-argument string such as
// ":file diagram.svg :exports results" into a key/value map.
func ParseHeaderArgs(headerArgs string) map[string]string {
	args := make(map[string]string)
	for _, m := range headerArgRe.FindAllStringSubmatch(headerArgs, -1) {
		args[m[1]] = m[2]
	}
	return args
}

// ExtractFileOutput returns the expected output file path from the :file
// header argument, resolved against orgDir when relative. Returns "" when the
// block declares no file output.
func ExtractFileOutput(headerArgs, orgDir string) string {
	file := ParseHeaderArgs(headerArgs)["file"]
	if file == "" {
		return ""
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(orgDir, file)
}

// FindBlocks returns every source block in the document that declares a :file
// output, in document order. Only these blocks render to images.
func FindBlocks(doc *org.Document) []*org.Node {
	var blocks []*org.Node
	doc.Walk(func(n *org.Node) bool {
		if n.Type == org.NodeSrcBlock && ParseHeaderArgs(n.HeaderArgs)["file"] != "" {
			blocks = append(blocks, n)
		}
		return true
	})
	return blocks
}

// Asset is one uploaded render of a source block, keyed back to the block by
// its source line span.
type Asset struct {
	Span      org.Span
	LocalPath string
	RemoteURL string
}

// ReplaceWithImages returns a deep copy of the document with each asset's
// source block swapped for a rendered_image node. The line span is the match
// key because node identity does not survive the copy. Blocks without a
// matching asset are left in place; assets without a matching block are
// ignored.
func ReplaceWithImages(doc *org.Document, assets []Asset) *org.Document {
	if len(assets) == 0 {
		return doc
	}

	bySpan := make(map[org.Span]Asset, len(assets))
	for _, a := range assets {
		bySpan[a.Span] = a
	}

	var replace func(nodes []*org.Node) []*org.Node
	replace = func(nodes []*org.Node) []*org.Node {
		out := make([]*org.Node, 0, len(nodes))
		for _, n := range nodes {
			if n.Type == org.NodeSrcBlock && n.HasSpan() {
				if a, ok := bySpan[n.Span()]; ok {
					img := org.NewNode(org.NodeRenderedImage)
					img.SourceLanguage = n.Language
					img.HeaderArgs = n.HeaderArgs
					img.LocalPath = a.LocalPath
					img.RemoteURL = a.RemoteURL
					img.StartLine = n.StartLine
					img.EndLine = n.EndLine
					out = append(out, img)
					continue
				}
			}
			n.Children = replace(n.Children)
			out = append(out, n)
		}
		return out
	}

	clone := doc.Clone()
	clone.Content = replace(clone.Content)
	return clone
}
