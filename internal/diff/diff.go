// Package diff renders the normalization preview: what parse+serialize would
// change about an org file before any sync touches it.
package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/docbridge/internal/org"
)

// Normalization diffs a file on disk against its parse+serialize round trip.
// An empty string means serialization would leave the file unchanged.
func Normalization(orgPath string) (string, error) {
	content, err := os.ReadFile(orgPath)
	if err != nil {
		return "", fmt.Errorf("failed to read org file: %w", err)
	}

	normalized := org.Serialize(org.Parse(string(content)))
	if normalized == string(content) {
		return "", nil
	}

	name := filepath.Base(orgPath)
	edits := myers.ComputeEdits(span.URIFromPath(name), string(content), normalized)
	unified := fmt.Sprint(gotextdiff.ToUnified(name, name+" (normalized)", string(content), edits))

	return render(unified), nil
}

// render wraps a unified diff in a markdown fence and renders it with Glamour
// for terminal output. Falls back to the plain diff when rendering fails.
func render(unified string) string {
	fenced := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fenced
	}

	rendered, err := renderer.Render(fenced)
	if err != nil {
		return fenced
	}

	return rendered
}
