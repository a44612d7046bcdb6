package gdocs

import (
	"fmt"
	"strings"
)

// Apply replays a request list against an initially empty document and
// returns the resulting body text. Index 0 is the reserved document-start
// marker, so request index i addresses rune i-1 of the body. Indices count
// runes, matching the converter's cursor arithmetic.
//
// Any out-of-range index or style range is an error: the converter guarantees
// its output replays cleanly, so a failure here signals a bookkeeping bug,
// not bad user input.
func Apply(reqs []Request) (string, error) {
	var body []rune

	checkRange := func(r Range, what string) error {
		if r.StartIndex < 1 || r.EndIndex < r.StartIndex || r.EndIndex > len(body)+1 {
			return fmt.Errorf("%s range [%d,%d) outside document of length %d",
				what, r.StartIndex, r.EndIndex, len(body))
		}
		return nil
	}
	checkIndex := func(at int, what string) error {
		if at < 1 || at > len(body)+1 {
			return fmt.Errorf("%s index %d outside document of length %d", what, at, len(body))
		}
		return nil
	}

	for i, req := range reqs {
		switch {
		case req.InsertText != nil:
			at := req.InsertText.Location.Index
			if err := checkIndex(at, "insert"); err != nil {
				return "", fmt.Errorf("request %d: %w", i, err)
			}
			body = insertAt(body, at-1, []rune(req.InsertText.Text))

		case req.InsertInlineImage != nil:
			at := req.InsertInlineImage.Location.Index
			if err := checkIndex(at, "image"); err != nil {
				return "", fmt.Errorf("request %d: %w", i, err)
			}
			// An inline image occupies a single index position; represent it
			// with the object-replacement character.
			body = insertAt(body, at-1, []rune{'￼'})

		case req.UpdateParagraphStyle != nil:
			if err := checkRange(req.UpdateParagraphStyle.Range, "paragraph style"); err != nil {
				return "", fmt.Errorf("request %d: %w", i, err)
			}

		case req.UpdateTextStyle != nil:
			if err := checkRange(req.UpdateTextStyle.Range, "text style"); err != nil {
				return "", fmt.Errorf("request %d: %w", i, err)
			}

		case req.CreateParagraphBullets != nil:
			if err := checkRange(req.CreateParagraphBullets.Range, "bullets"); err != nil {
				return "", fmt.Errorf("request %d: %w", i, err)
			}

		case req.DeleteContentRange != nil:
			r := req.DeleteContentRange.Range
			if err := checkRange(r, "delete"); err != nil {
				return "", fmt.Errorf("request %d: %w", i, err)
			}
			body = append(body[:r.StartIndex-1], body[r.EndIndex-1:]...)

		default:
			return "", fmt.Errorf("request %d: empty request", i)
		}
	}

	return string(body), nil
}

func insertAt(body []rune, off int, text []rune) []rune {
	out := make([]rune, 0, len(body)+len(text))
	out = append(out, body[:off]...)
	out = append(out, text...)
	out = append(out, body[off:]...)
	return out
}

// requestSummary is used in error and log output.
func requestSummary(req Request) string {
	switch {
	case req.InsertText != nil:
		text := req.InsertText.Text
		if len(text) > 20 {
			text = text[:20] + "…"
		}
		return fmt.Sprintf("insertText@%d %q", req.InsertText.Location.Index, text)
	case req.UpdateParagraphStyle != nil:
		r := req.UpdateParagraphStyle.Range
		return fmt.Sprintf("paragraphStyle[%d,%d) %s", r.StartIndex, r.EndIndex,
			req.UpdateParagraphStyle.ParagraphStyle.NamedStyleType)
	case req.UpdateTextStyle != nil:
		r := req.UpdateTextStyle.Range
		return fmt.Sprintf("textStyle[%d,%d) %s", r.StartIndex, r.EndIndex,
			strings.ReplaceAll(req.UpdateTextStyle.Fields, ",", "+"))
	case req.CreateParagraphBullets != nil:
		r := req.CreateParagraphBullets.Range
		return fmt.Sprintf("bullets[%d,%d) %s", r.StartIndex, r.EndIndex,
			req.CreateParagraphBullets.BulletPreset)
	case req.InsertInlineImage != nil:
		return fmt.Sprintf("inlineImage@%d", req.InsertInlineImage.Location.Index)
	case req.DeleteContentRange != nil:
		r := req.DeleteContentRange.Range
		return fmt.Sprintf("delete[%d,%d)", r.StartIndex, r.EndIndex)
	default:
		return "empty"
	}
}
