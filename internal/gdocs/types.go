// Package gdocs holds the wire types for the Google Docs batchUpdate API and
// the narrow client boundary the sync core talks through.
package gdocs

import "time"

// Request is one position-addressed edit destined for documents.batchUpdate.
// Exactly one field is set.
type Request struct {
	InsertText             *InsertTextRequest             `json:"insertText,omitempty"`
	UpdateParagraphStyle   *UpdateParagraphStyleRequest   `json:"updateParagraphStyle,omitempty"`
	UpdateTextStyle        *UpdateTextStyleRequest        `json:"updateTextStyle,omitempty"`
	CreateParagraphBullets *CreateParagraphBulletsRequest `json:"createParagraphBullets,omitempty"`
	InsertInlineImage      *InsertInlineImageRequest      `json:"insertInlineImage,omitempty"`
	DeleteContentRange     *DeleteContentRangeRequest     `json:"deleteContentRange,omitempty"`
}

// Location is an insertion point. Index 0 is the reserved document-start
// marker; the first writable offset is 1.
type Location struct {
	Index int `json:"index"`
}

// Range is a half-open [StartIndex, EndIndex) character range.
type Range struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

type InsertTextRequest struct {
	Location Location `json:"location"`
	Text     string   `json:"text"`
}

type UpdateParagraphStyleRequest struct {
	Range          Range          `json:"range"`
	ParagraphStyle ParagraphStyle `json:"paragraphStyle"`
	Fields         string         `json:"fields"`
}

type ParagraphStyle struct {
	NamedStyleType string `json:"namedStyleType,omitempty"`
}

type UpdateTextStyleRequest struct {
	Range     Range     `json:"range"`
	TextStyle TextStyle `json:"textStyle"`
	Fields    string    `json:"fields"`
}

type TextStyle struct {
	Bold               *bool               `json:"bold,omitempty"`
	Italic             *bool               `json:"italic,omitempty"`
	Underline          *bool               `json:"underline,omitempty"`
	Strikethrough      *bool               `json:"strikethrough,omitempty"`
	Link               *Link               `json:"link,omitempty"`
	WeightedFontFamily *WeightedFontFamily `json:"weightedFontFamily,omitempty"`
	FontSize           *Dimension          `json:"fontSize,omitempty"`
}

type Link struct {
	URL string `json:"url"`
}

type WeightedFontFamily struct {
	FontFamily string `json:"fontFamily"`
}

type Dimension struct {
	Magnitude float64 `json:"magnitude"`
	Unit      string  `json:"unit"`
}

type CreateParagraphBulletsRequest struct {
	Range        Range  `json:"range"`
	BulletPreset string `json:"bulletPreset"`
}

type InsertInlineImageRequest struct {
	Location Location `json:"location"`
	URI      string   `json:"uri"`
}

type DeleteContentRangeRequest struct {
	Range Range `json:"range"`
}

// Bullet presets used by the converter.
const (
	BulletDisc     = "BULLET_DISC_CIRCLE_SQUARE"
	BulletNumbered = "NUMBERED_DECIMAL_ALPHA_ROMAN"
)

// CommentReply is a reply in a comment thread.
type CommentReply struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	CreatedTime time.Time `json:"created_time"`
}

// Comment is a document comment with its reply thread. Anchor is the quoted
// text the comment is attached to.
type Comment struct {
	ID          string         `json:"id"`
	Content     string         `json:"content"`
	Author      string         `json:"author"`
	CreatedTime time.Time      `json:"created_time"`
	Resolved    bool           `json:"resolved"`
	Anchor      string         `json:"anchor"`
	Replies     []CommentReply `json:"replies"`
}

// Suggestion kinds.
const (
	SuggestionInsertion = "insertion"
	SuggestionDeletion  = "deletion"
)

// Suggestion is a tracked edit suggestion pulled from the document.
type Suggestion struct {
	ID           string    `json:"id"`
	Kind         string    `json:"type"`
	Content      string    `json:"content"`
	Author       string    `json:"author"`
	CreatedTime  time.Time `json:"created_time"`
	StartIndex   int       `json:"start_index"`
	EndIndex     int       `json:"end_index"`
	LocationHint string    `json:"location_hint"`
}
