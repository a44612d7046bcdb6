package gdocs

import "context"

// Client is the narrow boundary the sync core talks to Google Docs through.
// The production implementation lives outside this module (it owns OAuth and
// HTTP); MemoryClient backs tests and dry runs. Errors from a Client pass
// through the core unchanged.
type Client interface {
	// CreateDocument creates an empty document and returns its ID.
	CreateDocument(ctx context.Context, title string) (string, error)

	// ClearDocument deletes all body content, leaving the trailing newline
	// the API requires.
	ClearDocument(ctx context.Context, docID string) error

	// BatchUpdate applies the requests in order.
	BatchUpdate(ctx context.Context, docID string, reqs []Request) error

	// CreateComment posts an unanchored comment and returns its ID.
	CreateComment(ctx context.Context, docID, content string) (string, error)

	// ListComments returns all comments, resolved included.
	ListComments(ctx context.Context, docID string) ([]Comment, error)

	// ListSuggestions returns pending suggestions.
	ListSuggestions(ctx context.Context, docID string) ([]Suggestion, error)

	// LatestRevision returns an opaque revision identifier.
	LatestRevision(ctx context.Context, docID string) (string, error)
}

// DocumentURL returns the browser URL for a document.
func DocumentURL(docID string) string {
	return "https://docs.google.com/document/d/" + docID + "/edit"
}
