package gdocs

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryClient is an in-process Client that replays requests through Apply.
// It backs the engine tests and the CLI dry-run mode.
type MemoryClient struct {
	mu   sync.Mutex
	docs map[string]*memoryDoc
}

type memoryDoc struct {
	title       string
	body        string
	revision    string
	comments    []Comment
	suggestions []Suggestion
}

// NewMemoryClient returns an empty in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{docs: make(map[string]*memoryDoc)}
}

func (m *MemoryClient) CreateDocument(ctx context.Context, title string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.docs[id] = &memoryDoc{title: title, body: "\n", revision: uuid.NewString()}
	return id, nil
}

// AddDocument registers an existing document under a fixed ID, for linking
// scenarios in tests.
func (m *MemoryClient) AddDocument(docID, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[docID] = &memoryDoc{title: title, body: "\n", revision: uuid.NewString()}
}

// AddComment seeds a comment for pull scenarios.
func (m *MemoryClient) AddComment(docID string, c Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc, ok := m.docs[docID]; ok {
		doc.comments = append(doc.comments, c)
	}
}

// AddSuggestion seeds a suggestion for pull scenarios.
func (m *MemoryClient) AddSuggestion(docID string, s Suggestion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc, ok := m.docs[docID]; ok {
		doc.suggestions = append(doc.suggestions, s)
	}
}

// Body returns the current document text.
func (m *MemoryClient) Body(docID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[docID]
	if !ok {
		return "", false
	}
	return doc.body, true
}

func (m *MemoryClient) get(docID string) (*memoryDoc, error) {
	doc, ok := m.docs[docID]
	if !ok {
		return nil, fmt.Errorf("document %s not found", docID)
	}
	return doc, nil
}

func (m *MemoryClient) ClearDocument(ctx context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, err := m.get(docID)
	if err != nil {
		return err
	}
	doc.body = "\n"
	doc.revision = uuid.NewString()
	return nil
}

func (m *MemoryClient) BatchUpdate(ctx context.Context, docID string, reqs []Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, err := m.get(docID)
	if err != nil {
		return err
	}
	body, err := Apply(reqs)
	if err != nil {
		if len(reqs) > 0 {
			return fmt.Errorf("batch update (%s, …): %w", requestSummary(reqs[0]), err)
		}
		return fmt.Errorf("batch update: %w", err)
	}
	doc.body = body + "\n"
	doc.revision = uuid.NewString()
	return nil
}

func (m *MemoryClient) CreateComment(ctx context.Context, docID, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, err := m.get(docID)
	if err != nil {
		return "", err
	}
	c := Comment{ID: uuid.NewString(), Content: content, Author: "docbridge"}
	doc.comments = append(doc.comments, c)
	return c.ID, nil
}

func (m *MemoryClient) ListComments(ctx context.Context, docID string) ([]Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, err := m.get(docID)
	if err != nil {
		return nil, err
	}
	return append([]Comment(nil), doc.comments...), nil
}

func (m *MemoryClient) ListSuggestions(ctx context.Context, docID string) ([]Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, err := m.get(docID)
	if err != nil {
		return nil, err
	}
	return append([]Suggestion(nil), doc.suggestions...), nil
}

func (m *MemoryClient) LatestRevision(ctx context.Context, docID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, err := m.get(docID)
	if err != nil {
		return "", err
	}
	return doc.revision, nil
}
