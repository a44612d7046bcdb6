// Package sync orchestrates the push and pull workflows between an org file
// and its linked Google Doc.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gerunddev/docbridge/internal/babel"
	"github.com/gerunddev/docbridge/internal/config"
	"github.com/gerunddev/docbridge/internal/convert"
	"github.com/gerunddev/docbridge/internal/gdocs"
	"github.com/gerunddev/docbridge/internal/logger"
	"github.com/gerunddev/docbridge/internal/org"
	"github.com/gerunddev/docbridge/internal/state"
)

// Status of sync between an org file and its Google Doc.
type Status string

const (
	StatusNotInitialized Status = "not_initialized"
	StatusSynced         Status = "synced"
	StatusLocalChanges   Status = "local_changes"
	StatusRemoteChanges  Status = "remote_changes"
	StatusConflict       Status = "conflict"
)

// Sentinel errors for callers that branch on the failure.
var (
	ErrNotInitialized     = errors.New("document has no GDOC_ID, run 'docbridge init' first")
	ErrAlreadyInitialized = errors.New("document already initialized")
	ErrLocalChanges       = errors.New("local changes since last sync, use --force or --backup")
)

// State is the current sync state of one document.
type State struct {
	Status             Status `json:"status"`
	GDocID             string `json:"gdoc_id,omitempty"`
	LastSync           string `json:"last_sync,omitempty"`
	LastPushRev        string `json:"last_push_rev,omitempty"`
	LastPullRev        string `json:"last_pull_rev,omitempty"`
	PendingComments    int    `json:"pending_comments"`
	PendingSuggestions int    `json:"pending_suggestions"`
	LocalModified      bool   `json:"local_modified"`
}

// PushResult reports what a push did.
type PushResult struct {
	GDocID         string `json:"gdoc_id"`
	URL            string `json:"url"`
	RequestsSent   int    `json:"requests_sent"`
	CommentsPosted int    `json:"comments_posted"`
	Revision       string `json:"revision"`
}

// PullResult reports what a pull did.
type PullResult struct {
	GDocID           string `json:"gdoc_id"`
	CommentsAdded    int    `json:"comments_added"`
	SuggestionsAdded int    `json:"suggestions_added"`
	BackupPath       string `json:"backup_path,omitempty"`
	Revision         string `json:"revision"`
}

// PullOptions control conflict handling during a pull.
type PullOptions struct {
	// Force pulls even when local changes exist.
	Force bool
	// Backup copies the file aside before overwriting local changes.
	Backup bool
	// BackupDir receives backups; empty means next to the org file.
	BackupDir string
}

// Engine runs the sync workflows against a Client.
type Engine struct {
	client gdocs.Client
	log    *logger.Logger

	// StatePath locates the change-tracking snapshot file. Tests point it at
	// a temp dir.
	StatePath string

	now func() time.Time
}

// NewEngine returns an engine using the default state file location.
func NewEngine(client gdocs.Client, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Discard()
	}
	return &Engine{
		client:    client,
		log:       log,
		StatePath: config.StateFilePath(),
		now:       time.Now,
	}
}

// SyncState inspects a document without touching the network.
func (e *Engine) SyncState(orgPath string) (State, error) {
	if _, err := os.Stat(orgPath); err != nil {
		if os.IsNotExist(err) {
			return State{Status: StatusNotInitialized}, nil
		}
		return State{}, err
	}

	doc, err := org.ParseFile(orgPath)
	if err != nil {
		return State{}, err
	}

	gdocID := doc.GDocID()
	if gdocID == "" {
		return State{Status: StatusNotInitialized}, nil
	}

	st := State{
		Status:             StatusSynced,
		GDocID:             gdocID,
		LastSync:           doc.LastSync(),
		PendingComments:    len(convert.PendingComments(doc)),
		PendingSuggestions: len(convert.PendingSuggestions(doc)),
	}
	if v, ok := doc.Metadata(org.MetaLastPushRev); ok {
		st.LastPushRev = v
	}
	if v, ok := doc.Metadata(org.MetaLastPullRev); ok {
		st.LastPullRev = v
	}

	modified, err := e.localModified(orgPath, doc)
	if err != nil {
		e.log.StateError("check", err)
	}
	if modified {
		st.Status = StatusLocalChanges
		st.LocalModified = true
	}

	return st, nil
}

// CheckRemote refines a local sync state with the document's latest revision.
// A remote revision unseen by both push and pull means remote changes; remote
// changes on top of local ones is a conflict.
func (e *Engine) CheckRemote(ctx context.Context, st State) (State, error) {
	if st.Status == StatusNotInitialized {
		return st, nil
	}

	rev, err := e.client.LatestRevision(ctx, st.GDocID)
	if err != nil {
		e.log.ClientError("latest_revision", st.GDocID, err)
		return st, err
	}

	if rev != st.LastPushRev && rev != st.LastPullRev {
		if st.LocalModified {
			st.Status = StatusConflict
		} else {
			st.Status = StatusRemoteChanges
		}
	}
	return st, nil
}

// Initialize links a document to a Google Doc, creating a new one when gdocID
// is empty. Returns the linked document ID.
func (e *Engine) Initialize(ctx context.Context, orgPath, title, gdocID string) (string, error) {
	doc, err := org.ParseFile(orgPath)
	if err != nil {
		return "", err
	}

	if existing := doc.GDocID(); existing != "" {
		return "", fmt.Errorf("%w with GDOC_ID %s", ErrAlreadyInitialized, existing)
	}

	docID := gdocID
	if docID == "" {
		docTitle := title
		if docTitle == "" {
			if v, ok := doc.Metadata(org.MetaTitle); ok && v != "" {
				docTitle = v
			} else {
				docTitle = "Untitled"
			}
		}
		docID, err = e.client.CreateDocument(ctx, docTitle)
		if err != nil {
			e.log.ClientError("create_document", "", err)
			return "", fmt.Errorf("failed to create document: %w", err)
		}
	}

	doc.SetGDocID(docID)
	doc.SetLastSync(e.now().Format(time.RFC3339))

	if err := org.WriteFile(orgPath, doc); err != nil {
		return "", err
	}
	e.recordSnapshot(orgPath, docID)

	return docID, nil
}

// Push replaces the Google Doc's content with the org file's. Assets carry
// uploaded babel renders keyed by source span; nil means no babel handling.
func (e *Engine) Push(ctx context.Context, orgPath string, assets []babel.Asset) (PushResult, error) {
	started := e.now()

	doc, err := org.ParseFile(orgPath)
	if err != nil {
		return PushResult{}, err
	}

	gdocID := doc.GDocID()
	if gdocID == "" {
		return PushResult{}, ErrNotInitialized
	}
	e.log.PushStarted(orgPath, gdocID)

	pushDoc := babel.ReplaceWithImages(doc, assets)
	if len(assets) > 0 {
		e.log.BabelReplaced(orgPath, len(assets))
	}

	reqs := convert.ToRequests(pushDoc)

	if err := e.client.ClearDocument(ctx, gdocID); err != nil {
		e.log.ClientError("clear_document", gdocID, err)
		return PushResult{}, fmt.Errorf("failed to clear document: %w", err)
	}
	if len(reqs) > 0 {
		if err := e.client.BatchUpdate(ctx, gdocID, reqs); err != nil {
			e.log.ClientError("batch_update", gdocID, err)
			return PushResult{}, fmt.Errorf("failed to update document: %w", err)
		}
	}

	// Inline comment directives become real document comments, then leave
	// the org file.
	posted := 0
	for _, content := range convert.CommentDirectives(doc) {
		if _, err := e.client.CreateComment(ctx, gdocID, content); err != nil {
			e.log.ClientError("create_comment", gdocID, err)
			return PushResult{}, fmt.Errorf("failed to post comment: %w", err)
		}
		posted++
	}
	convert.RemoveCommentDirectives(doc)

	rev, err := e.client.LatestRevision(ctx, gdocID)
	if err != nil {
		e.log.ClientError("latest_revision", gdocID, err)
		return PushResult{}, fmt.Errorf("failed to read revision: %w", err)
	}

	doc.SetMetadata(org.MetaLastPushRev, rev)
	doc.SetLastSync(e.now().Format(time.RFC3339))

	if err := org.WriteFile(orgPath, doc); err != nil {
		return PushResult{}, err
	}
	e.recordSnapshot(orgPath, gdocID)

	e.log.PushCompleted(orgPath, len(reqs), posted, e.now().Sub(started))

	return PushResult{
		GDocID:         gdocID,
		URL:            gdocs.DocumentURL(gdocID),
		RequestsSent:   len(reqs),
		CommentsPosted: posted,
		Revision:       rev,
	}, nil
}

// Pull merges remote comments and suggestions into the org file's annotation
// section.
func (e *Engine) Pull(ctx context.Context, orgPath string, opts PullOptions) (PullResult, error) {
	doc, err := org.ParseFile(orgPath)
	if err != nil {
		return PullResult{}, err
	}

	gdocID := doc.GDocID()
	if gdocID == "" {
		return PullResult{}, ErrNotInitialized
	}

	modified, err := e.localModified(orgPath, doc)
	if err != nil {
		e.log.StateError("check", err)
	}

	backupPath := ""
	if modified {
		if !opts.Force && !opts.Backup {
			return PullResult{}, ErrLocalChanges
		}
		if opts.Backup {
			backupPath, err = e.backup(orgPath, opts.BackupDir)
			if err != nil {
				return PullResult{}, fmt.Errorf("failed to create backup: %w", err)
			}
			e.log.BackupCreated(orgPath, backupPath)
		}
	}

	comments, err := e.client.ListComments(ctx, gdocID)
	if err != nil {
		e.log.ClientError("list_comments", gdocID, err)
		return PullResult{}, fmt.Errorf("failed to list comments: %w", err)
	}
	suggestions, err := e.client.ListSuggestions(ctx, gdocID)
	if err != nil {
		e.log.ClientError("list_suggestions", gdocID, err)
		return PullResult{}, fmt.Errorf("failed to list suggestions: %w", err)
	}

	convert.MergeAnnotations(doc, comments, suggestions)

	rev, err := e.client.LatestRevision(ctx, gdocID)
	if err != nil {
		e.log.ClientError("latest_revision", gdocID, err)
		return PullResult{}, fmt.Errorf("failed to read revision: %w", err)
	}

	doc.SetMetadata(org.MetaLastPullRev, rev)
	doc.SetLastSync(e.now().Format(time.RFC3339))

	if err := org.WriteFile(orgPath, doc); err != nil {
		return PullResult{}, err
	}
	e.recordSnapshot(orgPath, gdocID)

	e.log.PullCompleted(orgPath, len(comments), len(suggestions))

	return PullResult{
		GDocID:           gdocID,
		CommentsAdded:    len(comments),
		SuggestionsAdded: len(suggestions),
		BackupPath:       backupPath,
		Revision:         rev,
	}, nil
}

// localModified reports whether the file changed since the last sync. The
// snapshot hash is authoritative when one exists; otherwise mtime against
// LAST_SYNC decides, and an unparsable LAST_SYNC counts as unmodified.
func (e *Engine) localModified(orgPath string, doc *org.Document) (bool, error) {
	st, err := state.Load(e.StatePath)
	if err == nil {
		if _, tracked := st.Docs[orgPath]; tracked {
			return st.HasChanged(orgPath)
		}
	}

	lastSyncStr := doc.LastSync()
	if lastSyncStr == "" {
		return false, err
	}
	lastSync, perr := time.Parse(time.RFC3339, lastSyncStr)
	if perr != nil {
		return false, err
	}
	info, serr := os.Stat(orgPath)
	if serr != nil {
		return false, serr
	}
	return info.ModTime().After(lastSync), err
}

// recordSnapshot saves the post-sync mtime+hash so the next staleness check
// survives metadata rewrites. Failures only log; the sync itself succeeded.
func (e *Engine) recordSnapshot(orgPath, gdocID string) {
	st, err := state.Load(e.StatePath)
	if err != nil {
		e.log.StateError("load", err)
		return
	}
	if err := st.Update(orgPath, gdocID); err != nil {
		e.log.StateError("update", err)
		return
	}
	if err := st.Save(e.StatePath); err != nil {
		e.log.StateError("save", err)
	}
}

func (e *Engine) backup(orgPath, backupDir string) (string, error) {
	info, err := os.Stat(orgPath)
	if err != nil {
		return "", err
	}

	backupPath := fmt.Sprintf("%s.backup.%d", orgPath, info.ModTime().Unix())
	if backupDir != "" {
		backupPath = filepath.Join(backupDir,
			fmt.Sprintf("%s.backup.%d", filepath.Base(orgPath), info.ModTime().Unix()))
	}

	src, err := os.Open(orgPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return backupPath, nil
}
