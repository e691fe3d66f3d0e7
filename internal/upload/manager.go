package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/driveport/driveport/internal/config"
	"github.com/driveport/driveport/internal/events"
	"github.com/driveport/driveport/internal/folders"
	"github.com/driveport/driveport/internal/logging"
	"github.com/driveport/driveport/internal/models"
)

// Platform is the slice of the API client the manager needs.
type Platform interface {
	UploadBlob(ctx context.Context, name string, size int64, r io.Reader, token string, onProgress func(loaded, total int64)) (*models.Blob, error)
	DeleteBlob(ctx context.Context, blobID string) error
	CreateFileDocument(ctx context.Context, doc *models.FileDocument) (*models.FileDocument, error)
	BlobViewURL(blobID string) string
}

// TokenProvider hands out storage tokens. Implemented by auth.TokenSource.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Stats summarizes the tracked collection.
type Stats struct {
	Uploading int
	Success   int
	Error     int
	Canceled  int
}

// Manager owns the upload item collection. Items are mutated only through
// its operations so status transitions stay in one place.
//
// Transfers for a batch all start immediately; a semaphore caps how many run
// at once when MaxConcurrent is set.
type Manager struct {
	platform Platform
	tokens   TokenProvider
	bus      *events.EventBus
	logger   *logging.Logger
	owner    models.User

	sem chan struct{} // nil when concurrency is uncapped

	mu    sync.RWMutex
	items []*Item
	byID  map[string]*Item

	// Keyed by the item pointer, not the ID: a retry replaces the entry
	// under the same ID, and the old run's deferred cleanup must not
	// discard the retried transfer's cancel func.
	cancels map[*Item]context.CancelFunc

	wg sync.WaitGroup
}

// NewManager creates an upload manager acting as the given user.
func NewManager(platform Platform, tokens TokenProvider, bus *events.EventBus, logger *logging.Logger, cfg config.UploadConfig, owner models.User) *Manager {
	var sem chan struct{}
	if cfg.MaxConcurrent > 0 {
		sem = make(chan struct{}, cfg.MaxConcurrent)
	}

	return &Manager{
		platform: platform,
		tokens:   tokens,
		bus:      bus,
		logger:   logger,
		owner:    owner,
		sem:      sem,
		byID:     make(map[string]*Item),
		cancels:  make(map[*Item]context.CancelFunc),
	}
}

// AddFiles admits a batch and starts a transfer per file. For folder-structure
// batches, folderMap must already cover every directory prefix in the batch
// (see the folders package); pass nil for loose-file batches. Returns the new
// item IDs in input order.
func (m *Manager) AddFiles(ctx context.Context, batch []File, folderMap map[string]string) []string {
	ids := make([]string, 0, len(batch))

	for _, file := range batch {
		folderID := ""
		if folderMap != nil {
			folderID = folders.FolderIDFor(file.RelativePath, folderMap)
		}

		item := newItem(file, folderID)
		itemCtx, cancel := context.WithCancel(ctx)

		m.mu.Lock()
		m.items = append(m.items, item)
		m.byID[item.ID] = item
		m.cancels[item] = cancel
		m.mu.Unlock()

		ids = append(ids, item.ID)
		m.publish(events.EventUploadStarted, item)

		m.wg.Add(1)
		go m.run(itemCtx, item)
	}

	return ids
}

// run drives one item through the full transfer sequence.
func (m *Manager) run(ctx context.Context, item *Item) {
	defer m.wg.Done()
	defer m.clearCancel(item)

	if m.sem != nil {
		select {
		case m.sem <- struct{}{}:
			defer func() { <-m.sem }()
		case <-ctx.Done():
			m.finish(item, StatusCanceled, "")
			return
		}
	}

	token, err := m.tokens.Token(ctx)
	if err != nil {
		m.fail(ctx, item, fmt.Errorf("failed to obtain storage token: %w", err))
		return
	}

	reader, err := item.file.Open()
	if err != nil {
		m.fail(ctx, item, fmt.Errorf("failed to open file: %w", err))
		return
	}
	defer reader.Close()

	blob, err := m.platform.UploadBlob(ctx, item.Name, item.Size, reader, token,
		func(loaded, total int64) {
			if total <= 0 {
				return
			}
			pct := int(loaded * 100 / total)
			if pct > 100 {
				pct = 100
			}
			if item.advanceProgress(pct) {
				m.publish(events.EventUploadProgress, item)
			}
		})
	if err != nil {
		m.fail(ctx, item, fmt.Errorf("upload failed: %w", err))
		return
	}

	// A cancel landing after the blob is durable must not stop persistence,
	// otherwise the blob is orphaned with no record pointing at it.
	persistCtx := context.WithoutCancel(ctx)

	doc, err := m.persist(persistCtx, item, blob)
	if err != nil {
		m.logger.Error().Str("item", item.ID).Str("blob", blob.ID).Err(err).
			Msg("Metadata persist failed, deleting blob")
		if delErr := m.platform.DeleteBlob(persistCtx, blob.ID); delErr != nil {
			m.logger.Warn().Str("blob", blob.ID).Err(delErr).
				Msg("Orphaned blob could not be deleted")
		}
		m.finishError(item, fmt.Errorf("failed to save file record: %w", err))
		return
	}

	if item.finish(StatusSuccess, "", doc.ID) {
		m.publish(events.EventUploadCompleted, item)
	}
}

func (m *Manager) persist(ctx context.Context, item *Item, blob *models.Blob) (*models.FileDocument, error) {
	fileType, extension := models.FileTypeFor(item.Name)

	return m.platform.CreateFileDocument(ctx, &models.FileDocument{
		Type:        fileType,
		Name:        item.Name,
		URL:         m.platform.BlobViewURL(blob.ID),
		Extension:   extension,
		Size:        item.Size,
		Owner:       m.owner.ID,
		AccountID:   m.owner.AccountID,
		FolderID:    item.FolderID,
		Users:       []string{},
		SharedWith:  []string{},
		BucketField: blob.ID,
	})
}

// fail marks the item errored, or canceled when the failure came from a user
// abort. Transport aborts surface as context.Canceled.
func (m *Manager) fail(ctx context.Context, item *Item, err error) {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		m.finish(item, StatusCanceled, "")
		return
	}
	m.finishError(item, err)
}

func (m *Manager) finishError(item *Item, err error) {
	m.logger.Error().Str("item", item.ID).Str("name", item.Name).Err(err).Msg("Upload failed")
	if item.finish(StatusError, err.Error(), "") {
		m.publish(events.EventUploadFailed, item)
	}
}

func (m *Manager) finish(item *Item, status Status, errMsg string) {
	if !item.finish(status, errMsg, "") {
		return
	}
	switch status {
	case StatusCanceled:
		m.publish(events.EventUploadCanceled, item)
	case StatusError:
		m.publish(events.EventUploadFailed, item)
	}
}

// Cancel aborts an in-flight transfer at the transport level. Items already
// terminal flip directly to canceled.
func (m *Manager) Cancel(id string) error {
	m.mu.Lock()
	item, ok := m.byID[id]
	cancel := m.cancels[item]
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("no upload item %q", id)
	}

	if cancel != nil && !item.Terminal() {
		cancel()
		return nil
	}

	item.mu.Lock()
	if item.Status != StatusCanceled {
		item.Status = StatusCanceled
		item.Error = ""
	}
	item.mu.Unlock()
	m.publish(events.EventUploadCanceled, item)
	return nil
}

// Retry restarts an errored or canceled item from byte zero. The item keeps
// its ID but is replaced with a fresh entry so progress and error state reset
// cleanly.
func (m *Manager) Retry(ctx context.Context, id string) error {
	m.mu.Lock()
	old, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("no upload item %q", id)
	}
	if !old.Retriable() {
		m.mu.Unlock()
		return fmt.Errorf("upload item %q is not retriable", id)
	}

	fresh := newItem(old.file, old.FolderID)
	fresh.ID = old.ID
	fresh.CreatedAt = old.CreatedAt

	itemCtx, cancel := context.WithCancel(ctx)
	for i, it := range m.items {
		if it == old {
			m.items[i] = fresh
			break
		}
	}
	m.byID[id] = fresh
	m.cancels[fresh] = cancel
	m.mu.Unlock()

	m.publish(events.EventUploadStarted, fresh)
	m.wg.Add(1)
	go m.run(itemCtx, fresh)
	return nil
}

// Remove cancels any in-flight transfer, then drops the item from the
// collection. A successful remote upload is not retracted.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	item, ok := m.byID[id]
	cancel := m.cancels[item]
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("no upload item %q", id)
	}
	if cancel != nil && !item.Terminal() {
		cancel()
	}

	m.mu.Lock()
	delete(m.byID, id)
	delete(m.cancels, item)
	for i, it := range m.items {
		if it == item {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	m.publish(events.EventUploadRemoved, item)
	return nil
}

// Items returns snapshots of every tracked item in admission order.
func (m *Manager) Items() []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Item, len(m.items))
	for i, item := range m.items {
		out[i] = item.Clone()
	}
	return out
}

// Get returns a snapshot of one item.
func (m *Manager) Get(id string) (Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.byID[id]
	if !ok {
		return Item{}, false
	}
	return item.Clone(), true
}

// GetStats counts items per status.
func (m *Manager) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats Stats
	for _, item := range m.items {
		switch status, _, _ := item.snapshot(); status {
		case StatusUploading:
			stats.Uploading++
		case StatusSuccess:
			stats.Success++
		case StatusError:
			stats.Error++
		case StatusCanceled:
			stats.Canceled++
		}
	}
	return stats
}

// Wait blocks until every started transfer reaches a terminal state.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) clearCancel(item *Item) {
	m.mu.Lock()
	delete(m.cancels, item)
	m.mu.Unlock()
}

func (m *Manager) publish(eventType events.EventType, item *Item) {
	if m.bus == nil {
		return
	}
	_, progress, errMsg := item.snapshot()
	m.bus.Publish(events.NewUploadEvent(eventType, item.ID, item.Name, item.Size, progress, errMsg))
}
