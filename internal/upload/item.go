// Package upload tracks and executes concurrent file uploads.
package upload

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of one upload item.
type Status string

const (
	StatusUploading Status = "uploading" // Transfer in flight
	StatusSuccess   Status = "success"   // Blob stored and document persisted
	StatusError     Status = "error"     // Failed with a message
	StatusCanceled  Status = "canceled"  // Aborted by the user
)

// File is one file admitted into a batch. Open returns a fresh reader each
// call so retries can restart from byte zero.
type File struct {
	Name         string
	RelativePath string // "/"-separated, empty for loose files
	Size         int64
	Open         func() (io.ReadCloser, error)
}

// Item is one tracked upload. All mutation goes through the manager so state
// transitions stay centralized.
type Item struct {
	ID   string // Client-side ID, independent of any server ID
	Name string
	Size int64

	// FolderID is the remote folder this file lands in. Fixed at admission,
	// never changes afterwards.
	FolderID string

	Status   Status
	Progress int    // 0 to 100, non-decreasing while uploading
	Error    string // Set only when Status is error

	// DocumentID is the persisted metadata record ID, set on success.
	DocumentID string

	CreatedAt   time.Time
	CompletedAt time.Time

	file File
	mu   sync.RWMutex
}

func newItem(file File, folderID string) *Item {
	return &Item{
		ID:        uuid.NewString(),
		Name:      file.Name,
		Size:      file.Size,
		FolderID:  folderID,
		Status:    StatusUploading,
		CreatedAt: time.Now(),
		file:      file,
	}
}

// advanceProgress raises progress to pct while the item is still uploading.
// Regressions and post-terminal updates are ignored, so a canceled or errored
// item's progress freezes at its last value.
func (i *Item) advanceProgress(pct int) bool {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.Status != StatusUploading || pct <= i.Progress {
		return false
	}
	i.Progress = pct
	return true
}

// finish moves the item to a terminal state. Success forces progress to 100.
// Finishing an already-terminal item is a no-op so a late transport callback
// cannot overwrite a user cancel.
func (i *Item) finish(status Status, errMsg, documentID string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.Status != StatusUploading {
		return false
	}

	i.Status = status
	i.Error = errMsg
	i.DocumentID = documentID
	i.CompletedAt = time.Now()
	if status == StatusSuccess {
		i.Progress = 100
	}
	return true
}

// Terminal reports whether the item reached a final state.
func (i *Item) Terminal() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.Status != StatusUploading
}

// Retriable reports whether the item can be restarted.
func (i *Item) Retriable() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.Status == StatusError || i.Status == StatusCanceled
}

// Clone returns a snapshot safe for external use.
func (i *Item) Clone() Item {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return Item{
		ID:          i.ID,
		Name:        i.Name,
		Size:        i.Size,
		FolderID:    i.FolderID,
		Status:      i.Status,
		Progress:    i.Progress,
		Error:       i.Error,
		DocumentID:  i.DocumentID,
		CreatedAt:   i.CreatedAt,
		CompletedAt: i.CompletedAt,
	}
}

func (i *Item) snapshot() (Status, int, string) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.Status, i.Progress, i.Error
}
