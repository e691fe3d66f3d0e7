// Package models defines the document, blob, and identity shapes exchanged
// with the platform.
package models

import (
	"time"
)

// FileDocument is the metadata record persisted for every stored file.
// The platform assigns ID and the timestamps; everything else is
// client-provided.
type FileDocument struct {
	ID        string    `json:"$id,omitempty"`
	CreatedAt time.Time `json:"$createdAt,omitempty"`
	UpdatedAt time.Time `json:"$updatedAt,omitempty"`

	Type      string `json:"type"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
	Owner     string `json:"owner"`
	AccountID string `json:"accountId"`

	// FolderID is empty for root-level files.
	FolderID string `json:"folderId,omitempty"`

	// Sharing state. Initialized empty/null on upload.
	Users          []string   `json:"users"`
	SharedWith     []string   `json:"sharedWith"`
	ShareToken     *string    `json:"shareToken"`
	ShareExpiresAt *time.Time `json:"shareExpiresAt"`

	// BucketField is the ID of the blob in object storage.
	BucketField string `json:"bucketField"`
}

// FolderDocument is the record persisted per folder. Hierarchy is carried by
// the files' FolderID references, not by the folder records themselves.
type FolderDocument struct {
	ID        string    `json:"$id,omitempty"`
	CreatedAt time.Time `json:"$createdAt,omitempty"`
	UpdatedAt time.Time `json:"$updatedAt,omitempty"`

	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	AccountID string `json:"accountId"`
}

// FileList is one page of file documents.
type FileList struct {
	Total     int64          `json:"total"`
	Documents []FileDocument `json:"documents"`
}

// FolderList is one page of folder documents.
type FolderList struct {
	Total     int64            `json:"total"`
	Documents []FolderDocument `json:"documents"`
}

// Blob describes a stored object returned by the storage service.
type Blob struct {
	ID   string `json:"$id"`
	Name string `json:"name"`
	Size int64  `json:"sizeOriginal"`
}

// User is the authenticated account behind the current session.
type User struct {
	ID        string `json:"$id"`
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
}

// SessionToken is the short-lived credential minted for direct-to-storage
// uploads.
type SessionToken struct {
	Token    string    `json:"token"`
	ExpireAt time.Time `json:"expireAt"`
}
