package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/driveport/driveport/internal/constants"
	"github.com/driveport/driveport/internal/models"
)

// documentRequest is the envelope the document store expects on create and
// update.
type documentRequest struct {
	DocumentID string      `json:"documentId,omitempty"`
	Data       interface{} `json:"data"`
}

func (c *Client) collectionPath(collectionID string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents", c.cfg.DatabaseID, collectionID)
}

func (c *Client) documentPath(collectionID, documentID string) string {
	return c.collectionPath(collectionID) + "/" + documentID
}

// CreateFileDocument persists the metadata record for an uploaded file and
// returns it with the server-assigned ID and timestamps.
func (c *Client) CreateFileDocument(ctx context.Context, doc *models.FileDocument) (*models.FileDocument, error) {
	body := documentRequest{DocumentID: uuid.NewString(), Data: doc}

	resp, err := c.doRequest(ctx, "POST", c.collectionPath(c.cfg.FilesCollectionID), body)
	if err != nil {
		return nil, err
	}

	var created models.FileDocument
	if err := decode(resp, &created); err != nil {
		return nil, fmt.Errorf("failed to create file document: %w", err)
	}
	return &created, nil
}

// CreateFolderDocument persists one folder record and returns its ID.
func (c *Client) CreateFolderDocument(ctx context.Context, doc *models.FolderDocument) (string, error) {
	body := documentRequest{DocumentID: uuid.NewString(), Data: doc}

	resp, err := c.doRequest(ctx, "POST", c.collectionPath(c.cfg.FoldersCollectionID), body)
	if err != nil {
		return "", err
	}

	var created models.FolderDocument
	if err := decode(resp, &created); err != nil {
		return "", fmt.Errorf("failed to create folder document: %w", err)
	}
	return created.ID, nil
}

// GetFileDocument fetches one file document by ID.
func (c *Client) GetFileDocument(ctx context.Context, documentID string) (*models.FileDocument, error) {
	resp, err := c.doRequest(ctx, "GET", c.documentPath(c.cfg.FilesCollectionID, documentID), nil)
	if err != nil {
		return nil, err
	}

	var doc models.FileDocument
	if err := decode(resp, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetFolderDocument fetches one folder document by ID.
func (c *Client) GetFolderDocument(ctx context.Context, documentID string) (*models.FolderDocument, error) {
	resp, err := c.doRequest(ctx, "GET", c.documentPath(c.cfg.FoldersCollectionID, documentID), nil)
	if err != nil {
		return nil, err
	}

	var doc models.FolderDocument
	if err := decode(resp, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateFileDocument patches fields on a file document.
func (c *Client) UpdateFileDocument(ctx context.Context, documentID string, data map[string]interface{}) (*models.FileDocument, error) {
	body := documentRequest{Data: data}

	resp, err := c.doRequest(ctx, "PATCH", c.documentPath(c.cfg.FilesCollectionID, documentID), body)
	if err != nil {
		return nil, err
	}

	var doc models.FileDocument
	if err := decode(resp, &doc); err != nil {
		return nil, fmt.Errorf("failed to update file document: %w", err)
	}
	return &doc, nil
}

// DeleteDocument removes a document from the given collection.
func (c *Client) DeleteDocument(ctx context.Context, collectionID, documentID string) error {
	resp, err := c.doRequest(ctx, "DELETE", c.documentPath(collectionID, documentID), nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// ListFiles returns one page of file documents matching the queries.
func (c *Client) ListFiles(ctx context.Context, queries ...Query) (*models.FileList, error) {
	resp, err := c.doRequest(ctx, "GET", c.collectionPath(c.cfg.FilesCollectionID)+queryString(queries), nil)
	if err != nil {
		return nil, err
	}

	var list models.FileList
	if err := decode(resp, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListFolders returns one page of folder documents matching the queries.
func (c *Client) ListFolders(ctx context.Context, queries ...Query) (*models.FolderList, error) {
	resp, err := c.doRequest(ctx, "GET", c.collectionPath(c.cfg.FoldersCollectionID)+queryString(queries), nil)
	if err != nil {
		return nil, err
	}

	var list models.FolderList
	if err := decode(resp, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// FetchAllFiles retrieves every file accessible to the user: owned by them or
// shared with their email. Pages with cursors until a short page comes back,
// so results are never silently truncated.
func (c *Client) FetchAllFiles(ctx context.Context, ownerID, email string) ([]models.FileDocument, error) {
	scope := Or(
		Equal("owner", ownerID),
		Contains("users", email),
	)

	var all []models.FileDocument
	var cursor string

	for {
		queries := []Query{scope, Limit(constants.ListPageSize)}
		if cursor != "" {
			queries = append(queries, CursorAfter(cursor))
		}

		page, err := c.ListFiles(ctx, queries...)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch files page: %w", err)
		}

		all = append(all, page.Documents...)

		if len(page.Documents) < constants.ListPageSize {
			return all, nil
		}
		cursor = page.Documents[len(page.Documents)-1].ID
	}
}

// FetchAllFolders retrieves every folder owned by the user, paging with
// cursors until exhausted.
func (c *Client) FetchAllFolders(ctx context.Context, ownerID string) ([]models.FolderDocument, error) {
	scope := Equal("ownerId", ownerID)

	var all []models.FolderDocument
	var cursor string

	for {
		queries := []Query{scope, Limit(constants.ListPageSize)}
		if cursor != "" {
			queries = append(queries, CursorAfter(cursor))
		}

		page, err := c.ListFolders(ctx, queries...)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch folders page: %w", err)
		}

		all = append(all, page.Documents...)

		if len(page.Documents) < constants.ListPageSize {
			return all, nil
		}
		cursor = page.Documents[len(page.Documents)-1].ID
	}
}
