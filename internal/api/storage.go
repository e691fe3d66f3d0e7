package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"

	"github.com/google/uuid"

	"github.com/driveport/driveport/internal/models"
)

// progressReader counts bytes pulled from the wrapped reader and reports the
// running total through the callback.
type progressReader struct {
	r      io.Reader
	loaded int64
	total  int64
	onRead func(loaded, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		if p.onRead != nil {
			p.onRead(p.loaded, p.total)
		}
	}
	return n, err
}

func (c *Client) bucketPath() string {
	return fmt.Sprintf("/storage/buckets/%s/files", c.cfg.BucketID)
}

// UploadBlob streams one file into the storage bucket as a multipart upload
// and returns the stored blob. onProgress, if non-nil, is called with the
// byte count as the request body is consumed. Cancelling ctx aborts the
// transfer mid-stream.
//
// The body is piped rather than buffered, so files larger than memory
// upload fine. This also means the request is not retryable.
func (c *Client) UploadBlob(ctx context.Context, name string, size int64, r io.Reader, token string, onProgress func(loaded, total int64)) (*models.Blob, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		if err := mw.WriteField("fileId", uuid.NewString()); err != nil {
			pw.CloseWithError(err)
			return
		}
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	body := &progressReader{r: pr, total: size, onRead: onProgress}

	req, err := nethttp.NewRequestWithContext(ctx, "POST", c.baseURL+c.bucketPath(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("X-Project", c.cfg.ProjectID)
	req.Header.Set("X-Storage-Token", token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	var blob models.Blob
	if err := decode(resp, &blob); err != nil {
		return nil, err
	}
	return &blob, nil
}

// DeleteBlob removes a stored object. Used to clean up after a failed
// metadata write so no orphan blobs accumulate.
func (c *Client) DeleteBlob(ctx context.Context, blobID string) error {
	resp, err := c.doRequest(ctx, "DELETE", c.bucketPath()+"/"+blobID, nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// BlobViewURL is the public view URL for a stored blob, recorded on the file
// document at upload time.
func (c *Client) BlobViewURL(blobID string) string {
	return fmt.Sprintf("%s%s/%s/view?project=%s", c.baseURL, c.bucketPath(), blobID, c.cfg.ProjectID)
}
