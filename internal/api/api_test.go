package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/driveport/driveport/internal/config"
	"github.com/driveport/driveport/internal/constants"
	"github.com/driveport/driveport/internal/logging"
	"github.com/driveport/driveport/internal/models"
)

func newTestClient(t *testing.T, handler nethttp.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.PlatformConfig{
		EndpointURL:         server.URL,
		ProjectID:           "proj-1",
		APIKey:              "key-1",
		DatabaseID:          "db-1",
		FilesCollectionID:   "files",
		FoldersCollectionID: "folders",
		BucketID:            "bucket-1",
	}

	client, err := NewClient(cfg, logging.NewLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestCreateFileDocument(t *testing.T) {
	var gotPath, gotProject string
	var gotBody documentRequest

	client, _ := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotPath = r.URL.Path
		gotProject = r.Header.Get("X-Project")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"$id":"doc-1","name":"report.pdf","type":"document"}`)
	}))

	doc := &models.FileDocument{
		Type:      "document",
		Name:      "report.pdf",
		Extension: "pdf",
		Size:      1024,
		Owner:     "user-1",
		AccountID: "acct-1",
		Users:     []string{},
	}

	created, err := client.CreateFileDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("CreateFileDocument: %v", err)
	}

	if created.ID != "doc-1" {
		t.Errorf("created ID = %q, want doc-1", created.ID)
	}
	if want := "/databases/db-1/collections/files/documents"; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
	if gotProject != "proj-1" {
		t.Errorf("X-Project = %q, want proj-1", gotProject)
	}
	if gotBody.DocumentID == "" {
		t.Error("expected a client-generated document ID")
	}
}

func TestFetchAllFilesPaginates(t *testing.T) {
	var requests atomic.Int32

	client, _ := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		n := requests.Add(1)
		queries := r.URL.Query()["queries[]"]

		page := models.FileList{}
		switch n {
		case 1:
			for _, q := range queries {
				if strings.Contains(q, "cursorAfter") {
					t.Errorf("first page should not carry a cursor, got %q", q)
				}
			}
			for i := 0; i < constants.ListPageSize; i++ {
				page.Documents = append(page.Documents, models.FileDocument{
					ID:   fmt.Sprintf("doc-%d", i),
					Name: fmt.Sprintf("file-%d.txt", i),
				})
			}
		case 2:
			var sawCursor bool
			for _, q := range queries {
				if strings.Contains(q, "cursorAfter") && strings.Contains(q, "doc-99") {
					sawCursor = true
				}
			}
			if !sawCursor {
				t.Errorf("second page missing cursor after doc-99, queries: %v", queries)
			}
			page.Documents = []models.FileDocument{{ID: "doc-100", Name: "last.txt"}}
		default:
			t.Errorf("unexpected request %d after short page", n)
		}
		json.NewEncoder(w).Encode(page)
	}))

	files, err := client.FetchAllFiles(context.Background(), "user-1", "user@example.com")
	if err != nil {
		t.Fatalf("FetchAllFiles: %v", err)
	}

	if len(files) != constants.ListPageSize+1 {
		t.Errorf("got %d files, want %d", len(files), constants.ListPageSize+1)
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("made %d requests, want 2", got)
	}
}

func TestUploadBlobReportsProgress(t *testing.T) {
	payload := strings.Repeat("x", 64*1024)

	client, _ := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if got := r.Header.Get("X-Storage-Token"); got != "tok-1" {
			t.Errorf("X-Storage-Token = %q, want tok-1", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("fileId") == "" {
			t.Error("missing fileId field")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "big.bin" {
			t.Errorf("filename = %q, want big.bin", header.Filename)
		}
		data, _ := io.ReadAll(file)
		fmt.Fprintf(w, `{"$id":"blob-1","name":"big.bin","sizeOriginal":%d}`, len(data))
	}))

	var lastLoaded, lastTotal int64
	blob, err := client.UploadBlob(context.Background(), "big.bin", int64(len(payload)),
		strings.NewReader(payload), "tok-1",
		func(loaded, total int64) {
			lastLoaded, lastTotal = loaded, total
		})
	if err != nil {
		t.Fatalf("UploadBlob: %v", err)
	}

	if blob.ID != "blob-1" {
		t.Errorf("blob ID = %q, want blob-1", blob.ID)
	}
	if blob.Size != int64(len(payload)) {
		t.Errorf("blob size = %d, want %d", blob.Size, len(payload))
	}
	if lastTotal != int64(len(payload)) {
		t.Errorf("reported total = %d, want %d", lastTotal, len(payload))
	}
	// The multipart framing adds bytes beyond the raw file, so loaded
	// should be at least the payload length by the end.
	if lastLoaded < int64(len(payload)) {
		t.Errorf("reported loaded = %d, want >= %d", lastLoaded, len(payload))
	}
}

func TestUploadBlobCancelAborts(t *testing.T) {
	release := make(chan struct{})

	client, _ := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		io.Copy(io.Discard, r.Body)
		<-release
	}))
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := client.UploadBlob(ctx, "slow.bin", 4,
			strings.NewReader("data"), "tok-1", nil)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("upload did not abort after cancel")
	}
}

func TestStatusErrorMessage(t *testing.T) {
	client, _ := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusNotFound)
		fmt.Fprint(w, `{"message":"document not found"}`)
	}))

	_, err := client.GetFileDocument(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected an error for 404")
	}
	if !IsNotFound(err) {
		t.Errorf("expected IsNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "document not found") {
		t.Errorf("error %q missing server message", err)
	}
}

func TestMintTokenRelativeEndpoint(t *testing.T) {
	expire := time.Now().Add(15 * time.Minute).UTC().Truncate(time.Second)

	client, _ := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/account/tokens/storage" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.SessionToken{Token: "tok-9", ExpireAt: expire})
	}))

	token, err := client.MintToken(context.Background())
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}
	if token.Token != "tok-9" {
		t.Errorf("token = %q, want tok-9", token.Token)
	}
	if !token.ExpireAt.Equal(expire) {
		t.Errorf("expireAt = %v, want %v", token.ExpireAt, expire)
	}
}
