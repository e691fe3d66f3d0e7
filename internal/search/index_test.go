package search

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/driveport/driveport/internal/models"
)

type fakeStore struct {
	files   []models.FileDocument
	folders []models.FolderDocument
	fetches atomic.Int32
}

func (s *fakeStore) FetchAllFiles(ctx context.Context, ownerID, email string) ([]models.FileDocument, error) {
	s.fetches.Add(1)
	return s.files, nil
}

func (s *fakeStore) FetchAllFolders(ctx context.Context, ownerID string) ([]models.FolderDocument, error) {
	s.fetches.Add(1)
	return s.folders, nil
}

func buildTestIndex(t *testing.T, store *fakeStore) *Index {
	t.Helper()
	idx, err := BuildIndex(context.Background(), store,
		models.User{ID: "user-1", Email: "user@example.com"})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return idx
}

func namedFiles(names ...string) []models.FileDocument {
	files := make([]models.FileDocument, len(names))
	for i, n := range names {
		files[i] = models.FileDocument{ID: n, Name: n}
	}
	return files
}

func TestVerbatimNameIsTopHit(t *testing.T) {
	idx := buildTestIndex(t, &fakeStore{
		files: namedFiles("quarterly-report.pdf", "report-draft.docx", "holiday.jpg"),
	})

	result := idx.Search("quarterly-report.pdf", 0)
	if len(result.Hits) == 0 {
		t.Fatal("no hits")
	}
	if result.Hits[0].Name != "quarterly-report.pdf" {
		t.Errorf("top hit = %q", result.Hits[0].Name)
	}
	if result.Hits[0].Score != 0 {
		t.Errorf("top score = %v, want 0", result.Hits[0].Score)
	}
}

func TestTransposedQueryStillMatches(t *testing.T) {
	idx := buildTestIndex(t, &fakeStore{
		files: namedFiles("presentation.pptx", "notes.txt"),
	})

	result := idx.Search("presentaiton", 0)
	for _, hit := range result.Hits {
		if hit.Name == "presentation.pptx" {
			return
		}
	}
	t.Errorf("transposed query missed, hits: %v", result.Hits)
}

func TestFilesBreakTiesBeforeFolders(t *testing.T) {
	idx := buildTestIndex(t, &fakeStore{
		files:   namedFiles("projects"),
		folders: []models.FolderDocument{{ID: "f1", Name: "projects"}},
	})

	result := idx.Search("projects", 0)
	if len(result.Hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(result.Hits))
	}
	if result.Hits[0].Kind != KindFile || result.Hits[1].Kind != KindFolder {
		t.Errorf("tie order = %v, %v; want file then folder", result.Hits[0].Kind, result.Hits[1].Kind)
	}
}

func TestLimitCapsHits(t *testing.T) {
	var names []string
	for i := 0; i < 20; i++ {
		names = append(names, "meeting-notes.txt")
	}
	idx := buildTestIndex(t, &fakeStore{files: namedFiles(names...)})

	result := idx.Search("meeting", 5)
	if len(result.Hits) != 5 {
		t.Errorf("got %d hits, want 5", len(result.Hits))
	}
}

func TestSuggestionsOnZeroHits(t *testing.T) {
	// Best window of "budget.xlsx" against "bxdx" is "budg" at distance 2,
	// scoring 0.5: past the 0.45 match threshold but inside the 0.75
	// suggestion ceiling. "memo" shares no characters and stays out.
	idx := buildTestIndex(t, &fakeStore{
		files: namedFiles("budget.xlsx", "budget.xlsx", "memo"),
	})

	result := idx.Search("bxdx", 0)
	if len(result.Hits) != 0 {
		t.Fatalf("expected zero hits, got %v", result.Hits)
	}
	if len(result.Suggestions) != 1 {
		t.Fatalf("suggestions = %v, want the one deduplicated budget name", result.Suggestions)
	}
	if result.Suggestions[0] != "budget.xlsx" {
		t.Errorf("suggestion = %q", result.Suggestions[0])
	}
}

func TestSuggestionCap(t *testing.T) {
	// Every name scores 0.5 against "abcd" (window "abzz", two
	// substitutions), so all 30 qualify as suggestions but only 8 surface.
	var names []string
	for i := 0; i < 30; i++ {
		names = append(names, fmt.Sprintf("abzz-%02d.zip", i))
	}
	idx := buildTestIndex(t, &fakeStore{files: namedFiles(names...)})

	result := idx.Search("abcd", 0)
	if len(result.Hits) != 0 {
		t.Fatalf("expected zero hits, got %d", len(result.Hits))
	}
	if len(result.Suggestions) != 8 {
		t.Errorf("%d suggestions, want 8", len(result.Suggestions))
	}
}

func TestHitCarriesBackingDocument(t *testing.T) {
	idx := buildTestIndex(t, &fakeStore{
		files: []models.FileDocument{{ID: "doc-7", Name: "ledger.xlsx", Size: 42}},
	})

	result := idx.Search("ledger", 0)
	if len(result.Hits) == 0 {
		t.Fatal("no hits")
	}
	hit := result.Hits[0]
	if hit.File == nil || hit.File.ID != "doc-7" || hit.File.Size != 42 {
		t.Errorf("hit document = %+v", hit.File)
	}
	if hit.Folder != nil {
		t.Error("file hit carries folder document")
	}
}
