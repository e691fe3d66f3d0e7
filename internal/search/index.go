package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/driveport/driveport/internal/constants"
	"github.com/driveport/driveport/internal/models"
)

// Kind distinguishes what an index entry points at.
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// Store fetches the searchable collections. Implemented by the api client.
type Store interface {
	FetchAllFiles(ctx context.Context, ownerID, email string) ([]models.FileDocument, error)
	FetchAllFolders(ctx context.Context, ownerID string) ([]models.FolderDocument, error)
}

// entry is one searchable name with its backing document.
type entry struct {
	name   string
	kind   Kind
	file   *models.FileDocument
	folder *models.FolderDocument
}

// Hit is one ranked match. Exactly one of File or Folder is set, matching
// Kind. Lower scores are better.
type Hit struct {
	Kind   Kind
	Name   string
	Score  float64
	File   *models.FileDocument
	Folder *models.FolderDocument
}

// Result is the outcome of one search pass. Suggestions is populated only
// when no hit clears the match threshold.
type Result struct {
	Hits        []Hit
	Suggestions []string
}

// Index holds a snapshot of the user's files and folders for matching. It is
// rebuilt per search, so staleness is bounded by one request.
type Index struct {
	entries []entry
}

// BuildIndex fetches the complete accessible collections, files before
// folders, which also fixes the tie-break order for equal scores.
func BuildIndex(ctx context.Context, store Store, user models.User) (*Index, error) {
	files, err := store.FetchAllFiles(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch files for search: %w", err)
	}
	folders, err := store.FetchAllFolders(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch folders for search: %w", err)
	}

	idx := &Index{entries: make([]entry, 0, len(files)+len(folders))}
	for i := range files {
		idx.entries = append(idx.entries, entry{name: files[i].Name, kind: KindFile, file: &files[i]})
	}
	for i := range folders {
		idx.entries = append(idx.entries, entry{name: folders[i].Name, kind: KindFolder, folder: &folders[i]})
	}
	return idx, nil
}

// Len returns the number of indexed items.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Search scores every entry against the query and returns the best hits in
// ascending score order, capped at limit. When nothing clears the threshold,
// up to eight deduplicated names from the best near-misses come back as
// suggestions.
func (idx *Index) Search(query string, limit int) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Hits: []Hit{}, Suggestions: []string{}}
	}
	if limit <= 0 {
		limit = constants.DefaultSearchLimit
	}

	type scored struct {
		entry entry
		score float64
		order int
	}

	all := make([]scored, 0, len(idx.entries))
	for i, e := range idx.entries {
		all = append(all, scored{entry: e, score: score(query, e.name), order: i})
	}

	sort.SliceStable(all, func(a, b int) bool {
		if all[a].score != all[b].score {
			return all[a].score < all[b].score
		}
		return all[a].order < all[b].order
	})

	hits := make([]Hit, 0, limit)
	for _, s := range all {
		if s.score > constants.SearchThreshold {
			break
		}
		hits = append(hits, Hit{
			Kind:   s.entry.kind,
			Name:   s.entry.name,
			Score:  s.score,
			File:   s.entry.file,
			Folder: s.entry.folder,
		})
		if len(hits) == limit {
			break
		}
	}

	if len(hits) > 0 {
		return Result{Hits: hits, Suggestions: []string{}}
	}

	suggestions := make([]string, 0, constants.MaxSuggestions)
	seen := make(map[string]struct{})
	for _, s := range all {
		if s.score > constants.SuggestionCeiling {
			break
		}
		key := strings.ToLower(s.entry.name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, s.entry.name)
		if len(suggestions) == constants.MaxSuggestions {
			break
		}
	}

	return Result{Hits: []Hit{}, Suggestions: suggestions}
}
