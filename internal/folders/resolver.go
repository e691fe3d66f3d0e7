// Package folders reconstructs remote folder hierarchy from the relative
// paths of a file batch.
package folders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/driveport/driveport/internal/logging"
	"github.com/driveport/driveport/internal/models"
)

// ErrLooseRootFiles is returned when a folder-structure batch contains files
// with no directory component. The web folder picker never produces these, so
// their presence means an invalid selection.
var ErrLooseRootFiles = errors.New("folder upload contains root-level files")

// FolderCreator persists one folder record and returns its server ID.
type FolderCreator interface {
	CreateFolderDocument(ctx context.Context, doc *models.FolderDocument) (string, error)
}

// Resolver creates the folder records a batch needs and maps each relative
// directory path to its remote ID.
type Resolver struct {
	creator FolderCreator
	logger  *logging.Logger
}

// NewResolver creates a resolver backed by the given folder creator.
func NewResolver(creator FolderCreator, logger *logging.Logger) *Resolver {
	return &Resolver{creator: creator, logger: logger}
}

// ValidateBatch checks that every relative path carries at least one
// directory segment.
func ValidateBatch(relPaths []string) error {
	for _, p := range relPaths {
		if !strings.Contains(strings.Trim(p, "/"), "/") {
			return fmt.Errorf("%w: %q", ErrLooseRootFiles, p)
		}
	}
	return nil
}

// AncestorPaths returns every unique directory prefix appearing in the
// batch, sorted lexically. Path segments are "/"-delimited, so a parent is
// always a strict prefix of its children and sorts before them.
func AncestorPaths(relPaths []string) []string {
	seen := make(map[string]struct{})
	for _, p := range relPaths {
		segments := strings.Split(strings.Trim(p, "/"), "/")
		for i := 1; i < len(segments); i++ {
			seen[strings.Join(segments[:i], "/")] = struct{}{}
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Resolve creates one folder record per unique ancestor directory path, in
// parent-before-child order, and returns the path to remote ID mapping.
// Creation is sequential; the first failure aborts the rest and fails the
// whole batch.
func (r *Resolver) Resolve(ctx context.Context, relPaths []string, ownerID, accountID string) (map[string]string, error) {
	if err := ValidateBatch(relPaths); err != nil {
		return nil, err
	}

	paths := AncestorPaths(relPaths)
	folderMap := make(map[string]string, len(paths))

	for _, path := range paths {
		segments := strings.Split(path, "/")
		name := segments[len(segments)-1]

		id, err := r.creator.CreateFolderDocument(ctx, &models.FolderDocument{
			Name:      name,
			OwnerID:   ownerID,
			AccountID: accountID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create folder %q: %w", path, err)
		}

		folderMap[path] = id
		r.logger.Debug().Str("path", path).Str("folder_id", id).Msg("Folder created")
	}

	return folderMap, nil
}

// FolderIDFor returns the remote ID of the directory containing relPath, or
// the empty string for a root-level file.
func FolderIDFor(relPath string, folderMap map[string]string) string {
	trimmed := strings.Trim(relPath, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return ""
	}
	return folderMap[trimmed[:idx]]
}
