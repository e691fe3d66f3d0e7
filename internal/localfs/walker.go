// Package localfs turns local directory trees into upload batches.
package localfs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/driveport/driveport/internal/upload"
)

// WalkOptions configures CollectBatch.
type WalkOptions struct {
	// IncludeHidden includes dot-files and descends into dot-directories.
	// Default is false, matching what a web folder picker would surface.
	IncludeHidden bool

	// FollowSymlinks resolves symlinked files. Symlinks are skipped by
	// default so a cyclic link cannot wedge the walk.
	FollowSymlinks bool
}

// CollectBatch walks root and returns one upload.File per regular file. Each
// file carries a relative path rooted at root's base name with "/" separators
// regardless of platform, mirroring how a browser folder selection names
// files. The returned batch always has at least one directory segment per
// path, so it is valid folder-structure input.
func CollectBatch(root string, opts WalkOptions) ([]upload.File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	rootName := filepath.Base(absRoot)
	var batch []upload.File

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if !opts.IncludeHidden && IsHiddenName(name) && path != absRoot {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 && !opts.FollowSymlinks {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		if !fi.Mode().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		relPath := rootName + "/" + filepath.ToSlash(rel)

		filePath := path
		batch = append(batch, upload.File{
			Name:         name,
			RelativePath: relPath,
			Size:         fi.Size(),
			Open: func() (io.ReadCloser, error) {
				return os.Open(filePath)
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return batch, nil
}

// LooseFile builds an upload.File for a single path with no folder structure.
func LooseFile(path string) (upload.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return upload.File{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return upload.File{}, fmt.Errorf("%s is a directory, not a file", path)
	}

	filePath := path
	return upload.File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(filePath)
		},
	}, nil
}

// RelativePaths extracts the relative paths of a batch, in order. Input to
// folder resolution.
func RelativePaths(batch []upload.File) []string {
	paths := make([]string, len(batch))
	for i, f := range batch {
		paths[i] = f.RelativePath
	}
	return paths
}

// TotalSize sums the batch's byte sizes.
func TotalSize(batch []upload.File) int64 {
	var total int64
	for _, f := range batch {
		total += f.Size
	}
	return total
}

// IsHidden reports whether the path's base name is a dot-file.
func IsHidden(path string) bool {
	return IsHiddenName(filepath.Base(path))
}

// IsHiddenName reports whether a bare name is a dot-file. "." and ".." are
// directory references, not hidden entries.
func IsHiddenName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
