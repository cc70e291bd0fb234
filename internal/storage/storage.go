// Package storage persists uploaded files and hands back absolute URLs.
// The local backend mirrors the /uploads layout the front end expects;
// the s3 backend keeps the same key layout inside a bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload subdirectories, one per resource type
const (
	DirReports         = "reports"
	DirRescued         = "rescued"
	DirAdoption        = "adoption"
	DirAdoptionMedical = "adoption/medical"
	DirAdoptionVideos  = "adoption/videos"
	DirProfiles        = "profiles"
)

// Store saves an uploaded file under dir and returns its public URL
type Store interface {
	Save(ctx context.Context, dir, origName, contentType string, r io.Reader) (string, error)
}

// ObjectName builds a collision-free stored name, keeping only the
// original extension
func ObjectName(origName string) string {
	ext := strings.ToLower(filepath.Ext(origName))
	if len(ext) > 10 {
		ext = ""
	}
	return uuid.New().String() + ext
}

// LocalStore writes uploads to a directory on disk. The directory is
// expected to be served statically under baseURL/uploads/.
type LocalStore struct {
	baseDir string
	baseURL string
}

// NewLocalStore creates a local store rooted at baseDir
func NewLocalStore(baseDir, baseURL string) *LocalStore {
	return &LocalStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Save writes the file and returns its absolute URL
func (s *LocalStore) Save(ctx context.Context, dir, origName, contentType string, r io.Reader) (string, error) {
	name := ObjectName(origName)

	targetDir := filepath.Join(s.baseDir, filepath.FromSlash(dir))
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(filepath.Join(targetDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return s.baseURL + "/uploads/" + path.Join(dir, name), nil
}
