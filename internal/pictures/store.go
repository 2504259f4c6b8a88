package pictures

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ThumbSize is the square edge of generated thumbnails.
const ThumbSize = 90

// Store persists uploaded images and their thumbnails on local disk.
type Store struct {
	dir string
}

// NewStore ensures the picture directory exists.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create picture directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save decodes the upload, writes the original under a fresh UUID name, and
// writes a 90x90 thumbnail alongside it. Both stored paths are returned.
func (s *Store) Save(r io.Reader, filename string) (string, string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".png" {
		ext = ".jpg"
	}
	name := uuid.New().String()
	origPath := filepath.Join(s.dir, name+ext)
	thumbPath := filepath.Join(s.dir, name+"_thumb"+ext)

	if err := imaging.Save(img, origPath); err != nil {
		return "", "", fmt.Errorf("failed to save image: %w", err)
	}

	thumb := imaging.Thumbnail(img, ThumbSize, ThumbSize, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		os.Remove(origPath)
		return "", "", fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return origPath, thumbPath, nil
}

// Remove deletes a stored image pair, ignoring files already gone.
func (s *Store) Remove(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			continue
		}
	}
}
