package uploads

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Store keeps uploaded mood images on local disk just long enough for
// the prediction process to read them by path. Files are removed
// best-effort once inference finishes, success or failure.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Store{dir: abs}, nil
}

// Save writes the uploaded content under a timestamped name derived
// from the original filename's extension and returns the absolute path.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	name := fmt.Sprintf("mood_image_%d%s", time.Now().UnixNano(), filepath.Ext(originalName))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("save upload: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path, nil
}

// Remove deletes a previously saved upload. Failures are logged, never
// surfaced: the response must not depend on cleanup.
func (s *Store) Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("uploads: failed to delete %s: %v", path, err)
	}
}

// Dir returns the absolute upload directory.
func (s *Store) Dir() string {
	return s.dir
}
