package qrcode

import (
	"context"
	"os"
	"path/filepath"

	"justonemore/internal/types"
)

// FileLabelStore renders dish labels as PNG files under a directory, one
// file per dish id.
type FileLabelStore struct {
	dir string
}

func NewFileLabelStore(dir string) (*FileLabelStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileLabelStore{dir: dir}, nil
}

// WriteLabel renders the payload and returns the path of the written file.
func (s *FileLabelStore) WriteLabel(_ context.Context, dishID types.ID, payload string) (string, error) {
	png, err := Render(payload)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, string(dishID)+".png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
