package textsource

import (
	"context"
	"fmt"
	"os"

	"github.com/verte-zerg/retype/internal/session"
)

// File loads a text from a path; the path is the text ID.
type File struct{}

// Get reads the file at path.
func (File) Get(_ context.Context, path string) (*session.Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	text, err := session.NewText(string(data), path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return text, nil
}

// Random is not supported for files.
func (File) Random(context.Context, int) (*session.Text, error) {
	return nil, fmt.Errorf("random text from file: %w", ErrUnsupported)
}

// Offset is not supported for files.
func (File) Offset(context.Context, string, int) (*session.Text, error) {
	return nil, fmt.Errorf("switching text from file: %w", ErrUnsupported)
}
