package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileWriter implements Writer on the local file system.
type fileWriter struct {
	dir    string
	logger zerolog.Logger
}

// NewFileWriter creates a writer rooted at dir.
func NewFileWriter(dir string, logger zerolog.Logger) Writer {
	return &fileWriter{
		dir:    dir,
		logger: logger.With().Str("component", "file-archive").Logger(),
	}
}

// Write stores the report at dir/key, creating parent directories.
func (w *fileWriter) Write(ctx context.Context, key string, report any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		w.logger.Error().Err(err).Str("path", path).Msg("failed to create archive directory")
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		w.logger.Error().Err(err).Str("path", path).Msg("failed to create archive file")
		return "", fmt.Errorf("failed to create archive file %s: %w", path, err)
	}

	if err := encode(file, report); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close archive file %s: %w", path, err)
	}

	w.logger.Info().Str("path", path).Msg("report archived")

	return path, nil
}
