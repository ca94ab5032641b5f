package usecase

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/naka-gawa/github-backup/internal/config"
	"github.com/naka-gawa/github-backup/internal/domain"
)

// DumpPath returns where the fetched listing is saved for opts.
func DumpPath(opts config.Options) string {
	return filepath.Join(opts.CloneBaseDir, opts.Username+"-repositories.json")
}

// SaveRepositories writes repos as indented JSON to DumpPath(opts).
func SaveRepositories(repos []domain.Repository, opts config.Options) (string, error) {
	path := DumpPath(opts)
	data, err := json.MarshalIndent(repos, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode repositories: %w", err)
	}
	if err := os.MkdirAll(opts.CloneBaseDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", opts.CloneBaseDir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
