package usecase

import (
	"path/filepath"

	"github.com/naka-gawa/github-backup/internal/config"
	"github.com/naka-gawa/github-backup/internal/domain"
)

// Classify assigns repo to exactly one category. Templates win over forks,
// forks win over ownership. Ownership compares logins case-sensitively.
func Classify(repo domain.Repository, opts config.Options) domain.Category {
	switch {
	case repo.IsTemplate:
		return domain.CategoryTemplates
	case repo.IsFork:
		return domain.CategoryFork
	case repo.Owner == opts.Username:
		return domain.CategoryMine
	default:
		return domain.CategoryContributing
	}
}

// ClonePath returns the directory repositories of category are cloned into.
func ClonePath(category domain.Category, opts config.Options) string {
	if opts.OmitUsername {
		return filepath.Join(opts.CloneBaseDir, string(category))
	}
	return filepath.Join(opts.CloneBaseDir, opts.Username, string(category))
}

// FilterArchived drops archived repositories unless includeArchived is set.
// Order is preserved.
func FilterArchived(repos []domain.Repository, includeArchived bool) []domain.Repository {
	if includeArchived {
		return repos
	}
	kept := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		if !repo.Archived {
			kept = append(kept, repo)
		}
	}
	return kept
}
