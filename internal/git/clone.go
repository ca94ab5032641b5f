package git

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/naka-gawa/github-backup/internal/domain"
)

// CloneStatus is the successful outcome of a clone attempt.
type CloneStatus int

const (
	CloneCloned CloneStatus = iota
	CloneAlreadyPresent
)

func (s CloneStatus) String() string {
	switch s {
	case CloneCloned:
		return "cloned"
	case CloneAlreadyPresent:
		return "already present"
	default:
		return fmt.Sprintf("CloneStatus(%d)", int(s))
	}
}

// mkdirAll is a variable so it can be mocked in tests
var mkdirAll = os.MkdirAll

// Cloner clones repositories over SSH into category directories.
type Cloner struct {
	runner Runner
	logger *log.Logger
}

// NewCloner creates a Cloner that runs git through runner.
func NewCloner(runner Runner, logger *log.Logger) *Cloner {
	return &Cloner{runner: runner, logger: logger}
}

// Clone makes sure clonePath exists and clones repo into clonePath/<name>.
// A working copy that is already there counts as success.
func (c *Cloner) Clone(ctx context.Context, repo domain.Repository, clonePath string) (CloneStatus, error) {
	if err := mkdirAll(clonePath, 0o755); err != nil {
		return 0, domain.NewOperationError("clone", repo.FullName,
			fmt.Errorf("%w: creating %s: %w", domain.ErrCloneFailed, clonePath, err))
	}

	c.logger.Printf("Cloning %s into %s", repo.FullName, clonePath)
	res, err := c.runner.Run(ctx, clonePath, "clone", repo.SSHURL)
	if err == nil {
		return CloneCloned, nil
	}
	if res != nil && IsAlreadyCloned(res.Stderr) {
		c.logger.Printf("%s: %v", repo.FullName, domain.ErrCloneConflict)
		return CloneAlreadyPresent, nil
	}
	return 0, domain.NewOperationError("clone", repo.FullName, fmt.Errorf("%w: %w", domain.ErrCloneFailed, err))
}

// WorkingCopy returns the directory git clone creates for repo under clonePath.
func WorkingCopy(clonePath string, repo domain.Repository) string {
	return filepath.Join(clonePath, repo.Name)
}
