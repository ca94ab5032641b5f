package git

import (
	"context"
	"errors"
	"fmt"
	"log"

	gogit "github.com/go-git/go-git/v5"

	"github.com/naka-gawa/github-backup/internal/domain"
)

// UpstreamRemote is the name of the remote pointing at a fork's parent.
const UpstreamRemote = "upstream"

// LinkStatus is the successful outcome of adding a remote.
type LinkStatus int

const (
	LinkAdded LinkStatus = iota
	LinkAlreadyPresent
)

func (s LinkStatus) String() string {
	switch s {
	case LinkAdded:
		return "added"
	case LinkAlreadyPresent:
		return "already present"
	default:
		return fmt.Sprintf("LinkStatus(%d)", int(s))
	}
}

// Linker registers parent remotes on cloned forks.
type Linker struct {
	runner Runner
	logger *log.Logger
}

// NewLinker creates a Linker that runs git through runner.
func NewLinker(runner Runner, logger *log.Logger) *Linker {
	return &Linker{runner: runner, logger: logger}
}

// LinkUpstream adds remoteName -> remoteURL to the working copy at forkPath.
// An existing remote of the same name counts as success.
func (l *Linker) LinkUpstream(ctx context.Context, repo domain.Repository, forkPath, remoteName, remoteURL string) (LinkStatus, error) {
	exists, err := hasRemote(forkPath, remoteName)
	switch {
	case err != nil:
		l.logger.Printf("Could not inspect remotes of %s: %v", forkPath, err)
	case exists:
		l.logger.Printf("%s: %v: %s", repo.FullName, domain.ErrRemoteExists, remoteName)
		return LinkAlreadyPresent, nil
	}

	l.logger.Printf("Adding remote %s -> %s to %s", remoteName, remoteURL, repo.FullName)
	res, err := l.runner.Run(ctx, forkPath, "remote", "add", remoteName, remoteURL)
	if err == nil {
		return LinkAdded, nil
	}
	if res != nil && IsRemoteExists(res.Stderr, remoteName) {
		l.logger.Printf("%s: %v: %s", repo.FullName, domain.ErrRemoteExists, remoteName)
		return LinkAlreadyPresent, nil
	}
	return 0, domain.NewOperationError("add remote", repo.FullName, fmt.Errorf("%w: %w", domain.ErrRemoteAddFailed, err))
}

// hasRemote opens the working copy with go-git and looks the remote up by name.
func hasRemote(path, name string) (bool, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return false, err
	}
	if _, err := repo.Remote(name); err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
