// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/naka-gawa/github-backup/internal/config"
	"github.com/naka-gawa/github-backup/internal/domain"
	"github.com/naka-gawa/github-backup/internal/gateway"
	"github.com/naka-gawa/github-backup/internal/git"
	"github.com/naka-gawa/github-backup/internal/progress"
)

// Cloner clones one repository into a category directory.
type Cloner interface {
	Clone(ctx context.Context, repo domain.Repository, clonePath string) (git.CloneStatus, error)
}

// Linker adds a remote to a cloned working copy.
type Linker interface {
	LinkUpstream(ctx context.Context, repo domain.Repository, forkPath, remoteName, remoteURL string) (git.LinkStatus, error)
}

// Backup is the use case for mirroring an account's repositories locally.
// It fetches the listing once and then processes every repository in order.
type Backup struct {
	lister  gateway.Lister
	cloner  Cloner
	linker  Linker
	tracker progress.Tracker
	logger  *log.Logger
	errLog  *log.Logger
	now     func() time.Time
}

// NewBackup creates a new Backup instance. logger receives verbose output,
// errLog receives per-repository failures and is always shown.
func NewBackup(lister gateway.Lister, cloner Cloner, linker Linker, tracker progress.Tracker, logger, errLog *log.Logger) *Backup {
	return &Backup{
		lister:  lister,
		cloner:  cloner,
		linker:  linker,
		tracker: tracker,
		logger:  logger,
		errLog:  errLog,
		now:     time.Now,
	}
}

// Run performs the backup. Only a failed listing is returned as an error;
// per-repository failures are logged and counted in the summary.
func (b *Backup) Run(ctx context.Context, opts config.Options) (*Summary, error) {
	repos, err := b.lister.FetchRepositories(ctx, opts)
	if err != nil {
		return nil, err
	}

	fetched := len(repos)
	repos = FilterArchived(repos, opts.IncludeArchived)
	if skipped := fetched - len(repos); skipped > 0 {
		b.logger.Printf("Skipping %d archived repositories", skipped)
	}

	if opts.SaveJSON {
		path, err := SaveRepositories(repos, opts)
		if err != nil {
			b.errLog.Printf("Error: %v", err)
		} else {
			b.logger.Printf("Saved repository list to %s", path)
		}
	}

	summary := &Summary{Total: len(repos)}
	// Each repository is two steps: the clone and the remote setup.
	b.tracker.Start(fmt.Sprintf("Processing %d repositories", len(repos)), len(repos)*2)
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			b.errLog.Printf("Stopping before %s: %v", repo.FullName, err)
			summary.Interrupted = true
			break
		}
		b.process(ctx, repo, opts, summary)
	}
	b.tracker.Complete()

	b.logger.Println(summary.String())
	return summary, nil
}

func (b *Backup) process(ctx context.Context, repo domain.Repository, opts config.Options, summary *Summary) {
	category := Classify(repo, opts)
	clonePath := ClonePath(category, opts)
	b.logger.Printf("%s -> %s", repo.FullName, category)

	start := b.now()
	status, err := b.cloner.Clone(ctx, repo, clonePath)
	b.tracker.Tick()
	if err != nil {
		summary.Failed++
		b.errLog.Printf("Error: %v", err)
		b.tracker.Tick()
		return
	}
	switch status {
	case git.CloneCloned:
		summary.Cloned++
		summary.CloneDurations = append(summary.CloneDurations, b.now().Sub(start))
	case git.CloneAlreadyPresent:
		summary.AlreadyPresent++
	}

	defer b.tracker.Tick()
	if !repo.IsFork {
		return
	}
	if !repo.HasParent() {
		summary.Skipped++
		b.logger.Printf("%s is a fork without a known parent, not adding %s", repo.FullName, git.UpstreamRemote)
		return
	}

	forkPath := git.WorkingCopy(clonePath, repo)
	if _, err := b.linker.LinkUpstream(ctx, repo, forkPath, git.UpstreamRemote, *repo.ParentSSHURL); err != nil {
		summary.LinkFailed++
		b.errLog.Printf("Error: %v", err)
		return
	}
	summary.Linked++
}
