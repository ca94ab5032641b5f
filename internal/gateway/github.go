// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-backup/internal/config"
	"github.com/naka-gawa/github-backup/internal/domain"
)

// Lister defines the behavior of a gateway for listing repositories on GitHub.
type Lister interface {
	FetchRepositories(ctx context.Context, opts config.Options) ([]domain.Repository, error)
}

// GitHubGateway is the concrete implementation of the Lister interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, timeout time.Duration, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchRepositories walks every page of the target's repository listing and
// returns the normalized descriptors in the order the API returned them.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, opts config.Options) ([]domain.Repository, error) {
	g.logger.Printf("Fetching information about all the repositories for %q", opts.Target())

	if err := g.checkCredentials(ctx); err != nil {
		return nil, err
	}

	variables := map[string]interface{}{
		"login":  githubv4.String(opts.Username),
		"first":  githubv4.Int(opts.PageSize),
		"cursor": (*githubv4.String)(nil),
	}

	var nodes []repositoryNode
	for page := 1; ; page++ {
		q := newListingQuery(opts.Organization)
		if err := g.graphqlClient.Query(ctx, q, variables); err != nil {
			return nil, classifyQueryError(err)
		}
		conn := q.connection()
		if conn == nil {
			return nil, fmt.Errorf("%w: page %d has no repository listing for %q", domain.ErrMalformedResponse, page, opts.Target())
		}
		if conn.PageInfo == nil {
			return nil, fmt.Errorf("%w: page %d has no page info", domain.ErrMalformedResponse, page)
		}
		nodes = append(nodes, conn.Nodes...)
		g.logger.Printf("  Received page %d with %d repositories", page, len(conn.Nodes))

		if !conn.PageInfo.HasNextPage {
			break
		}
		if conn.PageInfo.EndCursor == "" {
			return nil, fmt.Errorf("%w: page %d has more results but no end cursor", domain.ErrMalformedResponse, page)
		}
		variables["cursor"] = githubv4.NewString(conn.PageInfo.EndCursor)
	}

	repos, err := normalize(nodes)
	if err != nil {
		return nil, err
	}
	g.logger.Printf("Completed fetching %d repositories.", len(repos))
	return repos, nil
}

// checkCredentials asks the REST API for the authenticated user so that a
// rejected token is reported as such instead of as a generic query failure.
func (g *GitHubGateway) checkCredentials(ctx context.Context) error {
	user, _, err := g.restClient.Users.Get(ctx, "")
	if err != nil {
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
		}
		return fmt.Errorf("%w: failed to verify credentials: %v", domain.ErrNetwork, err)
	}
	g.logger.Printf("Authenticated as %s", user.GetLogin())
	return nil
}

func classifyQueryError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "401 Unauthorized") || strings.Contains(msg, "Bad credentials") {
		return fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	return fmt.Errorf("%w: failed to execute GraphQL query for repositories: %v", domain.ErrNetwork, err)
}
