package gateway

import (
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/github-backup/internal/domain"
)

// repositoryNode is one repository as selected by both listing queries.
type repositoryNode struct {
	NameWithOwner string
	SSHURL        string `graphql:"sshUrl"`
	IsFork        bool
	IsTemplate    bool
	IsArchived    bool
	Parent        *struct {
		SSHURL string `graphql:"sshUrl"`
	}
}

// repositoryConnection and the objects above it are pointers so that a field
// missing from the response stays nil instead of decoding to an empty page.
type repositoryConnection struct {
	PageInfo *struct {
		HasNextPage bool
		EndCursor   githubv4.String
	}
	Nodes []repositoryNode
}

// listingQuery is a query struct that exposes the repository connection it selects.
// connection returns nil when the owner or its repositories were absent.
type listingQuery interface {
	connection() *repositoryConnection
}

// userReposQuery lists repositories the user owns, collaborates on or can see
// through organization membership.
type userReposQuery struct {
	User *struct {
		Repositories *repositoryConnection `graphql:"repositories(first: $first, after: $cursor, ownerAffiliations: [OWNER, COLLABORATOR, ORGANIZATION_MEMBER])"`
	} `graphql:"user(login: $login)"`
}

func (q *userReposQuery) connection() *repositoryConnection {
	if q.User == nil {
		return nil
	}
	return q.User.Repositories
}

// orgReposQuery lists every repository of an organization.
type orgReposQuery struct {
	Organization *struct {
		Repositories *repositoryConnection `graphql:"repositories(first: $first, after: $cursor)"`
	} `graphql:"organization(login: $login)"`
}

func (q *orgReposQuery) connection() *repositoryConnection {
	if q.Organization == nil {
		return nil
	}
	return q.Organization.Repositories
}

// newListingQuery returns an empty query for one page of the listing.
func newListingQuery(organization bool) listingQuery {
	if organization {
		return &orgReposQuery{}
	}
	return &userReposQuery{}
}

func normalize(nodes []repositoryNode) ([]domain.Repository, error) {
	repos := make([]domain.Repository, 0, len(nodes))
	for i, n := range nodes {
		owner, name, err := domain.SplitFullName(n.NameWithOwner)
		if err != nil {
			return nil, fmt.Errorf("repository #%d: %w", i+1, err)
		}
		if n.SSHURL == "" {
			return nil, fmt.Errorf("%w: repository %s has no ssh URL", domain.ErrMalformedResponse, n.NameWithOwner)
		}

		repo := domain.Repository{
			FullName:   n.NameWithOwner,
			Owner:      owner,
			Name:       name,
			IsFork:     n.IsFork,
			IsTemplate: n.IsTemplate,
			Archived:   n.IsArchived,
			SSHURL:     n.SSHURL,
		}
		if n.IsFork && n.Parent != nil && n.Parent.SSHURL != "" {
			parent := n.Parent.SSHURL
			repo.ParentSSHURL = &parent
		}
		repos = append(repos, repo)
	}
	return repos, nil
}
