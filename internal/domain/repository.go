// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"strings"
)

// Category is the local directory bucket a repository is cloned into.
type Category string

const (
	CategoryTemplates    Category = "templates"
	CategoryFork         Category = "fork"
	CategoryMine         Category = "mine"
	CategoryContributing Category = "contributing"
)

// Repository is the canonical descriptor of a repository returned by the listing API.
// It is the core domain entity of this application.
type Repository struct {
	FullName   string `json:"full_name"`
	Owner      string `json:"owner"`
	Name       string `json:"name"`
	IsFork     bool   `json:"fork"`
	IsTemplate bool   `json:"template"`
	Archived   bool   `json:"archived"`
	SSHURL     string `json:"ssh_url"`
	// ParentSSHURL is set only for forks whose parent the API could resolve.
	ParentSSHURL *string `json:"parent_ssh_url,omitempty"`
}

// SplitFullName splits "owner/name" on the first slash.
func SplitFullName(fullName string) (owner, name string, err error) {
	owner, name, found := strings.Cut(fullName, "/")
	if !found || owner == "" || name == "" {
		return "", "", fmt.Errorf("%w: invalid repository name %q (expected owner/name)", ErrMalformedResponse, fullName)
	}
	return owner, name, nil
}

// HasParent reports whether the repository is a fork with a known parent.
func (r Repository) HasParent() bool {
	return r.IsFork && r.ParentSSHURL != nil && *r.ParentSSHURL != ""
}
