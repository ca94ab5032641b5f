// Package config holds the per-run options and the helpers that populate them
// from flags, the environment and an optional JSON defaults file.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// OrganizationSigil marks a target name as an organization rather than a user.
	OrganizationSigil = "@"

	DefaultPageSize    = 100
	MaxPageSize        = 100
	DefaultGitTimeout  = 10 * time.Minute
	DefaultHTTPTimeout = 30 * time.Second
)

// Options is the immutable configuration of one run.
type Options struct {
	// Username is the target login with the organization sigil stripped.
	Username     string
	Organization bool
	Token        string
	CloneBaseDir string

	Verbose         bool
	OmitUsername    bool
	IncludeArchived bool
	SaveJSON        bool

	PageSize    int
	GitTimeout  time.Duration
	HTTPTimeout time.Duration
}

// ParseTarget strips a leading "@" and reports whether the target is an organization.
func ParseTarget(raw string) (login string, organization bool) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, OrganizationSigil) {
		return strings.TrimPrefix(raw, OrganizationSigil), true
	}
	return raw, false
}

// Target returns the login as given on the command line, sigil included.
func (o Options) Target() string {
	if o.Organization {
		return OrganizationSigil + o.Username
	}
	return o.Username
}

// New builds Options for the given target and base directory, applying defaults.
func New(target, baseDir, token string) (Options, error) {
	login, org := ParseTarget(target)
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return Options{}, fmt.Errorf("failed to resolve clone directory %q: %w", baseDir, err)
	}
	opts := Options{
		Username:     login,
		Organization: org,
		Token:        token,
		CloneBaseDir: abs,
		PageSize:     DefaultPageSize,
		GitTimeout:   DefaultGitTimeout,
		HTTPTimeout:  DefaultHTTPTimeout,
	}
	return opts, nil
}

// Validate checks that the options can drive a run.
func (o Options) Validate() error {
	if o.Username == "" {
		return errors.New("target username or @organization must be set")
	}
	if strings.Contains(o.Username, "/") {
		return fmt.Errorf("invalid target %q: must be a user or organization login", o.Username)
	}
	if o.Token == "" {
		return errors.New("GitHub authentication token missing; set GITHUB_TOKEN or use --token")
	}
	if o.CloneBaseDir == "" || !filepath.IsAbs(o.CloneBaseDir) {
		return fmt.Errorf("clone directory must be an absolute path, got %q", o.CloneBaseDir)
	}
	if o.PageSize < 1 || o.PageSize > MaxPageSize {
		return fmt.Errorf("page size must be between 1 and %d, got %d", MaxPageSize, o.PageSize)
	}
	if o.GitTimeout <= 0 {
		return errors.New("git timeout must be positive")
	}
	if o.HTTPTimeout <= 0 {
		return errors.New("http timeout must be positive")
	}
	return nil
}
