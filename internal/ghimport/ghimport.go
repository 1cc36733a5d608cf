// Package ghimport pulls a candidate's public GitHub projects so the
// resume tailor can cite real work.
package ghimport

import (
	"context"
	"fmt"
	"sort"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/agents"
	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// defaultMaxProjects caps how many repositories are offered to the tailor.
const defaultMaxProjects = 10

// repoLister abstracts the go-github methods we use, enabling test mocks.
type repoLister interface {
	ListByUser(ctx context.Context, user string, opts *github.RepositoryListByUserOptions) ([]*github.Repository, *github.Response, error)
}

// Importer fetches repositories for a GitHub user.
type Importer struct {
	repos       repoLister
	maxProjects int
}

// Opts holds parameters for creating an Importer.
type Opts struct {
	Token       string // personal access token; empty for anonymous access
	MaxProjects int    // 0 means defaultMaxProjects
	// For testing: inject a mock lister instead of the real API.
	Repos repoLister
}

// New creates an Importer. With a token it authenticates via OAuth2,
// which raises the API rate limit.
func New(ctx context.Context, opts Opts) *Importer {
	imp := &Importer{repos: opts.Repos, maxProjects: opts.MaxProjects}
	if imp.maxProjects <= 0 {
		imp.maxProjects = defaultMaxProjects
	}
	if imp.repos == nil {
		var client *github.Client
		if opts.Token != "" {
			ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
			client = github.NewClient(oauth2.NewClient(ctx, ts))
		} else {
			client = github.NewClient(nil)
		}
		imp.repos = client.Repositories
	}
	return imp
}

// FetchProjects returns the user's non-fork repositories as resume
// projects, most-starred first, capped at the configured maximum.
func (i *Importer) FetchProjects(ctx context.Context, username string) ([]agents.Project, error) {
	if username == "" {
		return nil, fmt.Errorf("ghimport: username is required")
	}

	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var projects []agents.Project
	for {
		repos, resp, err := i.repos.ListByUser(ctx, username, opts)
		if err != nil {
			return nil, fmt.Errorf("ghimport: list repositories for %s: %w", username, err)
		}
		for _, r := range repos {
			if r.GetFork() || r.GetArchived() {
				continue
			}
			projects = append(projects, agents.Project{
				Name:        r.GetName(),
				Description: r.GetDescription(),
				Language:    r.GetLanguage(),
				URL:         r.GetHTMLURL(),
				Stars:       r.GetStargazersCount(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	sort.SliceStable(projects, func(a, b int) bool {
		return projects[a].Stars > projects[b].Stars
	})
	if len(projects) > i.maxProjects {
		projects = projects[:i.maxProjects]
	}
	return projects, nil
}
