package ghimport

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-github/v68/github"
)

// mockRepoLister serves canned pages of repositories.
type mockRepoLister struct {
	pages [][]*github.Repository
	calls int
	err   error
}

func (m *mockRepoLister) ListByUser(ctx context.Context, user string, opts *github.RepositoryListByUserOptions) ([]*github.Repository, *github.Response, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	page := opts.Page
	if page == 0 {
		page = 1
	}
	m.calls++
	repos := m.pages[page-1]
	resp := &github.Response{}
	if page < len(m.pages) {
		resp.NextPage = page + 1
	}
	return repos, resp, nil
}

func repo(name, lang string, stars int, fork, archived bool) *github.Repository {
	return &github.Repository{
		Name:            github.Ptr(name),
		Description:     github.Ptr(name + " description"),
		Language:        github.Ptr(lang),
		HTMLURL:         github.Ptr("https://github.com/alice/" + name),
		StargazersCount: github.Ptr(stars),
		Fork:            github.Ptr(fork),
		Archived:        github.Ptr(archived),
	}
}

func TestFetchProjects(t *testing.T) {
	lister := &mockRepoLister{pages: [][]*github.Repository{
		{
			repo("sideproject", "Go", 12, false, false),
			repo("dotfiles", "Shell", 3, false, false),
			repo("forked-thing", "Go", 900, true, false),
			repo("old-blog", "Ruby", 40, false, true),
		},
		{
			repo("popular-lib", "Go", 250, false, false),
		},
	}}
	imp := New(context.Background(), Opts{Repos: lister})

	projects, err := imp.FetchProjects(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchProjects failed: %v", err)
	}
	if lister.calls != 2 {
		t.Errorf("expected pagination across 2 pages, got %d calls", lister.calls)
	}
	if len(projects) != 3 {
		t.Fatalf("expected 3 projects (forks and archived skipped), got %d", len(projects))
	}
	if projects[0].Name != "popular-lib" {
		t.Errorf("expected most-starred first, got %s", projects[0].Name)
	}
	if projects[0].Stars != 250 || projects[0].Language != "Go" {
		t.Errorf("unexpected project fields: %+v", projects[0])
	}
}

func TestFetchProjectsCap(t *testing.T) {
	var repos []*github.Repository
	for i := 0; i < 15; i++ {
		repos = append(repos, repo("r", "Go", i, false, false))
	}
	lister := &mockRepoLister{pages: [][]*github.Repository{repos}}
	imp := New(context.Background(), Opts{Repos: lister, MaxProjects: 5})

	projects, err := imp.FetchProjects(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchProjects failed: %v", err)
	}
	if len(projects) != 5 {
		t.Errorf("expected cap at 5 projects, got %d", len(projects))
	}
	if projects[0].Stars != 14 {
		t.Errorf("expected most-starred kept, got %d stars", projects[0].Stars)
	}
}

func TestFetchProjectsErrors(t *testing.T) {
	imp := New(context.Background(), Opts{Repos: &mockRepoLister{}})
	if _, err := imp.FetchProjects(context.Background(), ""); err == nil {
		t.Error("expected error for empty username")
	}

	imp = New(context.Background(), Opts{Repos: &mockRepoLister{err: errors.New("api down")}})
	if _, err := imp.FetchProjects(context.Background(), "alice"); err == nil {
		t.Error("expected error when API fails")
	}
}
