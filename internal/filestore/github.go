package filestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

// GitHubConfig targets one repository branch through the contents API.
type GitHubConfig struct {
	Token  string
	Owner  string
	Repo   string
	Branch string

	// BaseURL overrides https://api.github.com/ (GitHub Enterprise, tests).
	BaseURL string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

type GitHubStore struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

func NewGitHubStore(cfg GitHubConfig) (*GitHubStore, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, errors.New("github owner and repo are required")
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}

	client := github.NewClient(cfg.HTTPClient)
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github base url: %w", err)
		}
		client.BaseURL = u
	}

	return &GitHubStore{client: client, owner: cfg.Owner, repo: cfg.Repo, branch: cfg.Branch}, nil
}

func statusOf(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

func (g *GitHubStore) getOptions() *github.RepositoryContentGetOptions {
	return &github.RepositoryContentGetOptions{Ref: g.branch}
}

// currentSHA returns the blob sha of path, or "" when it does not exist.
func (g *GitHubStore) currentSHA(ctx context.Context, path string) (string, error) {
	file, _, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, path, g.getOptions())
	if err != nil {
		if statusOf(resp) == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("github stat %s: %w", path, err)
	}
	if file == nil {
		return "", fmt.Errorf("github stat %s: path is a directory", path)
	}
	return file.GetSHA(), nil
}

func (g *GitHubStore) Read(ctx context.Context, path string) (*File, error) {
	path = cleanPrefix(path)

	file, _, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, path, g.getOptions())
	if err != nil {
		if statusOf(resp) == http.StatusNotFound {
			return nil, notFound("github read", path)
		}
		return nil, fmt.Errorf("github read %s: %w", path, err)
	}
	if file == nil {
		return nil, notFound("github read", path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("github decode %s: %w", path, err)
	}

	return &File{Path: path, Content: content, Hash: file.GetSHA()}, nil
}

func (g *GitHubStore) Write(ctx context.Context, path, content, message string) error {
	path = cleanPrefix(path)

	sha, err := g.currentSHA(ctx, path)
	if err != nil {
		return err
	}
	return g.put(ctx, path, content, message, sha)
}

func (g *GitHubStore) WriteIfMatch(ctx context.Context, path, content, message, hash string) error {
	return g.put(ctx, cleanPrefix(path), content, message, hash)
}

func (g *GitHubStore) put(ctx context.Context, path, content, message, sha string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: []byte(content),
		Branch:  github.String(g.branch),
	}

	var (
		resp *github.Response
		err  error
	)
	if sha == "" {
		_, resp, err = g.client.Repositories.CreateFile(ctx, g.owner, g.repo, path, opts)
	} else {
		opts.SHA = github.String(sha)
		_, resp, err = g.client.Repositories.UpdateFile(ctx, g.owner, g.repo, path, opts)
	}
	if err != nil {
		switch statusOf(resp) {
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return conflict("github write", path)
		}
		return fmt.Errorf("github write %s: %w", path, err)
	}
	return nil
}

func (g *GitHubStore) Remove(ctx context.Context, path, message string) error {
	path = cleanPrefix(path)

	sha, err := g.currentSHA(ctx, path)
	if err != nil {
		return err
	}
	if sha == "" {
		return notFound("github remove", path)
	}

	_, resp, err := g.client.Repositories.DeleteFile(ctx, g.owner, g.repo, path, &github.RepositoryContentFileOptions{
		Message: github.String(message),
		SHA:     github.String(sha),
		Branch:  github.String(g.branch),
	})
	if err != nil {
		switch statusOf(resp) {
		case http.StatusNotFound:
			return notFound("github remove", path)
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return conflict("github remove", path)
		}
		return fmt.Errorf("github remove %s: %w", path, err)
	}
	return nil
}

func (g *GitHubStore) List(ctx context.Context, prefix string) ([]Entry, error) {
	prefix = cleanPrefix(prefix)

	file, dir, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, prefix, g.getOptions())
	if err != nil {
		if statusOf(resp) == http.StatusNotFound {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("github list %s: %w", prefix, err)
	}
	if file != nil {
		return nil, fmt.Errorf("github list %s: path is a file", prefix)
	}

	entries := make([]Entry, 0, len(dir))
	for _, c := range dir {
		kind := KindFile
		if c.GetType() == "dir" {
			kind = KindDir
		}
		p := c.GetPath()
		if p == "" {
			p = childPath(prefix, c.GetName())
		}
		entries = append(entries, Entry{Name: c.GetName(), Path: p, Kind: kind})
	}
	return entries, nil
}
