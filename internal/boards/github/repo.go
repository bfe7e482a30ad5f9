package github

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
)

// RepoInfo contains parsed information from a git remote URL
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// ParseRemoteURL parses a git remote URL and extracts hostname, owner, and repo.
// Supports both github.com and GitHub Enterprise URLs:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//   - ssh://git@github.company.com/owner/repo.git
func ParseRemoteURL(remoteURL string) (*RepoInfo, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	remoteURL = strings.TrimSuffix(remoteURL, ".git")
	remoteURL = strings.TrimPrefix(remoteURL, "ssh://")

	var hostname, path string

	if strings.Contains(remoteURL, "@") && !strings.Contains(remoteURL, "://") {
		// SSH format: git@hostname:owner/repo or git@hostname/owner/repo
		parts := strings.SplitN(remoteURL, "@", 2)
		hostAndPath := parts[1]

		if strings.Contains(hostAndPath, ":") {
			hostPathParts := strings.SplitN(hostAndPath, ":", 2)
			hostname, path = hostPathParts[0], hostPathParts[1]
		} else {
			pathParts := strings.SplitN(hostAndPath, "/", 2)
			if len(pathParts) < 2 {
				return nil, fmt.Errorf("invalid SSH remote URL: missing path")
			}
			hostname, path = pathParts[0], pathParts[1]
		}
	} else {
		remoteURL = strings.TrimPrefix(remoteURL, "https://")
		remoteURL = strings.TrimPrefix(remoteURL, "http://")
		// Drop credentials embedded in HTTPS remotes
		if at := strings.LastIndex(remoteURL, "@"); at >= 0 {
			remoteURL = remoteURL[at+1:]
		}

		parts := strings.SplitN(remoteURL, "/", 2)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid HTTPS remote URL: must be protocol://hostname/owner/repo")
		}
		hostname, path = parts[0], parts[1]
	}

	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(pathParts) < 2 {
		return nil, fmt.Errorf("invalid remote URL: path must be owner/repo")
	}
	owner := pathParts[len(pathParts)-2]
	repo := pathParts[len(pathParts)-1]

	if hostname == "" || owner == "" || repo == "" {
		return nil, fmt.Errorf("failed to parse hostname, owner, or repo from remote URL")
	}

	return &RepoInfo{
		Hostname: hostname,
		Owner:    owner,
		Repo:     repo,
	}, nil
}

// DetectRepo reads the origin remote of the git repository containing dir
func DetectRepo(dir string) (*RepoInfo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return nil, fmt.Errorf("failed to get origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, fmt.Errorf("origin remote has no URL")
	}
	return ParseRemoteURL(urls[0])
}
