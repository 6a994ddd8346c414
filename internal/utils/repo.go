package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

var (
	sshRemote = regexp.MustCompile(`^git@github\.com:([^/\s]+)/([^/\s]+?)(?:\.git)?/?$`)
	namePart  = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// ParseRepoURL parses a GitHub repository URL into owner and name components
func ParseRepoURL(repoURL string) (owner, name string, err error) {
	if !strings.Contains(repoURL, "://") {
		repoURL = "https://" + repoURL
	}
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", "", err
	}
	if !strings.EqualFold(strings.TrimPrefix(u.Host, "www."), "github.com") {
		return "", "", fmt.Errorf("invalid GitHub repository URL: unsupported host %q", u.Host)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GitHub repository URL")
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// ParseRepoInput accepts "owner/repo", a GitHub URL or an SSH remote and returns the repository reference
func ParseRepoInput(input string) (models.RepoRef, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return models.RepoRef{}, fmt.Errorf("repository identifier is empty")
	}

	var owner, name string
	switch {
	case sshRemote.MatchString(input):
		m := sshRemote.FindStringSubmatch(input)
		owner, name = m[1], m[2]
	case strings.Contains(input, "://") || strings.HasPrefix(strings.ToLower(input), "github.com/") ||
		strings.HasPrefix(strings.ToLower(input), "www.github.com/"):
		var err error
		owner, name, err = ParseRepoURL(input)
		if err != nil {
			return models.RepoRef{}, err
		}
	case strings.Count(input, "/") == 1:
		parts := strings.SplitN(input, "/", 2)
		owner, name = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	default:
		return models.RepoRef{}, fmt.Errorf("invalid repository identifier %q: use owner/repo or a GitHub URL", input)
	}

	if !namePart.MatchString(owner) || !namePart.MatchString(name) {
		return models.RepoRef{}, fmt.Errorf("invalid repository identifier %q: use owner/repo or a GitHub URL", input)
	}
	return models.RepoRef{Owner: owner, Name: name}, nil
}
