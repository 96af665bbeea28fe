package domain

import (
	"net/url"
	"strings"
)

// DefaultOrg owns repositories given by bare name.
const DefaultOrg = "desihub"

var githubHosts = map[string]bool{
	"github.com":     true,
	"www.github.com": true,
}

// RepositoryRef identifies a repository on GitHub.
type RepositoryRef struct {
	Owner string
	Name  string
}

func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepositoryRef normalizes a full URL, a "github.com/owner/name" path,
// an "owner/name" pair or a bare name into a RepositoryRef. Bare names belong
// to defaultOrg.
func ParseRepositoryRef(input, defaultOrg string) (RepositoryRef, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return RepositoryRef{}, &IdentifierError{Input: input, Reason: "empty repository identifier"}
	}

	if !strings.Contains(s, "://") {
		first, _, _ := strings.Cut(strings.TrimPrefix(s, "/"), "/")
		switch {
		case !strings.Contains(s, "/"):
			return ref(input, []string{defaultOrg, s})
		case strings.Contains(first, "."):
			s = "https://" + s
		default:
			return ref(input, strings.Split(strings.Trim(s, "/"), "/"))
		}
	}

	u, err := url.Parse(s)
	if err != nil {
		return RepositoryRef{}, &IdentifierError{Input: input, Reason: "malformed URL"}
	}
	if !githubHosts[strings.ToLower(u.Host)] {
		return RepositoryRef{}, &IdentifierError{Input: input, Reason: "not a GitHub URL"}
	}
	return ref(input, strings.Split(strings.Trim(u.Path, "/"), "/"))
}

func ref(input string, parts []string) (RepositoryRef, error) {
	if len(parts) < 2 {
		return RepositoryRef{}, &IdentifierError{Input: input, Reason: "cannot parse owner/repo"}
	}
	owner, name := parts[0], strings.TrimSuffix(parts[1], ".git")
	if owner == "" || name == "" {
		return RepositoryRef{}, &IdentifierError{Input: input, Reason: "cannot parse owner/repo"}
	}
	return RepositoryRef{Owner: owner, Name: name}, nil
}
