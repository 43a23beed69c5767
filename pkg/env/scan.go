package env

import (
	"strings"
)

// Scanned holds the collections derived from prefix scanning.
type Scanned struct {
	// ValuesFiles in sorted variable-name order.
	ValuesFiles []string
	// Sets are --set overrides keyed by transformed key.
	Sets map[string]string
	// StringSets are --set-string overrides.
	StringSets map[string]string
	// SetFiles are --set-file overrides.
	SetFiles map[string]string
	// Repos maps a repo name to its raw URL.
	Repos map[string]string
	// RepoNames are the keys of Repos in scan order.
	RepoNames []string
}

// Scan walks e in lexicographic order and applies the prefix rules. A later
// variable that transforms to an existing key overwrites it.
func Scan(e Environment) *Scanned {
	s := &Scanned{
		Sets:       map[string]string{},
		StringSets: map[string]string{},
		SetFiles:   map[string]string{},
		Repos:      map[string]string{},
	}

	for _, key := range e.Keys() {
		val := e[key]
		upper := strings.ToUpper(key)

		switch {
		case strings.HasPrefix(upper, PrefixCustomFile), strings.HasPrefix(upper, PrefixValuesFile):
			s.ValuesFiles = append(s.ValuesFiles, val)
		case strings.HasPrefix(upper, PrefixCustom):
			s.Sets[TransformKey(key[len(PrefixCustom):])] = val
		case strings.HasPrefix(upper, PrefixValue):
			s.Sets[TransformKey(key[len(PrefixValue):])] = val
		case strings.HasPrefix(upper, PrefixValueString):
			s.StringSets[TransformKey(key[len(PrefixValueString):])] = val
		case strings.HasPrefix(upper, PrefixSetFile):
			s.SetFiles[TransformKey(key[len(PrefixSetFile):])] = val
		}

		if name, ok := RepoName(key); ok {
			if _, seen := s.Repos[name]; !seen {
				s.RepoNames = append(s.RepoNames, name)
			}
			s.Repos[name] = val
		}
	}

	return s
}

// TransformKey turns a variable suffix into a Helm value path: every '_'
// becomes '.', then every ".." becomes a literal '_'. Runs of three or more
// underscores have no defined meaning.
func TransformKey(raw string) string {
	k := strings.ReplaceAll(raw, "_", ".")
	return strings.ReplaceAll(k, "..", "_")
}

// RepoName extracts the repository name from a CF_CTX_<name>_URL variable.
// The prefix and the first "_URL" are removed, so CF_CTX_URL names the repo
// "url" and CF_CTX_MY_URL_REPO_URL names it "my-repo-url".
func RepoName(key string) (string, bool) {
	upper := strings.ToUpper(key)
	if !strings.HasPrefix(upper, PrefixRepoContext) || !strings.HasSuffix(upper, SuffixRepoURL) {
		return "", false
	}
	name := strings.Replace(upper[len(PrefixRepoContext):], SuffixRepoURL, "", 1)
	if name == "" {
		return "", false
	}
	return strings.ToLower(strings.ReplaceAll(name, "_", "-")), true
}

// Credentials are repository basic-auth credentials.
type Credentials struct {
	Username string
	Password string
	// InArguments moves the credentials from the URL to CLI flags.
	InArguments bool
}

// IsSet reports whether both username and password are configured.
func (c Credentials) IsSet() bool {
	return c.Username != "" && c.Password != ""
}

// NormalizeRepoURL appends a trailing '/' and, for http(s) URLs without
// embedded credentials, embeds username:password@ unless the credentials are
// passed as arguments.
func NormalizeRepoURL(raw string, creds Credentials) string {
	u := raw
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	if !creds.IsSet() || creds.InArguments {
		return u
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return u
	}
	if HasEmbeddedCredentials(u) {
		return u
	}
	return strings.Replace(u, "://", "://"+creds.Username+":"+creds.Password+"@", 1)
}

// HasEmbeddedCredentials reports whether the authority of u contains '@'.
func HasEmbeddedCredentials(u string) bool {
	_, rest, ok := strings.Cut(u, "://")
	if !ok {
		return false
	}
	authority, _, _ := strings.Cut(rest, "/")
	return strings.Contains(authority, "@")
}

// StripCredentials removes user info from the authority of u.
func StripCredentials(u string) string {
	scheme, rest, ok := strings.Cut(u, "://")
	if !ok {
		return u
	}
	authority, path, hasPath := strings.Cut(rest, "/")
	if i := strings.LastIndex(authority, "@"); i >= 0 {
		authority = authority[i+1:]
	}
	if hasPath {
		return scheme + "://" + authority + "/" + path
	}
	return scheme + "://" + authority
}
