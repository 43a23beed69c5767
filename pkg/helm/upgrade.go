package helm

import (
	"sort"
	"strings"
)

// Upgrade collects everything rendered into a helm upgrade command.
type Upgrade struct {
	Release string
	Chart   string

	RepoURL     string
	Credentials string
	Version     string

	TillerNamespace string
	Namespace       string

	ValuesFiles []string
	Sets        map[string]string
	StringSets  map[string]string
	SetFiles    map[string]string

	RecreatePods bool
	Wait         bool
	Timeout      string

	// Extra is appended verbatim.
	Extra string
}

// InstallCommand renders the install upgrade command. Flag order: repo,
// credentials, version, tiller namespace, namespace, values files, set,
// set-string, recreate-pods, wait, timeout, extra, set-file.
func InstallCommand(b CommandBuilder, u Upgrade) string {
	var sb strings.Builder
	sb.WriteString(b.UpgradeCommand(u.Release, u.Chart))
	if u.RepoURL != "" {
		sb.WriteString("--repo " + u.RepoURL + " ")
		sb.WriteString(u.Credentials)
	}
	if u.Version != "" {
		sb.WriteString("--version " + u.Version + " ")
	}
	sb.WriteString(b.TillerFlag(u.TillerNamespace))
	if u.Namespace != "" {
		sb.WriteString("--namespace " + u.Namespace + " ")
	}
	writeValues(&sb, u)
	writeRuntime(&sb, b, u)
	writeExtra(&sb, u.Extra)
	writeSetFiles(&sb, u)
	return sb.String()
}

// PromotionCommand renders the promotion upgrade command. It never carries a
// repository or version. Flag order: namespace, tiller namespace, values
// files, set, set-string, recreate-pods, wait, timeout, extra, set-file.
func PromotionCommand(b CommandBuilder, u Upgrade) string {
	var sb strings.Builder
	sb.WriteString(b.UpgradeCommand(u.Release, u.Chart))
	if u.Namespace != "" {
		sb.WriteString("--namespace " + u.Namespace + " ")
	}
	sb.WriteString(b.TillerFlag(u.TillerNamespace))
	writeValues(&sb, u)
	writeRuntime(&sb, b, u)
	writeExtra(&sb, u.Extra)
	writeSetFiles(&sb, u)
	return sb.String()
}

func writeValues(sb *strings.Builder, u Upgrade) {
	for _, f := range u.ValuesFiles {
		sb.WriteString("--values " + f + " ")
	}
	for _, k := range sortedKeys(u.Sets) {
		sb.WriteString("--set " + k + "=" + Quote(u.Sets[k]) + " ")
	}
	for _, k := range sortedKeys(u.StringSets) {
		sb.WriteString("--set-string " + k + "=" + Quote(u.StringSets[k]) + " ")
	}
}

func writeRuntime(sb *strings.Builder, b CommandBuilder, u Upgrade) {
	if u.RecreatePods {
		sb.WriteString("--recreate-pods ")
	}
	if u.Wait {
		sb.WriteString("--wait ")
	}
	sb.WriteString(b.TimeoutFlag(u.Timeout))
}

func writeExtra(sb *strings.Builder, extra string) {
	sb.WriteString(extra)
}

func writeSetFiles(sb *strings.Builder, u Upgrade) {
	if len(u.SetFiles) == 0 {
		return
	}
	if u.Extra != "" && !strings.HasSuffix(u.Extra, " ") {
		sb.WriteString(" ")
	}
	for _, k := range sortedKeys(u.SetFiles) {
		sb.WriteString("--set-file " + k + "=" + Quote(u.SetFiles[k]) + " ")
	}
}

// CredentialFlags renders the --username/--password pair used when
// credentials are passed as arguments.
func CredentialFlags(username, password string) string {
	return "--username " + username + " --password " + password + " "
}

// Quote makes an override value safe for the shell. Values containing ';'
// are wrapped in double quotes as they are. Otherwise every space is escaped.
func Quote(v string) string {
	if strings.Contains(v, ";") {
		return `"` + v + `"`
	}
	return strings.ReplaceAll(v, " ", `\ `)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
