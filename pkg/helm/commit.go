package helm

import (
	"path"
	"strings"
)

// NotesFile is the chart file that records the commit message.
func NotesFile(chartDir string) string {
	return path.Join(chartDir, "templates", "NOTES.txt")
}

// CommitMessageLines replace the commit_message: line of file with message, or
// append one when the file has none.
func CommitMessageLines(file, message string) []string {
	return []string{
		`file_path="` + shellEscape(file) + `"`,
		`message="` + shellEscape(message) + `"`,
		`sed_message="` + shellEscape(sedEscape(message)) + `"`,
		`if [[ -f $file_path && $(cat $file_path) =~ commit_message:(.*) ]];`,
		`then`,
		`  sed -E "s|(commit_message:)(.*)|\1${sed_message}|g" $file_path > $file_path.tmp`,
		`  mv $file_path.tmp $file_path`,
		`else`,
		`  echo "commit_message:${message}" >> $file_path`,
		`fi`,
	}
}

// shellEscape escapes s for use inside double quotes.
func shellEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")
	return r.Replace(s)
}

// SingleQuote wraps s in single quotes so that the shell reads it as one
// literal word.
func SingleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// sedEscape escapes s for the replacement part of a '|' delimited s command.
func sedEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `|`, `\|`, `&`, `\&`, "\n", `\n`)
	return r.Replace(s)
}

// IsLocalChart reports whether chart refers to a directory or archive on disk.
func IsLocalChart(chart string) bool {
	return strings.HasPrefix(chart, "/") || strings.HasPrefix(chart, ".") ||
		strings.HasSuffix(chart, ".tgz")
}

// FetchedChartDir is where PullCommand unpacks chart.
func FetchedChartDir(fetchDir, chart string) string {
	name := chart
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return path.Join(fetchDir, name)
}
