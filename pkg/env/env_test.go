package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromList(t *testing.T) {
	e := FromList([]string{"A=1", "B=x=y", "C=", "broken", "=nokey"})
	assert.Equal(t, Environment{"A": "1", "B": "x=y", "C": ""}, e)
}

func TestBool(t *testing.T) {
	e := Environment{
		"T1": "true", "T2": "TRUE", "T3": "1", "T4": "t", "T5": " True ",
		"F1": "false", "F2": "0", "F3": "nope", "F4": "",
	}
	for _, k := range []string{"T1", "T2", "T3", "T4", "T5"} {
		assert.True(t, e.Bool(k), k)
	}
	for _, k := range []string{"F1", "F2", "F3", "F4", "MISSING"} {
		assert.False(t, e.Bool(k), k)
	}
}

func TestStringDefault(t *testing.T) {
	e := Environment{"SET": "v", "EMPTY": ""}
	assert.Equal(t, "v", e.StringDefault("SET", "d"))
	assert.Equal(t, "", e.StringDefault("EMPTY", "d"))
	assert.Equal(t, "d", e.StringDefault("MISSING", "d"))
}

func TestMerge_ExistingValuesWin(t *testing.T) {
	base := Environment{"A": "os", "B": "os"}
	extra := Environment{"B": "file", "C": "file"}

	got, err := base.Merge(extra)
	require.NoError(t, err)
	assert.Equal(t, Environment{"A": "os", "B": "os", "C": "file"}, got)
	assert.Equal(t, Environment{"A": "os", "B": "os"}, base, "receiver must not be modified")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.env")
	content := "# comment\nCHART_NAME=tomcat\nCUSTOM_image_tag=\"1.2.3\"\nexport RELEASE_NAME=web\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	e, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tomcat", e["CHART_NAME"])
	assert.Equal(t, "1.2.3", e["CUSTOM_image_tag"])
	assert.Equal(t, "web", e["RELEASE_NAME"])
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}

func TestKeysSorted(t *testing.T) {
	e := Environment{"b": "", "B": "", "a": "", "A_": ""}
	assert.Equal(t, []string{"A_", "B", "a", "b"}, e.Keys())
}

func TestCatalog(t *testing.T) {
	seen := map[string]bool{}
	for _, v := range Catalog() {
		assert.NotEmpty(t, v.Category, v.Name)
		assert.NotEmpty(t, v.Description, v.Name)
		assert.False(t, seen[v.Name], "duplicate catalog entry %s", v.Name)
		seen[v.Name] = true
	}
	for _, name := range []string{Action, ChartRepoURL, ReleaseName, KubeContext, DryRun, CommitMessage} {
		assert.True(t, seen[name], "catalog misses %s", name)
	}
}
