package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	m := New(nil)
	m.AddLines(
		"# comment",
		"",
		"*.log",
		"generated/",
		"/local.properties",
		"app/**/schemas",
		"*.iml",
		"!keep.iml",
		`\#hash.txt`,
	)
	require.Equal(t, 7, m.Len())

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"debug.log", false, true},
		{"app/logs/debug.log", false, true},
		{"app/generated", true, true},
		{"app/generated/R.java", false, true},
		{"app/generated", false, false},
		{"local.properties", false, true},
		{"app/local.properties", false, false},
		{"app/schemas", true, true},
		{"app/room/v1/schemas/1.json", false, true},
		{"lib/schemas", true, false},
		{"project.iml", false, true},
		{"keep.iml", false, false},
		{"#hash.txt", false, true},
		{"app/src/main/java/Foo.kt", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(filepath.FromSlash(tt.path), tt.isDir))
		})
	}
}

func TestMatchWithPatternReportsDecidingLine(t *testing.T) {
	m := New(nil)
	m.AddLines("*.xml", "!AndroidManifest.xml")

	matched, p := m.MatchWithPattern("app/src/main/AndroidManifest.xml", false)
	assert.False(t, matched)
	require.NotNil(t, p)
	assert.True(t, p.Negate)
	assert.Equal(t, 2, p.LineNo)

	matched, p = m.MatchWithPattern("res/layout/main.xml", false)
	assert.True(t, matched)
	require.NotNil(t, p)
	assert.Equal(t, "*.xml", p.Line)
}

func TestAddFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".androidsnapignore")
	require.NoError(t, os.WriteFile(path, []byte("*.bak\r\nsecrets/\n"), 0o644))

	m := New(nil)
	require.NoError(t, m.AddFile(path))
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Match("a/b.bak", false))
	assert.True(t, m.Match("secrets", true))

	require.NoError(t, m.AddFile(filepath.Join(dir, "missing")))
	assert.Equal(t, 2, m.Len())
}
