package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"androidsnap/pkg/ignore"
	"androidsnap/pkg/textdecode"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeFixture(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func collect(t *testing.T, s *Scanner) ([]Section, Stats) {
	t.Helper()
	var sections []Section
	stats, err := s.Scan(func(sec Section) error {
		sections = append(sections, sec)
		return nil
	})
	require.NoError(t, err)
	return sections, stats
}

func paths(sections []Section) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, filepath.ToSlash(s.DisplayPath))
	}
	return out
}

// faultyFS fails to open one file, as a permission error would.
type faultyFS struct {
	billy.Filesystem
	failOn string
}

func (f faultyFS) Open(name string) (billy.File, error) {
	if filepath.Clean(name) == filepath.FromSlash(f.failOn) {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Filesystem.Open(name)
}

func TestScanOrderFilesBeforeSubdirectories(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"settings.gradle.kts":              "rootProject.name = \"demo\"",
		"app/build.gradle.kts":             "plugins {}",
		"app/src/main/AndroidManifest.xml": "<manifest/>",
		"app/src/main/java/b/B.kt":         "class B",
		"app/src/main/java/a/A.kt":         "class A",
		"app/src/main/java/Z.java":         "class Z {}",
		"app/src/main/res/layout/main.xml": layoutXML,
		"notes.txt":                        "not relevant",
	})

	s := New(osfs.New(root), root, NewRules(DefaultConfig(), nil, nil), nil, zaptest.NewLogger(t))
	sections, stats := collect(t, s)

	assert.Equal(t, []string{
		"settings.gradle.kts",
		"app/build.gradle.kts",
		"app/src/main/AndroidManifest.xml",
		"app/src/main/java/Z.java",
		"app/src/main/java/a/A.kt",
		"app/src/main/java/b/B.kt",
		"app/src/main/res/layout/main.xml",
	}, paths(sections))
	assert.Equal(t, 7, stats.Included)
	assert.Equal(t, 1, stats.Excluded)
	assert.Equal(t, 8, stats.Files)
}

func TestScanPrunesExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"app/src/main/java/Foo.kt":           "class Foo",
		"app/build/generated/Bar.java":       "class Bar {}",
		"app/build/deep/er/build.gradle.kts": "should not appear",
		".gradle/8.4/Cache.kt":               "class Cache",
		".git/hooks/pre-commit.java":         "x",
		"out/production/Out.kt":              "class Out",
		".github/workflows/build.gradle.kts": "jobs {}",
		"app/.vscode/Tool.kt":                "class Tool",
	})

	s := New(osfs.New(root), root, NewRules(DefaultConfig(), nil, nil), nil, zaptest.NewLogger(t))
	sections, stats := collect(t, s)

	assert.Equal(t, []string{"app/src/main/java/Foo.kt"}, paths(sections))
	assert.Equal(t, 6, stats.Pruned)
}

func TestScanSkipsUnreadableFile(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"app/A.kt": "class A",
		"app/B.kt": "class B",
		"app/C.kt": "class C",
	})

	fs := faultyFS{Filesystem: osfs.New(root), failOn: "app/B.kt"}
	s := New(fs, root, NewRules(DefaultConfig(), nil, nil), nil, zaptest.NewLogger(t))
	sections, stats := collect(t, s)

	assert.Equal(t, []string{"app/A.kt", "app/C.kt"}, paths(sections))
	assert.Equal(t, 1, stats.Failed)
}

func TestScanSkipsUndecodableFile(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"Good.kt": "val ok = true",
		"Bad.kt":  string([]byte{'v', 'a', 'l', 0xFF, 0xFE, 0xC3}),
	})

	s := New(osfs.New(root), root, NewRules(DefaultConfig(), nil, nil), textdecode.Chain{textdecode.UTF8{}}, zaptest.NewLogger(t))
	sections, stats := collect(t, s)

	assert.Equal(t, []string{"Good.kt"}, paths(sections))
	assert.Equal(t, 1, stats.Failed)
}

func TestScanDecodesLatin1(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"Legacy.java": string([]byte{'/', '/', ' ', 'M', 0xFC, 'n', 'c', 'h', 'e', 'n'}),
	})

	s := New(osfs.New(root), root, NewRules(DefaultConfig(), nil, nil), nil, zaptest.NewLogger(t))
	sections, _ := collect(t, s)

	require.Len(t, sections, 1)
	assert.Equal(t, "// München", sections[0].Content)
	assert.Equal(t, "latin-1", sections[0].Encoding)
}

func TestScanDoesNotFollowDirectorySymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"app/src/Foo.kt": "class Foo",
	})
	require.NoError(t, os.Symlink(filepath.Join(root, "app"), filepath.Join(root, "loop")))
	require.NoError(t, os.Symlink(filepath.Join(root, "app", "src", "Foo.kt"), filepath.Join(root, "Alias.kt")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.kt"), filepath.Join(root, "Dangling.kt")))

	s := New(osfs.New(root), root, NewRules(DefaultConfig(), nil, nil), nil, zaptest.NewLogger(t))
	sections, _ := collect(t, s)

	assert.Equal(t, []string{"Alias.kt", "app/src/Foo.kt"}, paths(sections))
}

func TestScanStopsOnEmitError(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"A.kt": "a",
		"B.kt": "b",
	})

	s := New(osfs.New(root), root, NewRules(DefaultConfig(), nil, nil), nil, zaptest.NewLogger(t))
	boom := errors.New("disk full")
	calls := 0
	_, err := s.Scan(func(Section) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestScanWithIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"app/src/main/java/Foo.kt":     "class Foo",
		"app/src/test/java/FooTest.kt": "class FooTest",
		"app/schemas/1.json":           "{}",
	})

	m := ignore.New(nil)
	m.AddLines("**/src/test/")
	s := New(osfs.New(root), root, NewRules(DefaultConfig(), m, nil), nil, zaptest.NewLogger(t))
	sections, stats := collect(t, s)

	assert.Equal(t, []string{"app/src/main/java/Foo.kt"}, paths(sections))
	assert.Equal(t, 1, stats.Pruned)
}

func TestClassifyUsesContentProbe(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"app/src/main/res/drawable/ic_icon.xml":  vectorXML,
		"app/src/main/res/drawable/shape.xml":    "<shape/>",
		"app/src/main/res/values-it/strings.xml": stringsXML,
	})

	s := New(osfs.New(root), root, NewRules(DefaultConfig(), nil, nil), nil, nil)

	assert.Equal(t, Verdict{Exclude, StageVectorDrawable}, s.Classify("app/src/main/res/drawable/ic_icon.xml"))
	assert.Equal(t, Verdict{Include, StageResourceXML}, s.Classify("app/src/main/res/drawable/shape.xml"))
	assert.Equal(t, Verdict{Exclude, StageLocalizedStrings}, s.Classify("app/src/main/res/values-it/strings.xml"))
	assert.Equal(t, Verdict{Include, StageResourceXML}, s.Classify("app/src/main/res/drawable/not-there.xml"))
}

func TestRelPath(t *testing.T) {
	root := t.TempDir()
	s := New(osfs.New(root), root, NewRules(DefaultConfig(), nil, nil), nil, nil)

	rel, err := s.RelPath(filepath.Join(root, "app", "build.gradle"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("app", "build.gradle"), rel)

	rel, err = s.RelPath("app/./src/../build.gradle")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("app", "build.gradle"), rel)

	_, err = s.RelPath(filepath.Join(filepath.Dir(root), "elsewhere.kt"))
	assert.Error(t, err)
}
