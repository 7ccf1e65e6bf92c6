package scanner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTree(t *testing.T) {
	got := RenderTree("/src/demo", []string{
		"settings.gradle.kts",
		filepath.FromSlash("app/build.gradle.kts"),
		filepath.FromSlash("app/src/main/AndroidManifest.xml"),
		filepath.FromSlash("app/src/main/java/Foo.kt"),
		filepath.FromSlash("app/src/main/java/bar.kt"),
	})

	want := `/src/demo/
├── app/
│   ├── src/
│   │   └── main/
│   │       ├── java/
│   │       │   ├── bar.kt
│   │       │   └── Foo.kt
│   │       └── AndroidManifest.xml
│   └── build.gradle.kts
└── settings.gradle.kts
`
	assert.Equal(t, want, got)
}

func TestRenderTreeEmpty(t *testing.T) {
	assert.Equal(t, "/src/demo/\n", RenderTree("/src/demo", nil))
}
