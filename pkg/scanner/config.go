// File: pkg/scanner/config.go
package scanner

// Config holds every option of a snapshot run. It is built once at startup
// and not modified afterwards.
type Config struct {
	Project            string   `mapstructure:"project"`              // Root directory of the Android project.
	Output             string   `mapstructure:"output"`               // Destination of the combined text artifact.
	ExcludeDirs        []string `mapstructure:"exclude_dirs"`         // Directory names that are never descended.
	ExcludeDirPrefixes []string `mapstructure:"exclude_dir_prefixes"` // Directory name prefixes that are never descended.
	ExcludeFiles       []string `mapstructure:"exclude_files"`        // Bare file names that are always skipped.
	SourceExtensions   []string `mapstructure:"source_extensions"`    // Extensions of source files, compared case-insensitively.
	ConfigFiles        []string `mapstructure:"config_files"`         // Build and tooling files relevant in any directory.
	Manifest           string   `mapstructure:"manifest"`             // Manifest file name.
	ResourceXML        bool     `mapstructure:"resource_xml"`         // Include XML files below a "res" directory.
	StringsFile        string   `mapstructure:"strings_file"`         // Name of localized string resource files.
	ValuesDirs         []string `mapstructure:"values_dirs"`          // Values directories whose strings file is kept.
	VectorDetection    bool     `mapstructure:"vector_detection"`     // Skip vector drawables detected by content.
	ProbeBytes         int      `mapstructure:"probe_bytes"`          // Prefix length read by the vector probe.
	Ignore             []string `mapstructure:"ignore"`               // Extra gitignore-style exclusion patterns.
	IgnoreFile         string   `mapstructure:"ignore_file"`          // Pattern file, relative to the project unless absolute.
	Encodings          []string `mapstructure:"encodings"`            // Decoder names tried in order.
}

// Defaults for an Android Studio project.
const (
	DefaultOutput      = "code.txt"
	DefaultManifest    = "AndroidManifest.xml"
	DefaultStringsFile = "strings.xml"
	DefaultIgnoreFile  = ".androidsnapignore"
	DefaultProbeBytes  = 1024
)

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Output:             DefaultOutput,
		ExcludeDirs:        []string{".git", ".gradle", "build", "out", ".idea"},
		ExcludeDirPrefixes: []string{"."},
		ExcludeFiles:       []string{".DS_Store", "Thumbs.db", "desktop.ini"},
		SourceExtensions:   []string{".kt", ".java"},
		ConfigFiles: []string{
			"build.gradle",
			"build.gradle.kts",
			"settings.gradle",
			"settings.gradle.kts",
			"gradle.properties",
			"gradle-wrapper.properties",
			"libs.versions.toml",
		},
		Manifest:        DefaultManifest,
		ResourceXML:     true,
		StringsFile:     DefaultStringsFile,
		ValuesDirs:      []string{"values", "values-night"},
		VectorDetection: true,
		ProbeBytes:      DefaultProbeBytes,
		IgnoreFile:      DefaultIgnoreFile,
		Encodings:       []string{"utf-8", "utf-16", "latin-1"},
	}
}
