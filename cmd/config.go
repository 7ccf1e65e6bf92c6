package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"androidsnap/pkg/scanner"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	appName   = "androidsnap"
	envPrefix = "ANDROIDSNAP"
)

// settings merges flags, environment and config files for every command.
var settings = viper.New()

// defaultProjectDir mirrors where Android Studio creates projects on desktop
// systems. Elsewhere the working directory is assumed to be the project.
func defaultProjectDir(goos, home, cwd string) string {
	switch goos {
	case "darwin", "windows":
		if home != "" {
			return filepath.Join(home, "AndroidStudioProjects", "MyAndroidProject")
		}
	}
	return cwd
}

func platformDefaults() scanner.Config {
	cfg := scanner.DefaultConfig()
	home, _ := os.UserHomeDir()
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg.Project = defaultProjectDir(runtime.GOOS, home, cwd)
	return cfg
}

// registerDefaults seeds v with cfg. Slices must come from here rather than a
// prefilled struct, otherwise decoding merges them with configured values.
func registerDefaults(v *viper.Viper, cfg scanner.Config) {
	v.SetDefault("project", cfg.Project)
	v.SetDefault("output", cfg.Output)
	v.SetDefault("exclude_dirs", cfg.ExcludeDirs)
	v.SetDefault("exclude_dir_prefixes", cfg.ExcludeDirPrefixes)
	v.SetDefault("exclude_files", cfg.ExcludeFiles)
	v.SetDefault("source_extensions", cfg.SourceExtensions)
	v.SetDefault("config_files", cfg.ConfigFiles)
	v.SetDefault("manifest", cfg.Manifest)
	v.SetDefault("resource_xml", cfg.ResourceXML)
	v.SetDefault("strings_file", cfg.StringsFile)
	v.SetDefault("values_dirs", cfg.ValuesDirs)
	v.SetDefault("vector_detection", cfg.VectorDetection)
	v.SetDefault("probe_bytes", cfg.ProbeBytes)
	v.SetDefault("ignore", cfg.Ignore)
	v.SetDefault("ignore_file", cfg.IgnoreFile)
	v.SetDefault("encodings", cfg.Encodings)
	v.SetDefault("clipboard", true)
	v.SetDefault("debug", false)
}

// readConfig loads file, or androidsnap.{yaml,json,toml} from the working
// directory and the XDG config directory. A missing default file is fine; a
// missing explicit one is not.
func readConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
		v.SetConfigName(appName)
	}

	// ANDROIDSNAP_EXCLUDE_DIRS=build,out and friends
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func loadConfig(v *viper.Viper) (scanner.Config, error) {
	var cfg scanner.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return scanner.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
