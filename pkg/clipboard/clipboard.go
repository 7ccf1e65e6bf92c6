// Package clipboard places finished snapshots on the system clipboard.
//
// Several interchangeable mechanisms exist: helper programs that read the
// text from stdin (pbcopy, wl-copy, xclip, xsel, clip) and the native backend
// provided by github.com/atotto/clipboard. Detect picks one at startup.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// ErrUnavailable means no clipboard mechanism was found on this host.
var ErrUnavailable = errors.New("no clipboard mechanism available")

// Copier places text on the clipboard.
type Copier interface {
	Name() string
	Copy(text string) error
}

// Command is a helper program that reads the clipboard content from stdin.
type Command struct {
	Path string
	Args []string
}

func (c Command) Name() string {
	return strings.TrimSuffix(filepath.Base(c.Path), ".exe")
}

func (c Command) Copy(text string) error {
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", c.Name(), err, msg)
		}
		return fmt.Errorf("%s failed: %w", c.Name(), err)
	}
	return nil
}

// Native uses the operating system clipboard API where one exists.
type Native struct{}

func (Native) Name() string { return "native" }

func (Native) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Unavailable is selected when nothing else works; every copy fails.
type Unavailable struct{}

func (Unavailable) Name() string { return "none" }

func (Unavailable) Copy(string) error { return ErrUnavailable }

type helper struct {
	name string
	args []string
}

var helpers = map[string][]helper{
	"darwin":  {{name: "pbcopy"}},
	"windows": {{name: "clip"}},
	"linux": {
		{name: "wl-copy"},
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
	},
}

// Detect picks a copier for goos. On Windows the native API is preferred
// because clip.exe mangles non-ASCII text. Elsewhere the first helper found
// by lookPath wins, then the native backend if nativeOK, then Unavailable.
func Detect(goos string, lookPath func(string) (string, error), nativeOK bool) Copier {
	if goos == "windows" && nativeOK {
		return Native{}
	}
	candidates, ok := helpers[goos]
	if !ok {
		candidates = helpers["linux"]
	}
	for _, h := range candidates {
		if path, err := lookPath(h.name); err == nil {
			return Command{Path: path, Args: h.args}
		}
	}
	if nativeOK {
		return Native{}
	}
	return Unavailable{}
}

// System detects the copier for the running host.
func System() Copier {
	return Detect(runtime.GOOS, exec.LookPath, !clipboard.Unsupported)
}

// Publish copies text and reports whether it worked. Failures are logged, never returned.
func Publish(c Copier, text string, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = Unavailable{}
	}
	if err := c.Copy(text); err != nil {
		logger.Warn("Failed to copy output to clipboard", zap.String("mechanism", c.Name()), zap.Error(err))
		return false
	}
	logger.Debug("Copied output to clipboard", zap.String("mechanism", c.Name()), zap.Int("bytes", len(text)))
	return true
}

// PublishFile reads a finished artifact and publishes its content.
func PublishFile(c Copier, path string, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read output for clipboard", zap.String("file", path), zap.Error(err))
		return false
	}
	return Publish(c, string(data), logger)
}
