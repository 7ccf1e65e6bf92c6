// File: pkg/scanner/run.go
package scanner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"androidsnap/pkg/ignore"
	"androidsnap/pkg/textdecode"

	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Run scans cfg.Project and writes the snapshot to cfg.Output, replacing any
// previous artifact. Unreadable files are skipped; a missing project or an
// unusable output destination fails the run.
func Run(cfg Config, logger *zap.Logger) (result Result, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()

	walker, err := NewProjectScanner(cfg, logger)
	if err != nil {
		logger.Error("Failed to prepare project scan", zap.String("project", cfg.Project), zap.Error(err))
		return Result{}, err
	}

	output := cfg.Output
	if output == "" {
		output = DefaultOutput
	}
	if output, err = filepath.Abs(output); err != nil {
		return Result{}, fmt.Errorf("failed to resolve output path: %w", err)
	}
	result.Output = output

	logger.Info("Starting snapshot", zap.String("project", walker.root), zap.String("output", output))

	removeStale(output, logger)

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		logger.Error("Failed to create output directory", zap.String("path", filepath.Dir(output)), zap.Error(err))
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}
	outFile, err := os.Create(output)
	if err != nil {
		logger.Error("Failed to create output file", zap.String("file", output), zap.Error(err))
		return result, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil {
			logger.Error("Failed to close output file", zap.String("file", output), zap.Error(closeErr))
			err = multierr.Append(err, fmt.Errorf("failed to close output file: %w", closeErr))
		}
		if err == nil {
			if info, statErr := os.Stat(output); statErr == nil {
				result.Bytes = info.Size()
			}
			logger.Info("Snapshot completed",
				zap.String("outputFile", output),
				zap.Int("totalFiles", result.Sections),
				zap.Duration("elapsed", time.Since(startTime)))
		}
	}()

	writer := bufio.NewWriter(outFile)
	result.Stats, err = walker.Scan(func(s Section) error {
		if err := WriteSection(writer, s); err != nil {
			logger.Error("Failed to write section", zap.String("file", output), zap.String("contentPath", s.DisplayPath), zap.Error(err))
			return fmt.Errorf("failed to write section: %w", err)
		}
		result.Sections++
		return nil
	})
	if err != nil {
		// Keep whatever was already written.
		_ = writer.Flush()
		return result, err
	}

	if err := writer.Flush(); err != nil {
		logger.Error("Failed to flush output file", zap.String("file", output), zap.Error(err))
		return result, fmt.Errorf("failed to flush output: %w", err)
	}
	return result, nil
}

// WriteSection writes the header line and the content of one file.
func WriteSection(w io.Writer, s Section) error {
	if _, err := fmt.Fprintf(w, SectionHeader, s.DisplayPath); err != nil {
		return err
	}
	_, err := io.WriteString(w, s.Content)
	return err
}

// NewProjectScanner builds the scanner Run would use, without touching any output.
func NewProjectScanner(cfg Config, logger *zap.Logger) (*Scanner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	root, err := resolveProject(cfg.Project)
	if err != nil {
		return nil, err
	}
	decoders, err := textdecode.ParseChain(cfg.Encodings)
	if err != nil {
		return nil, fmt.Errorf("invalid encodings: %w", err)
	}
	matcher, err := loadIgnore(cfg, root, logger)
	if err != nil {
		return nil, err
	}
	return New(osfs.New(root), root, NewRules(cfg, matcher, logger), decoders, logger), nil
}

func resolveProject(project string) (string, error) {
	if project == "" {
		project = "."
	}
	root, err := filepath.Abs(project)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrProjectNotFound, root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrProjectNotFound, root)
	}
	return root, nil
}

func loadIgnore(cfg Config, root string, logger *zap.Logger) (*ignore.Matcher, error) {
	matcher := ignore.New(logger)
	if cfg.IgnoreFile != "" {
		path := cfg.IgnoreFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		if err := matcher.AddFile(path); err != nil {
			logger.Error("Failed to load ignore file", zap.String("filePath", path), zap.Error(err))
			return nil, fmt.Errorf("failed to load ignore patterns: %w", err)
		}
	}
	matcher.AddLines(cfg.Ignore...)
	return matcher, nil
}

// removeStale deletes a previous artifact. Failure is reported and the run continues.
func removeStale(output string, logger *zap.Logger) {
	err := os.Remove(output)
	switch {
	case err == nil:
		logger.Debug("Removed previous output file", zap.String("file", output))
	case os.IsNotExist(err):
	default:
		logger.Warn("Could not remove existing output file", zap.String("file", output), zap.Error(err))
	}
}
