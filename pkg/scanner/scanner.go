// Package scanner walks an Android project, selects the files worth reading
// and renders them as sections of a single text snapshot.
package scanner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"androidsnap/pkg/textdecode"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"
)

// Scanner walks a project filesystem and emits relevant files in traversal order.
type Scanner struct {
	fs       billy.Filesystem
	root     string
	rules    *Rules
	decoders textdecode.Chain
	logger   *zap.Logger
}

// New returns a Scanner over fs. root is the absolute location fs is rooted
// at and is only used to render display paths; it may be empty.
func New(fs billy.Filesystem, root string, rules *Rules, decoders textdecode.Chain, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(decoders) == 0 {
		decoders = textdecode.Default()
	}
	return &Scanner{
		fs:       fs,
		root:     root,
		rules:    rules,
		decoders: decoders,
		logger:   logger,
	}
}

// Scan walks the tree top-down. Within a directory, files are visited before
// subdirectories and both are ordered by name. emit is called once per
// relevant file; an error from emit stops the scan and is returned.
func (s *Scanner) Scan(emit func(Section) error) (Stats, error) {
	var stats Stats
	s.logger.Debug("Starting project scan", zap.String("root", s.root), zap.Strings("stages", s.rules.Stages()))
	err := s.walk(".", &stats, emit)
	s.logger.Debug("Completed project scan",
		zap.Int("directories", stats.Directories),
		zap.Int("files", stats.Files),
		zap.Int("included", stats.Included),
		zap.Int("failed", stats.Failed))
	return stats, err
}

// Classify returns the verdict for a single root-relative file path.
func (s *Scanner) Classify(relPath string) Verdict {
	return s.rules.Classify(s.candidate(filepath.Clean(relPath)))
}

// Root is the absolute project directory being scanned.
func (s *Scanner) Root() string { return s.root }

// RelPath maps a user supplied path onto the scan root. Absolute paths are
// made relative to the root; relative ones are taken as root-relative.
func (s *Scanner) RelPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside of %s", path, s.root)
	}
	return rel, nil
}

func (s *Scanner) walk(dir string, stats *Stats, emit func(Section) error) error {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if dir == "." {
			return fmt.Errorf("failed to read project directory: %w", err)
		}
		s.logger.Warn("Failed to read directory, skipping it", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	stats.Directories++

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var subdirs []string
	for _, entry := range entries {
		relPath := filepath.Join(dir, entry.Name())
		isDir, ok := s.resolve(relPath, entry)
		if !ok {
			continue
		}
		if isDir {
			if s.rules.PruneDir(relPath) {
				stats.Pruned++
				s.logger.Debug("Skipping excluded directory", zap.String("dir", relPath))
				continue
			}
			subdirs = append(subdirs, relPath)
			continue
		}
		if err := s.visitFile(relPath, stats, emit); err != nil {
			return err
		}
	}

	for _, sub := range subdirs {
		if err := s.walk(sub, stats, emit); err != nil {
			return err
		}
	}
	return nil
}

// resolve decides how an entry is treated. Links to directories are never
// followed; links to regular files are read like the file itself.
func (s *Scanner) resolve(relPath string, info os.FileInfo) (isDir bool, ok bool) {
	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		target, err := s.fs.Stat(relPath)
		if err != nil {
			s.logger.Debug("Skipping dangling symlink", zap.String("filePath", relPath), zap.Error(err))
			return false, false
		}
		if target.IsDir() {
			s.logger.Debug("Not following directory symlink", zap.String("dir", relPath))
			return false, false
		}
		return false, target.Mode().IsRegular()
	case mode.IsDir():
		return true, true
	default:
		return false, mode.IsRegular()
	}
}

func (s *Scanner) visitFile(relPath string, stats *Stats, emit func(Section) error) error {
	stats.Files++

	verdict := s.rules.Classify(s.candidate(relPath))
	if !verdict.Included() {
		stats.Excluded++
		s.logger.Debug("Skipping irrelevant file", zap.String("filePath", relPath), zap.String("stage", verdict.Stage))
		return nil
	}

	section, err := s.read(relPath)
	if err != nil {
		stats.Failed++
		s.logger.Warn("Skipping unreadable file", zap.String("filePath", relPath), zap.Error(err))
		return nil
	}

	if err := emit(section); err != nil {
		return err
	}
	stats.Included++
	s.logger.Debug("Added file to snapshot",
		zap.String("filePath", relPath),
		zap.String("stage", verdict.Stage),
		zap.String("encoding", section.Encoding))
	return nil
}

func (s *Scanner) candidate(relPath string) Candidate {
	return NewCandidate(relPath, func(n int) ([]byte, error) {
		return readPrefix(s.fs, relPath, n)
	})
}

// read loads the whole file and decodes it with the first decoder that accepts it.
func (s *Scanner) read(relPath string) (Section, error) {
	file, err := s.fs.Open(relPath)
	if err != nil {
		return Section{}, fmt.Errorf("error opening file %s: %w", relPath, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Section{}, fmt.Errorf("error reading file %s: %w", relPath, err)
	}

	text, encoding, err := s.decoders.Decode(data)
	if err != nil {
		return Section{}, fmt.Errorf("error decoding file %s: %w", relPath, err)
	}

	return Section{
		DisplayPath: s.displayPath(relPath),
		Content:     text,
		Encoding:    encoding,
	}, nil
}

// displayPath renders a path relative to the root when possible, otherwise absolute.
func (s *Scanner) displayPath(relPath string) string {
	if s.root == "" {
		return relPath
	}
	absPath := filepath.Join(s.root, relPath)
	rel, err := filepath.Rel(s.root, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		s.logger.Debug("Unable to determine relative path, using absolute path", zap.String("filePath", absPath))
		return absPath
	}
	return rel
}
