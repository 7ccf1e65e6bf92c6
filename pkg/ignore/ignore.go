// Package ignore matches project-relative paths against gitignore-style patterns.
package ignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Pattern is one compiled ignore line.
type Pattern struct {
	Regexp  *regexp.Regexp // Compiled form of the line.
	Negate  bool           // Line started with '!'.
	DirOnly bool           // Line ended with '/'.
	Line    string         // Original text.
	LineNo  int            // 1-based position among all compiled lines.
}

// Matcher holds compiled patterns in the order they were added. Later
// patterns override earlier ones.
type Matcher struct {
	patterns []*Pattern
	logger   *zap.Logger
}

// New returns an empty Matcher.
func New(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// Len reports the number of compiled patterns.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// AddLines compiles each line; blanks, comments and invalid lines are skipped.
func (m *Matcher) AddLines(lines ...string) {
	for _, line := range lines {
		p, ok := parseLine(line)
		if !ok {
			continue
		}
		p.LineNo = len(m.patterns) + 1
		m.patterns = append(m.patterns, p)
		m.logger.Debug("Compiled ignore pattern",
			zap.Int("lineNo", p.LineNo),
			zap.String("pattern", p.Line),
			zap.Bool("negate", p.Negate))
	}
}

// AddFile reads an ignore file and compiles its lines. A missing file is not an error.
func (m *Matcher) AddFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug("Ignore file does not exist and will be skipped", zap.String("filePath", path))
			return nil
		}
		return err
	}
	before := len(m.patterns)
	m.AddLines(strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")...)
	m.logger.Debug("Loaded ignore file",
		zap.String("filePath", path),
		zap.Int("patternCount", len(m.patterns)-before))
	return nil
}

// Match reports whether the relative path is ignored. The last matching
// pattern decides, so a negated pattern can re-include a path.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	matched, _ := m.MatchWithPattern(relPath, isDir)
	return matched
}

// MatchWithPattern is Match that also returns the deciding pattern, if any.
func (m *Matcher) MatchWithPattern(relPath string, isDir bool) (bool, *Pattern) {
	subject := strings.TrimPrefix(filepath.ToSlash(relPath), "./")
	if isDir && !strings.HasSuffix(subject, "/") {
		subject += "/"
	}

	matched := false
	var decided *Pattern
	for _, p := range m.patterns {
		if p.Regexp.MatchString(subject) {
			matched = !p.Negate
			decided = p
		}
	}
	return matched, decided
}

func parseLine(line string) (*Pattern, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false
	}

	p := &Pattern{Line: line}
	if strings.HasPrefix(trimmed, "!") {
		p.Negate = true
		trimmed = trimmed[1:]
	} else if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}
	if strings.HasSuffix(trimmed, "/") {
		p.DirOnly = true
		trimmed = strings.TrimRight(trimmed, "/")
	}
	// A slash anywhere but the end anchors the pattern to the root.
	anchored := strings.Contains(trimmed, "/")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return nil, false
	}

	expr := globToRegex(trimmed)
	if anchored {
		expr = "^" + expr
	} else {
		expr = "^(|.*/)" + expr
	}
	if p.DirOnly {
		expr += "/.*$"
	} else {
		expr += "(/.*)?$"
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, false
	}
	p.Regexp = re
	return p, true
}

// globToRegex translates '*', '?' and '**' to regular expression syntax and
// quotes everything else.
func globToRegex(glob string) string {
	var b strings.Builder
	for i := 0; i < len(glob); i++ {
		switch {
		case strings.HasPrefix(glob[i:], "**/"):
			b.WriteString("(.*/)?")
			i += 2
		case strings.HasPrefix(glob[i:], "/**") && i+3 == len(glob):
			b.WriteString("(/.*)?")
			i += 2
		case glob[i] == '*':
			b.WriteString("[^/]*")
		case glob[i] == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(glob[i : i+1]))
		}
	}
	return b.String()
}
