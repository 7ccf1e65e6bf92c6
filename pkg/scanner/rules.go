package scanner

import (
	"path/filepath"
	"strings"

	"androidsnap/pkg/ignore"

	"go.uber.org/zap"
)

// Decision is the outcome of a single relevance stage.
type Decision int

const (
	Undecided Decision = iota // The stage has no opinion; the next stage runs.
	Include
	Exclude
)

func (d Decision) String() string {
	switch d {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	default:
		return "undecided"
	}
}

// Verdict is the final decision for a file and the stage that made it.
type Verdict struct {
	Decision Decision
	Stage    string
}

// Included reports whether the file will be emitted.
func (v Verdict) Included() bool {
	return v.Decision == Include
}

// Stage names, in evaluation order.
const (
	StageExcludedFile     = "excluded-file"
	StageExcludedDir      = "excluded-dir"
	StageIgnorePattern    = "ignore-pattern"
	StageSource           = "source"
	StageLocalizedStrings = "localized-strings"
	StageVectorDrawable   = "vector-drawable"
	StageResourceXML      = "resource-xml"
	StageNoMatch          = "no-match"
)

// Candidate is a file presented to the rules.
type Candidate struct {
	Path  string   // Relative to the project root.
	Name  string   // Base name.
	Dirs  []string // Ancestor directory names below the root, outermost first.
	Probe func(n int) ([]byte, error)
}

// NewCandidate splits a root-relative path into its parts. probe may be nil,
// in which case content-based stages cannot classify the file.
func NewCandidate(relPath string, probe func(n int) ([]byte, error)) Candidate {
	relPath = filepath.Clean(relPath)
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	return Candidate{
		Path:  relPath,
		Name:  parts[len(parts)-1],
		Dirs:  parts[:len(parts)-1],
		Probe: probe,
	}
}

// Parent returns the name of the immediate parent directory, or "" at the root.
func (c Candidate) Parent() string {
	if len(c.Dirs) == 0 {
		return ""
	}
	return c.Dirs[len(c.Dirs)-1]
}

// Stage is one named step of the relevance chain.
type Stage struct {
	Name string
	Eval func(c Candidate) Decision
}

// Rules is the ordered relevance chain derived from a Config.
type Rules struct {
	stages      []Stage
	excludeDirs map[string]struct{}
	dirPrefixes []string
	ignore      *ignore.Matcher
	logger      *zap.Logger
}

// NewRules builds the stage chain. matcher may be nil.
func NewRules(cfg Config, matcher *ignore.Matcher, logger *zap.Logger) *Rules {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Rules{
		excludeDirs: toSet(cfg.ExcludeDirs),
		dirPrefixes: nonEmpty(cfg.ExcludeDirPrefixes),
		ignore:      matcher,
		logger:      logger,
	}

	excludeFiles := toSet(cfg.ExcludeFiles)
	extensions := toSet(normalizeExtensions(cfg.SourceExtensions))
	configFiles := toSet(cfg.ConfigFiles)
	valuesDirs := toSet(cfg.ValuesDirs)

	r.stages = append(r.stages,
		Stage{StageExcludedFile, func(c Candidate) Decision {
			if _, ok := excludeFiles[c.Name]; ok {
				return Exclude
			}
			return Undecided
		}},
		Stage{StageExcludedDir, func(c Candidate) Decision {
			for _, d := range c.Dirs {
				if r.excludedDirName(d) {
					return Exclude
				}
			}
			return Undecided
		}},
	)

	if matcher != nil && matcher.Len() > 0 {
		r.stages = append(r.stages, Stage{StageIgnorePattern, func(c Candidate) Decision {
			if matcher.Match(c.Path, false) {
				return Exclude
			}
			return Undecided
		}})
	}

	r.stages = append(r.stages, Stage{StageSource, func(c Candidate) Decision {
		if _, ok := extensions[strings.ToLower(filepath.Ext(c.Name))]; ok {
			return Include
		}
		if cfg.Manifest != "" && c.Name == cfg.Manifest {
			return Include
		}
		if _, ok := configFiles[c.Name]; ok {
			return Include
		}
		return Undecided
	}})

	if !cfg.ResourceXML {
		return r
	}

	if cfg.StringsFile != "" && len(valuesDirs) > 0 {
		r.stages = append(r.stages, Stage{StageLocalizedStrings, func(c Candidate) Decision {
			if !isResourceXML(c) || c.Name != cfg.StringsFile {
				return Undecided
			}
			if _, ok := valuesDirs[c.Parent()]; ok {
				return Include
			}
			return Exclude
		}})
	}

	if cfg.VectorDetection {
		probeBytes := cfg.ProbeBytes
		if probeBytes <= 0 {
			probeBytes = DefaultProbeBytes
		}
		r.stages = append(r.stages, Stage{StageVectorDrawable, func(c Candidate) Decision {
			if !isResourceXML(c) || c.Probe == nil {
				return Undecided
			}
			prefix, err := c.Probe(probeBytes)
			if err != nil {
				r.logger.Debug("Content probe failed, keeping file", zap.String("filePath", c.Path), zap.Error(err))
				return Undecided
			}
			if isVectorDrawable(prefix) {
				return Exclude
			}
			return Undecided
		}})
	}

	r.stages = append(r.stages, Stage{StageResourceXML, func(c Candidate) Decision {
		if isResourceXML(c) {
			return Include
		}
		return Undecided
	}})
	return r
}

// Stages returns the stage names in evaluation order.
func (r *Rules) Stages() []string {
	names := make([]string, 0, len(r.stages)+1)
	for _, s := range r.stages {
		names = append(names, s.Name)
	}
	return append(names, StageNoMatch)
}

// Classify runs the chain; the first stage with an opinion decides.
func (r *Rules) Classify(c Candidate) Verdict {
	for _, s := range r.stages {
		if d := s.Eval(c); d != Undecided {
			return Verdict{Decision: d, Stage: s.Name}
		}
	}
	return Verdict{Decision: Exclude, Stage: StageNoMatch}
}

// PruneDir reports whether a directory must not be descended.
func (r *Rules) PruneDir(relPath string) bool {
	if r.excludedDirName(filepath.Base(relPath)) {
		return true
	}
	return r.ignore != nil && r.ignore.Match(relPath, true)
}

func (r *Rules) excludedDirName(name string) bool {
	if _, ok := r.excludeDirs[name]; ok {
		return true
	}
	for _, p := range r.dirPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// isResourceXML reports an .xml file with an ancestor directory named "res", in any case.
func isResourceXML(c Candidate) bool {
	if !strings.EqualFold(filepath.Ext(c.Name), ".xml") {
		return false
	}
	for _, d := range c.Dirs {
		if strings.EqualFold(d, "res") {
			return true
		}
	}
	return false
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
