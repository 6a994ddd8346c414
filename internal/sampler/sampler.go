package sampler

import (
	"context"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/src-d/enry/v2"
	"github.com/zeebo/xxh3"

	"github.com/Kamar-Folarin/repo-vetter/internal/config"
	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// PriorityDirs are root directories sampled before any other, in this order
var PriorityDirs = []string{
	"contracts", "src", "lib", "crypto", "consensus", "pow", "miner",
	"mining", "core", "pkg", "internal", "cmd", "app",
}

var codeExtensions = map[string]bool{
	".sol": true, ".vy": true, ".rs": true, ".go": true, ".py": true,
	".js": true, ".ts": true, ".c": true, ".cc": true, ".cpp": true,
	".h": true, ".hpp": true, ".java": true,
}

// maxDepth bounds how far below a planned directory files are sampled
const maxDepth = 2

// Source is the subset of the data source the sampler reads
type Source interface {
	ListDirectory(ctx context.Context, ref models.RepoRef, dir string) ([]models.DirEntry, error)
	GetFileContent(ctx context.Context, ref models.RepoRef, filePath string) ([]byte, error)
}

// Sample is the result of walking a repository
type Sample struct {
	Root  []models.DirEntry
	Files []models.FileSample
}

// Sampler picks a bounded, ordered set of source files from a repository
type Sampler struct {
	source Source
	cfg    config.SamplingConfig
	logger *logrus.Logger
}

// New creates a sampler
func New(source Source, cfg config.SamplingConfig, logger *logrus.Logger) *Sampler {
	return &Sampler{source: source, cfg: cfg, logger: logger}
}

// IsCodeFile reports whether the path has a sampled source extension and is not vendored
func IsCodeFile(p string) bool {
	return codeExtensions[strings.ToLower(path.Ext(p))] && !enry.IsVendor(p)
}

func isVendorDir(p string) bool {
	return enry.IsVendor(strings.TrimSuffix(p, "/") + "/")
}

// Plan returns the ordered directories to visit after the root: priority
// directories in PriorityDirs order, then up to maxExtra other directories in listing order.
func Plan(root []models.DirEntry, maxExtra int) []string {
	dirs := make(map[string]string)
	for _, e := range root {
		if e.IsDir() && !isVendorDir(e.Path) {
			dirs[e.Name] = e.Path
		}
	}

	plan := make([]string, 0, len(PriorityDirs)+maxExtra)
	priority := make(map[string]bool, len(PriorityDirs))
	for _, name := range PriorityDirs {
		priority[name] = true
		if p, ok := dirs[name]; ok {
			plan = append(plan, p)
		}
	}

	extra := 0
	for _, e := range root {
		if extra >= maxExtra {
			break
		}
		if !e.IsDir() || priority[e.Name] || isVendorDir(e.Path) || strings.HasPrefix(e.Name, ".") {
			continue
		}
		plan = append(plan, e.Path)
		extra++
	}
	return plan
}

// Collect lists the root, walks the plan and fetches up to MaxFiles code files.
// Only a failed root listing is an error; other fetch failures skip the entry.
func (s *Sampler) Collect(ctx context.Context, ref models.RepoRef) (*Sample, error) {
	root, err := s.source.ListDirectory(ctx, ref, "")
	if err != nil {
		return nil, err
	}

	sample := &Sample{Root: root, Files: make([]models.FileSample, 0, s.cfg.MaxFiles)}
	s.takeFiles(ctx, ref, root, sample)

	for _, dir := range Plan(root, s.cfg.MaxExtraDirs) {
		if s.full(sample) || ctx.Err() != nil {
			break
		}
		s.walk(ctx, ref, dir, 1, sample)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sample, nil
}

func (s *Sampler) walk(ctx context.Context, ref models.RepoRef, dir string, depth int, sample *Sample) {
	entries, err := s.source.ListDirectory(ctx, ref, dir)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"repo": ref.FullName(),
			"dir":  dir,
		}).WithError(err).Warn("Failed to list directory, skipping")
		return
	}

	s.takeFiles(ctx, ref, entries, sample)
	if depth >= maxDepth {
		return
	}
	for _, e := range entries {
		if s.full(sample) || ctx.Err() != nil {
			return
		}
		if e.IsDir() && !isVendorDir(e.Path) {
			s.walk(ctx, ref, e.Path, depth+1, sample)
		}
	}
}

func (s *Sampler) takeFiles(ctx context.Context, ref models.RepoRef, entries []models.DirEntry, sample *Sample) {
	for _, e := range entries {
		if s.full(sample) || ctx.Err() != nil {
			return
		}
		if e.IsDir() || !IsCodeFile(e.Path) {
			continue
		}

		content, err := s.source.GetFileContent(ctx, ref, e.Path)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"repo": ref.FullName(),
				"path": e.Path,
			}).WithError(err).Warn("Failed to fetch file content, skipping")
			continue
		}
		sample.Files = append(sample.Files, NewFileSample(e.Path, content, s.cfg.MaxFileSize))
	}
}

func (s *Sampler) full(sample *Sample) bool {
	return len(sample.Files) >= s.cfg.MaxFiles
}

// NewFileSample truncates content to at most maxBytes, backing off to a rune
// boundary, and records language and digest
func NewFileSample(filePath string, content []byte, maxBytes int) models.FileSample {
	truncated := false
	if maxBytes > 0 && len(content) > maxBytes {
		n := maxBytes
		for n > 0 && !utf8.RuneStart(content[n]) {
			n--
		}
		content = content[:n]
		truncated = true
	}
	return models.FileSample{
		Path:      filePath,
		Content:   string(content),
		Truncated: truncated,
		Language:  enry.GetLanguage(path.Base(filePath), content),
		Digest:    xxh3.Hash(content),
	}
}
