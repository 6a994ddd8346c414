package scanner

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
	"github.com/Kamar-Folarin/repo-vetter/internal/signatures"
)

// HighTemplateThreshold is the ratio at which sampled code counts as boilerplate
const HighTemplateThreshold = 0.90

// markersPerFile is the number of distinct markers that makes one file look fully templated
const markersPerFile = 3

// Result is the outcome of scanning one corpus
type Result struct {
	Matches                []models.AlgorithmMatch
	TemplateMarkers        []string
	TemplateSimilarity     float64
	HighTemplateSimilarity bool
	FilesScanned           int
	TruncatedFiles         int
	SampledPaths           []string
	CorpusDigest           uint64
	AIML                   models.AIMLScan
}

// Scanner applies a signature catalog to sampled source text
type Scanner struct {
	algorithms []signatures.Algorithm
	markers    []string
	aiml       []string
}

// New returns a scanner over the built-in catalog
func New() *Scanner {
	return NewWithCatalog(signatures.Catalog(), signatures.TemplateMarkers())
}

// NewWithCatalog returns a scanner over a custom catalog
func NewWithCatalog(algorithms []signatures.Algorithm, markers []string) *Scanner {
	return &Scanner{algorithms: algorithms, markers: markers, aiml: signatures.AIMLSignatures()}
}

// BuildCorpus joins file contents with newlines
func BuildCorpus(files []models.FileSample) string {
	contents := make([]string, len(files))
	for i, f := range files {
		contents[i] = f.Content
	}
	return strings.Join(contents, "\n")
}

// Scan builds the corpus from files and runs both measures over it
func (s *Scanner) Scan(files []models.FileSample) Result {
	corpus := BuildCorpus(files)
	found, ratio := s.TemplateSimilarity(corpus, len(files))

	res := Result{
		Matches:                s.MatchAlgorithms(corpus),
		TemplateMarkers:        found,
		TemplateSimilarity:     ratio,
		HighTemplateSimilarity: ratio >= HighTemplateThreshold,
		FilesScanned:           len(files),
		SampledPaths:           make([]string, 0, len(files)),
		CorpusDigest:           xxh3.HashString(corpus),
		AIML:                   s.ScanAIML(files),
	}
	for _, f := range files {
		res.SampledPaths = append(res.SampledPaths, f.Path)
		if f.Truncated {
			res.TruncatedFiles++
		}
	}
	return res
}

// MatchAlgorithms scores every algorithm against the corpus and returns the
// nonzero ones, highest score first, ties in catalog order.
func (s *Scanner) MatchAlgorithms(corpus string) []models.AlgorithmMatch {
	matches := make([]models.AlgorithmMatch, 0)
	for _, algo := range s.algorithms {
		score := 0
		for _, rule := range algo.Rules {
			score += rule.Score(corpus)
		}
		if score == 0 {
			continue
		}
		matches = append(matches, models.AlgorithmMatch{
			ID:            algo.ID,
			Name:          algo.Name,
			Score:         score,
			KnownProjects: algo.KnownProjects,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// TemplateSimilarity returns the markers present in the corpus and the
// boilerplate ratio (found/3)/filesScanned clamped to [0,1].
func (s *Scanner) TemplateSimilarity(corpus string, filesScanned int) ([]string, float64) {
	found := make([]string, 0)
	for _, m := range s.markers {
		if strings.Contains(corpus, m) {
			found = append(found, m)
		}
	}
	if filesScanned <= 0 {
		return found, 0
	}
	ratio := float64(len(found)) / markersPerFile / float64(filesScanned)
	return found, clamp01(ratio)
}

// ScanAIML counts the files containing at least one machine-learning signature.
// Signatures are listed in order of first appearance.
func (s *Scanner) ScanAIML(files []models.FileSample) models.AIMLScan {
	out := models.AIMLScan{FilesScanned: len(files), Signatures: make([]string, 0)}
	seen := make(map[string]bool)
	for _, f := range files {
		hit := false
		for _, sig := range s.aiml {
			if !strings.Contains(f.Content, sig) {
				continue
			}
			hit = true
			if !seen[sig] {
				seen[sig] = true
				out.Signatures = append(out.Signatures, sig)
			}
		}
		if hit {
			out.FilesWithSignals++
		}
	}
	if out.FilesScanned > 0 {
		out.Ratio = math.Round(float64(out.FilesWithSignals)/float64(out.FilesScanned)*1e4) / 1e4
	}
	return out
}

// FormatDigest renders a digest the way reports carry it
func FormatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
